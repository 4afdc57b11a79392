package image

import (
	"encoding/binary"

	"github.com/tetratelabs/wazero/api"

	unoinspect "github.com/wippyai/uno-inspect"
	"github.com/wippyai/uno-inspect/errors"
)

type Memory = unoinspect.Memory

// WrapMemory wraps a wazero api.Memory so the linear memory of a running
// module can be inspected.
func WrapMemory(mem api.Memory) Memory {
	if mem == nil {
		return nil
	}
	return &Wrapper{Mem: mem}
}

// Wrapper adapts wazero api.Memory to the Memory interface.
type Wrapper struct {
	Mem api.Memory
}

// Size reports the current memory size in bytes.
func (m *Wrapper) Size() uint32 {
	return m.Mem.Size()
}

// Read reads bytes from memory.
func (m *Wrapper) Read(offset uint32, length uint32) ([]byte, error) {
	data, ok := m.Mem.Read(offset, length)
	if !ok {
		return nil, errors.OutOfBounds(errors.PhaseRead, uint64(offset), uint64(length))
	}
	return data, nil
}

// Write writes bytes to memory.
func (m *Wrapper) Write(offset uint32, data []byte) error {
	if !m.Mem.Write(offset, data) {
		return errors.OutOfBounds(errors.PhaseRead, uint64(offset), uint64(len(data)))
	}
	return nil
}

// ReadU8 reads an unsigned 8-bit value.
func (m *Wrapper) ReadU8(offset uint32) (uint8, error) {
	v, ok := m.Mem.ReadByte(offset)
	if !ok {
		return 0, errors.OutOfBounds(errors.PhaseRead, uint64(offset), 1)
	}
	return v, nil
}

// ReadU16 reads an unsigned 16-bit little-endian value.
func (m *Wrapper) ReadU16(offset uint32) (uint16, error) {
	v, ok := m.Mem.ReadUint16Le(offset)
	if !ok {
		return 0, errors.OutOfBounds(errors.PhaseRead, uint64(offset), 2)
	}
	return v, nil
}

// ReadU32 reads an unsigned 32-bit little-endian value.
func (m *Wrapper) ReadU32(offset uint32) (uint32, error) {
	v, ok := m.Mem.ReadUint32Le(offset)
	if !ok {
		return 0, errors.OutOfBounds(errors.PhaseRead, uint64(offset), 4)
	}
	return v, nil
}

// ReadU64 reads an unsigned 64-bit little-endian value.
func (m *Wrapper) ReadU64(offset uint32) (uint64, error) {
	v, ok := m.Mem.ReadUint64Le(offset)
	if !ok {
		return 0, errors.OutOfBounds(errors.PhaseRead, uint64(offset), 8)
	}
	return v, nil
}

// WriteU8 writes an unsigned 8-bit value.
func (m *Wrapper) WriteU8(offset uint32, value uint8) error {
	if !m.Mem.WriteByte(offset, value) {
		return errors.OutOfBounds(errors.PhaseRead, uint64(offset), 1)
	}
	return nil
}

// WriteU16 writes an unsigned 16-bit little-endian value.
func (m *Wrapper) WriteU16(offset uint32, value uint16) error {
	if !m.Mem.WriteUint16Le(offset, value) {
		return errors.OutOfBounds(errors.PhaseRead, uint64(offset), 2)
	}
	return nil
}

// WriteU32 writes an unsigned 32-bit little-endian value.
func (m *Wrapper) WriteU32(offset uint32, value uint32) error {
	if !m.Mem.WriteUint32Le(offset, value) {
		return errors.OutOfBounds(errors.PhaseRead, uint64(offset), 4)
	}
	return nil
}

// WriteU64 writes an unsigned 64-bit little-endian value.
func (m *Wrapper) WriteU64(offset uint32, value uint64) error {
	if !m.Mem.WriteUint64Le(offset, value) {
		return errors.OutOfBounds(errors.PhaseRead, uint64(offset), 8)
	}
	return nil
}

// Bytes is a flat little-endian memory backed by a byte slice. It holds
// memory captured from a snapshot file.
type Bytes struct {
	data []byte
}

// NewBytes allocates a zeroed memory of the given size.
func NewBytes(size uint32) *Bytes {
	return &Bytes{data: make([]byte, size)}
}

func (m *Bytes) Size() uint32 {
	return uint32(len(m.data))
}

func (m *Bytes) slice(offset, length uint32) ([]byte, error) {
	end := uint64(offset) + uint64(length)
	if end > uint64(len(m.data)) {
		return nil, errors.OutOfBounds(errors.PhaseRead, uint64(offset), uint64(length))
	}
	return m.data[offset:end], nil
}

func (m *Bytes) Read(offset uint32, length uint32) ([]byte, error) {
	b, err := m.slice(offset, length)
	if err != nil {
		return nil, err
	}
	out := make([]byte, length)
	copy(out, b)
	return out, nil
}

func (m *Bytes) Write(offset uint32, data []byte) error {
	b, err := m.slice(offset, uint32(len(data)))
	if err != nil {
		return err
	}
	copy(b, data)
	return nil
}

func (m *Bytes) ReadU8(offset uint32) (uint8, error) {
	b, err := m.slice(offset, 1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (m *Bytes) ReadU16(offset uint32) (uint16, error) {
	b, err := m.slice(offset, 2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (m *Bytes) ReadU32(offset uint32) (uint32, error) {
	b, err := m.slice(offset, 4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (m *Bytes) ReadU64(offset uint32) (uint64, error) {
	b, err := m.slice(offset, 8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (m *Bytes) WriteU8(offset uint32, value uint8) error {
	b, err := m.slice(offset, 1)
	if err != nil {
		return err
	}
	b[0] = value
	return nil
}

func (m *Bytes) WriteU16(offset uint32, value uint16) error {
	b, err := m.slice(offset, 2)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint16(b, value)
	return nil
}

func (m *Bytes) WriteU32(offset uint32, value uint32) error {
	b, err := m.slice(offset, 4)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(b, value)
	return nil
}

func (m *Bytes) WriteU64(offset uint32, value uint64) error {
	b, err := m.slice(offset, 8)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint64(b, value)
	return nil
}
