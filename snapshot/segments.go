package snapshot

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
	"unicode/utf16"

	"github.com/wippyai/uno-inspect/image"
)

// encode returns the bytes a segment writes.
func encode(s SegmentSpec) ([]byte, error) {
	var (
		out []byte
		set int
	)
	le := binary.LittleEndian
	if s.Hex != "" {
		set++
		b, err := hex.DecodeString(s.Hex)
		if err != nil {
			return nil, err
		}
		out = b
	}
	if s.U8 != nil {
		set++
		for _, v := range s.U8 {
			if v < 0 || v > math.MaxUint8 {
				return nil, fmt.Errorf("u8 value %d out of range", v)
			}
			out = append(out, byte(v))
		}
	}
	if s.U16 != nil {
		set++
		for _, v := range s.U16 {
			out = le.AppendUint16(out, v)
		}
	}
	if s.U32 != nil {
		set++
		for _, v := range s.U32 {
			out = le.AppendUint32(out, v)
		}
	}
	if s.S32 != nil {
		set++
		for _, v := range s.S32 {
			out = le.AppendUint32(out, uint32(v))
		}
	}
	if s.U64 != nil {
		set++
		for _, v := range s.U64 {
			out = le.AppendUint64(out, v)
		}
	}
	if s.F32 != nil {
		set++
		for _, v := range s.F32 {
			out = le.AppendUint32(out, math.Float32bits(v))
		}
	}
	if s.F64 != nil {
		set++
		for _, v := range s.F64 {
			out = le.AppendUint64(out, math.Float64bits(v))
		}
	}
	if s.UTF16 != nil {
		set++
		out = appendUTF16(out, *s.UTF16)
	}
	if s.UTF8 != nil {
		set++
		out = append(out, *s.UTF8...)
	}
	if s.UString != nil {
		set++
		units := utf16.Encode([]rune(*s.UString))
		out = le.AppendUint32(out, 1)
		out = le.AppendUint32(out, uint32(len(units)))
		out = appendUTF16(out, *s.UString)
		out = le.AppendUint16(out, 0)
	}
	if s.String != nil {
		set++
		out = le.AppendUint32(out, 1)
		out = le.AppendUint32(out, uint32(len(*s.String)))
		out = append(out, *s.String...)
		out = append(out, 0)
	}
	if set != 1 {
		return nil, fmt.Errorf("segment needs exactly one payload, has %d", set)
	}
	return out, nil
}

func appendUTF16(out []byte, s string) []byte {
	for _, u := range utf16.Encode([]rune(s)) {
		out = binary.LittleEndian.AppendUint16(out, u)
	}
	return out
}

func writeSegment(mem image.Memory, s SegmentSpec) error {
	data, err := encode(s)
	if err != nil {
		return err
	}
	return mem.Write(s.At, data)
}
