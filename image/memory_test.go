package image

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/tetratelabs/wazero"

	"github.com/wippyai/uno-inspect/errors"
)

// memoryWASM is a minimal WASM module with 1 page of memory exported as "memory"
var memoryWASM = []byte{
	0x00, 0x61, 0x73, 0x6d, // magic
	0x01, 0x00, 0x00, 0x00, // version
	0x05, 0x03, 0x01, 0x00, 0x01, // memory section: 1 page, no max
	0x07, 0x0a, 0x01, // export section: 10 bytes, 1 export
	0x06, 0x6d, 0x65, 0x6d, 0x6f, 0x72, 0x79, // name: "memory" (6 bytes + string)
	0x02, 0x00, // kind: memory, index 0
}

func TestWrapMemory_Nil(t *testing.T) {
	if mem := WrapMemory(nil); mem != nil {
		t.Error("expected nil for nil memory")
	}
}

func TestWrapper_ReadWrite(t *testing.T) {
	ctx := context.Background()
	rt := wazero.NewRuntime(ctx)
	defer rt.Close(ctx)

	mod, err := rt.Instantiate(ctx, memoryWASM)
	if err != nil {
		t.Fatalf("failed to instantiate: %v", err)
	}
	defer mod.Close(ctx)

	mem := WrapMemory(mod.ExportedMemory("memory"))
	if mem == nil {
		t.Fatal("expected non-nil wrapped memory")
	}
	testMemory(t, mem, 1<<16)
}

func TestBytes_ReadWrite(t *testing.T) {
	testMemory(t, NewBytes(256), 256)
}

func testMemory(t *testing.T, mem Memory, size uint32) {
	t.Helper()

	if err := mem.Write(0, []byte{1, 2, 3, 4}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	got, err := mem.Read(0, 4)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(got) != 4 || got[0] != 1 || got[3] != 4 {
		t.Errorf("Read = %v, want [1 2 3 4]", got)
	}

	if err := mem.WriteU8(8, 0xAB); err != nil {
		t.Fatalf("WriteU8 failed: %v", err)
	}
	if v, err := mem.ReadU8(8); err != nil || v != 0xAB {
		t.Errorf("ReadU8 = %#x, %v", v, err)
	}

	if err := mem.WriteU16(10, 0x1234); err != nil {
		t.Fatalf("WriteU16 failed: %v", err)
	}
	if v, err := mem.ReadU16(10); err != nil || v != 0x1234 {
		t.Errorf("ReadU16 = %#x, %v", v, err)
	}
	if lo, _ := mem.ReadU8(10); lo != 0x34 {
		t.Errorf("low byte = %#x, want 0x34 (little endian)", lo)
	}

	if err := mem.WriteU32(16, 0xDEADBEEF); err != nil {
		t.Fatalf("WriteU32 failed: %v", err)
	}
	if v, err := mem.ReadU32(16); err != nil || v != 0xDEADBEEF {
		t.Errorf("ReadU32 = %#x, %v", v, err)
	}

	if err := mem.WriteU64(24, 0x0102030405060708); err != nil {
		t.Fatalf("WriteU64 failed: %v", err)
	}
	if v, err := mem.ReadU64(24); err != nil || v != 0x0102030405060708 {
		t.Errorf("ReadU64 = %#x, %v", v, err)
	}

	if _, err := mem.ReadU32(size - 2); !stderrors.Is(err, errors.OutOfBounds(errors.PhaseRead, 0, 0)) {
		t.Errorf("read past end: err = %v, want out of bounds", err)
	}
	if _, err := mem.Read(size, 1); err == nil {
		t.Error("expected error reading at size")
	}
	if err := mem.WriteU64(size-4, 1); err == nil {
		t.Error("expected error writing past end")
	}
}

func TestBytes_ReadCopies(t *testing.T) {
	mem := NewBytes(8)
	_ = mem.WriteU8(0, 7)
	b, _ := mem.Read(0, 1)
	b[0] = 9
	if v, _ := mem.ReadU8(0); v != 7 {
		t.Errorf("Read aliases memory: got %d after modifying copy", v)
	}
}
