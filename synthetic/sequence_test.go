package synthetic

import (
	stderrors "errors"
	"testing"

	"github.com/wippyai/uno-inspect/errors"
	"github.com/wippyai/uno-inspect/image"
	"github.com/wippyai/uno-inspect/internal/unotest"
)

func int32Sequence(t *testing.T, f *unotest.Fixture) string {
	t.Helper()
	typ, err := image.SequenceOf(f.Types, f.Type("sal_Int32"))
	if err != nil {
		t.Fatal(err)
	}
	return typ.Name()
}

func TestSequence_Children(t *testing.T) {
	f := unotest.New(t)
	name := int32Sequence(t, f)
	seq, elems := f.SalSequence(3, 4)
	for i, v := range []uint32{10, 20, 30} {
		f.U32(elems+uint32(i)*4, v)
	}

	p := NewSequence(f.Value(f.Handle(name, seq), name), Options{})
	if err := p.Update(); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if n := p.NumChildren(); n != 3 {
		t.Fatalf("NumChildren = %d, want 3", n)
	}

	c, ok := p.ChildAt(2)
	if !ok {
		t.Fatal("ChildAt(2) missing")
	}
	if c.Address() != uint64(elems+8) {
		t.Errorf("child 2 at 0x%x, want 0x%x", c.Address(), elems+8)
	}
	if v, err := c.Uint(); err != nil || v != 30 {
		t.Errorf("child 2 = %d, %v", v, err)
	}
	if c.TypeName() != "sal_Int32" {
		t.Errorf("child type = %s", c.TypeName())
	}
	if _, ok := p.ChildAt(3); ok {
		t.Error("ChildAt(3) exists")
	}
	if _, ok := p.ChildAt(-1); ok {
		t.Error("ChildAt(-1) exists")
	}
	if p.ChildName(1) != "[1]" {
		t.Errorf("ChildName(1) = %q", p.ChildName(1))
	}
}

func TestSequence_ChildIndex(t *testing.T) {
	f := unotest.New(t)
	name := int32Sequence(t, f)
	seq, _ := f.SalSequence(3, 4)
	p := NewSequence(f.Value(f.Handle(name, seq), name), Options{})
	if err := p.Update(); err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name string
		want int
	}{
		{"[0]", 0},
		{"[2]", 2},
		{"2", 2},
		{"[3]", -1},
		{"[-1]", -1},
		{"x", -1},
		{"", -1},
	}
	for _, tt := range tests {
		if got := p.ChildIndex(tt.name); got != tt.want {
			t.Errorf("ChildIndex(%q) = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestSequence_NullBuffer(t *testing.T) {
	f := unotest.New(t)
	name := int32Sequence(t, f)
	p := NewSequence(f.Value(f.Handle(name, 0), name), Options{})
	if err := p.Update(); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if p.NumChildren() != 0 {
		t.Errorf("NumChildren = %d", p.NumChildren())
	}
	if _, ok := p.ChildAt(0); ok {
		t.Error("child of uninitialized sequence")
	}
}

func TestSequence_UpdateRereads(t *testing.T) {
	f := unotest.New(t)
	name := int32Sequence(t, f)
	seq, _ := f.SalSequence(3, 4)
	handle := f.Handle(name, seq)
	p := NewSequence(f.Value(handle, name), Options{})
	if err := p.Update(); err != nil {
		t.Fatal(err)
	}

	bigger, elems := f.SalSequence(5, 4)
	f.U32(elems+16, 99)
	f.U32(handle, bigger)

	if p.NumChildren() != 3 {
		t.Fatalf("provider changed before Update")
	}
	if err := p.Update(); err != nil {
		t.Fatal(err)
	}
	if p.NumChildren() != 5 {
		t.Fatalf("NumChildren after Update = %d, want 5", p.NumChildren())
	}
	c, ok := p.ChildAt(4)
	if !ok {
		t.Fatal("ChildAt(4) missing")
	}
	if v, _ := c.Uint(); v != 99 {
		t.Errorf("child 4 = %d, want 99", v)
	}

	f.U32(handle, 0)
	if err := p.Update(); err != nil {
		t.Fatal(err)
	}
	if p.NumChildren() != 0 {
		t.Errorf("stale children after buffer released: %d", p.NumChildren())
	}
}

func TestSequence_ZeroSizeElement(t *testing.T) {
	f := unotest.New(t)
	empty := f.Define(image.StructSpec{Name: "Empty"})
	typ, err := image.SequenceOf(f.Types, empty)
	if err != nil {
		t.Fatal(err)
	}
	seq, _ := f.SalSequence(2, 0)
	v := f.Value(f.Handle(typ.Name(), seq), typ.Name())

	quiet := NewSequence(v, Options{})
	if err := quiet.Update(); err != nil {
		t.Errorf("without diagnostics Update = %v", err)
	}
	if quiet.NumChildren() != 0 {
		t.Errorf("NumChildren = %d", quiet.NumChildren())
	}

	loud := NewSequence(v, Options{Diagnostics: true})
	err = loud.Update()
	if !stderrors.Is(err, errors.New(errors.PhaseExpand, errors.KindZeroSize).Build()) {
		t.Errorf("with diagnostics Update = %v, want zero size error", err)
	}
	if loud.NumChildren() != 0 {
		t.Errorf("NumChildren = %d", loud.NumChildren())
	}
}

func TestSequence_CorruptCount(t *testing.T) {
	f := unotest.New(t)
	name := int32Sequence(t, f)
	seq, _ := f.SalSequence(-4, 4)
	p := NewSequence(f.Value(f.Handle(name, seq), name), Options{})
	if err := p.Update(); err == nil {
		t.Error("negative count accepted")
	}
	if p.NumChildren() != 0 {
		t.Errorf("NumChildren = %d", p.NumChildren())
	}
}
