package synthetic

import (
	"testing"

	"github.com/wippyai/uno-inspect/image"
	"github.com/wippyai/uno-inspect/internal/unotest"
	"github.com/wippyai/uno-inspect/summary"
)

func TestReference_Children(t *testing.T) {
	f := unotest.New(t)
	i32 := f.Type("sal_Int32")
	foo := f.Define(image.StructSpec{Name: "Foo", Polymorphic: true, Fields: []image.FieldSpec{image.F("x", i32)}})
	bar := f.Define(image.StructSpec{Name: "Bar", Bases: []*image.Type{foo}, Fields: []image.FieldSpec{image.F("y", i32)}})
	f.Types.SetVTable(0x9000, bar)
	ref, err := image.ReferenceOf(f.Types, foo)
	if err != nil {
		t.Fatal(err)
	}

	obj := f.New("Bar")
	f.U32(obj, 0x9000)
	handle := f.Handle(ref.Name(), obj)
	p := NewReference(f.Value(handle, ref.Name()), "_pInterface", Options{})
	if err := p.Update(); err != nil {
		t.Fatal(err)
	}

	if p.NumChildren() != 1 {
		t.Fatalf("NumChildren = %d, want 1", p.NumChildren())
	}
	if p.ChildIndex(DereferenceChild) != 0 || p.ChildIndex("x") != -1 {
		t.Error("ChildIndex")
	}
	c, ok := p.ChildAt(0)
	if !ok {
		t.Fatal("ChildAt(0) missing")
	}
	if c.TypeName() != "Bar" || c.Address() != uint64(obj) {
		t.Errorf("child = %s @0x%x, want Bar @0x%x", c.TypeName(), c.Address(), obj)
	}
	if _, ok := p.ChildAt(1); ok {
		t.Error("ChildAt(1) exists")
	}

	f.U32(handle, 0)
	if err := p.Update(); err != nil {
		t.Fatal(err)
	}
	if p.NumChildren() != 0 {
		t.Errorf("empty handle has %d children", p.NumChildren())
	}
	if _, ok := p.ChildAt(0); ok {
		t.Error("empty handle has a pointee")
	}
}

func TestReference_MissingField(t *testing.T) {
	f := unotest.New(t)
	v := f.Value(f.New("sal_Int32"), "sal_Int32")
	p := NewReference(v, "m_pBody", Options{})
	if err := p.Update(); err != nil {
		t.Fatal(err)
	}
	if p.NumChildren() != 0 {
		t.Errorf("NumChildren = %d", p.NumChildren())
	}
}

func TestFor(t *testing.T) {
	f := unotest.New(t)
	v := f.Value(f.New("sal_Int32"), "sal_Int32")
	tests := []struct {
		kind summary.ValueKind
		want string
	}{
		{summary.ReferenceValue, "reference"},
		{summary.RtlReferenceValue, "reference"},
		{summary.SequenceValue, "sequence"},
		{summary.AnyValue, ""},
		{summary.TypeValue, ""},
		{summary.ThreadPoolValue, ""},
		{summary.UStringHandle, ""},
		{summary.Unclassified, ""},
	}
	for _, tt := range tests {
		var got string
		switch For(tt.kind, v, Options{}).(type) {
		case *Reference:
			got = "reference"
		case *Sequence:
			got = "sequence"
		}
		if got != tt.want {
			t.Errorf("For(%s) = %q, want %q", tt.kind, got, tt.want)
		}
	}
}
