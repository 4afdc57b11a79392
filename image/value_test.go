package image

import (
	"context"
	stderrors "errors"
	"math"
	"strings"
	"testing"

	unoinspect "github.com/wippyai/uno-inspect"
	"github.com/wippyai/uno-inspect/errors"
)

type formatFunc func(v unoinspect.Value) (string, bool)

func (f formatFunc) Summarize(v unoinspect.Value) (string, bool) { return f(v) }

func newImage(t *testing.T, opts ...Option) (*Image, *Bytes) {
	t.Helper()
	tab := NewTable()
	if err := RegisterUNO(tab); err != nil {
		t.Fatalf("RegisterUNO: %v", err)
	}
	mem := NewBytes(4096)
	return New(mem, tab, opts...), mem
}

func valueOf(t *testing.T, img *Image, addr uint32, expr string) Value {
	t.Helper()
	v, err := img.ValueOf("v", addr, expr)
	if err != nil {
		t.Fatalf("ValueOf(%s): %v", expr, err)
	}
	return v
}

func TestValue_ScalarSummary(t *testing.T) {
	img, mem := newImage(t)

	_ = mem.WriteU32(0x10, uint32(0xFFFFFFFB))
	_ = mem.WriteU8(0x20, 'A')
	_ = mem.WriteU8(0x21, 1)
	_ = mem.WriteU64(0x28, math.Float64bits(2.5))
	_ = mem.WriteU32(0x30, math.Float32bits(0.25))
	_ = mem.WriteU16(0x34, 0xFFFF)

	tests := []struct {
		expr string
		addr uint32
		want string
	}{
		{"int", 0x10, "-5"},
		{"sal_uInt32", 0x10, "4294967291"},
		{"char", 0x20, "'A'"},
		{"sal_Bool", 0x21, "1"},
		{"bool", 0x21, "true"},
		{"double", 0x28, "2.5"},
		{"float", 0x30, "0.25"},
		{"short", 0x34, "-1"},
		{"sal_uInt16", 0x34, "65535"},
		{"int *", 0x10, "0xfffffffb"},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			if got := valueOf(t, img, tt.addr, tt.expr).Summary(); got != tt.want {
				t.Errorf("Summary = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValue_Uint(t *testing.T) {
	img, mem := newImage(t)
	_ = mem.WriteU16(0x10, 0xFFFE)

	got, err := valueOf(t, img, 0x10, "sal_Int16").Uint()
	if err != nil {
		t.Fatalf("Uint: %v", err)
	}
	if int64(got) != -2 {
		t.Errorf("sign extension: got %d", int64(got))
	}

	if _, err := valueOf(t, img, 0x10, "double").Uint(); err == nil {
		t.Error("Uint of double succeeded")
	}
	if _, err := valueOf(t, img, 0x10, "rtl::OUString").Uint(); err == nil {
		t.Error("Uint of struct succeeded")
	}
	if _, err := valueOf(t, img, 4095, "int").Uint(); !stderrors.Is(err, errors.ErrReadFailure) {
		t.Errorf("read past end: %v", err)
	}
}

func TestValue_StructAndArraySummary(t *testing.T) {
	img, mem := newImage(t)
	tab := img.Types()
	i := tab.Named("sal_Int32")
	if _, err := tab.Define(StructSpec{Name: "Point", Fields: []FieldSpec{F("x", i), F("y", i)}}); err != nil {
		t.Fatal(err)
	}
	_ = mem.WriteU32(0x40, 3)
	_ = mem.WriteU32(0x44, 4)

	if got := valueOf(t, img, 0x40, "Point").Summary(); got != "{x = 3, y = 4}" {
		t.Errorf("struct = %q", got)
	}
	if got := valueOf(t, img, 0x40, "sal_Int32[2]").Summary(); got != "{3, 4}" {
		t.Errorf("array = %q", got)
	}
	long := valueOf(t, img, 0x40, "sal_uInt8[20]").Summary()
	if !strings.HasSuffix(long, ", ...}") || strings.Count(long, ",") != maxArrayElements {
		t.Errorf("long array = %q", long)
	}
	if got := valueOf(t, img, 0x40, "void").Summary(); got != "void" {
		t.Errorf("void = %q", got)
	}
}

func TestValue_FieldAndDeref(t *testing.T) {
	img, mem := newImage(t)
	_ = mem.WriteU32(0x100, 0x200) // OUString.pData
	_ = mem.WriteU32(0x204, 2)     // length

	s := valueOf(t, img, 0x100, "rtl::OUString")
	p, err := s.Field("pData")
	if err != nil {
		t.Fatalf("Field: %v", err)
	}
	if p.(Value).Name() != "v.pData" || p.TypeName() != "rtl_uString *" {
		t.Errorf("field = %s", p)
	}
	rec, err := p.Deref()
	if err != nil {
		t.Fatalf("Deref: %v", err)
	}
	if rec.Address() != 0x200 || rec.CanonicalTypeName() != "_rtl_uString" {
		t.Errorf("deref = %s @%#x", rec.CanonicalTypeName(), rec.Address())
	}
	n, _ := rec.Field("length")
	if got, _ := n.Uint(); got != 2 {
		t.Errorf("length = %d", got)
	}

	if _, err := s.Field("missing"); err == nil {
		t.Error("missing field found")
	}
	if _, err := s.Deref(); err == nil {
		t.Error("deref of struct succeeded")
	}

	null := valueOf(t, img, 0x300, "rtl_uString *")
	if _, err := null.Deref(); !stderrors.Is(err, errors.NilPointer(errors.PhaseRead, nil, "")) {
		t.Errorf("null deref: %v", err)
	}
	_ = mem.WriteU32(0x304, 0x10)
	if _, err := valueOf(t, img, 0x304, "void *").Deref(); err == nil {
		t.Error("void pointer deref succeeded")
	}
	_ = mem.WriteU32(0x308, 0x10000)
	if _, err := valueOf(t, img, 0x308, "int *").Deref(); err == nil {
		t.Error("out of range deref succeeded")
	}
}

func TestValue_DynamicValue(t *testing.T) {
	img, mem := newImage(t)
	tab := img.Types()
	i := tab.Named("sal_Int32")
	base, _ := tab.Define(StructSpec{Name: "Base", Polymorphic: true, Fields: []FieldSpec{F("a", i)}})
	derived, _ := tab.Define(StructSpec{Name: "Derived", Bases: []*Type{base}, Fields: []FieldSpec{F("b", i)}})
	tab.SetVTable(0x900, derived)

	_ = mem.WriteU32(0x400, 0x900)
	_ = mem.WriteU32(0x404, 1)
	_ = mem.WriteU32(0x408, 2)
	_ = mem.WriteU32(0x410, 0x400)

	dyn, err := valueOf(t, img, 0x410, "Base *").DynamicValue()
	if err != nil {
		t.Fatalf("DynamicValue: %v", err)
	}
	if dyn.TypeName() != "Derived" || dyn.Address() != 0x400 {
		t.Errorf("dynamic = %s @%#x", dyn.TypeName(), dyn.Address())
	}
	if got := dyn.Summary(); got != "{a = 1, b = 2}" {
		t.Errorf("summary = %q", got)
	}

	_ = mem.WriteU32(0x400, 0x999)
	if _, err := valueOf(t, img, 0x400, "Base").DynamicValue(); err == nil {
		t.Error("unknown vtable resolved")
	}

	plain, err := valueOf(t, img, 0x404, "sal_Int32").DynamicValue()
	if err != nil || plain.TypeName() != "sal_Int32" {
		t.Errorf("non-polymorphic dynamic value: %v", err)
	}
}

func TestValue_CastAndChildAtOffset(t *testing.T) {
	img, mem := newImage(t)
	_ = mem.WriteU32(0x50, 7)
	v := valueOf(t, img, 0x4C, "rtl::OUString")

	u32, _ := img.FindType("sal_uInt32")
	child, err := v.ChildAtOffset("[1]", 4, u32)
	if err != nil {
		t.Fatalf("ChildAtOffset: %v", err)
	}
	if child.(Value).Name() != "v[1]" || child.Address() != 0x50 {
		t.Errorf("child = %s @%#x", child, child.Address())
	}
	if got, _ := child.Uint(); got != 7 {
		t.Errorf("child value = %d", got)
	}

	cast, err := child.Cast(u32.PointerType())
	if err != nil || cast.TypeName() != "sal_uInt32 *" {
		t.Errorf("Cast: %v", err)
	}

	other := NewTable()
	if _, err := v.Cast(other.Named("int")); err == nil {
		t.Error("cast to foreign type succeeded")
	}
	if _, err := v.ChildAtOffset("x", 0, other.Named("int")); err == nil {
		t.Error("child of foreign type succeeded")
	}
	if _, err := v.ChildAtOffset("x", math.MaxUint32, u32); err == nil {
		t.Error("child beyond 32-bit address space succeeded")
	}
}

func TestValue_TemplateArg(t *testing.T) {
	img, _ := newImage(t)
	elem := img.Types().Named("double")
	if _, err := SequenceOf(img.Types(), elem); err != nil {
		t.Fatal(err)
	}
	v := valueOf(t, img, 0, "com::sun::star::uno::Sequence<double>")

	arg, err := v.TemplateArg(0)
	if err != nil || arg.Name() != "double" {
		t.Errorf("TemplateArg(0) = %v, %v", arg, err)
	}
	if _, err := v.TemplateArg(1); err == nil {
		t.Error("TemplateArg(1) succeeded")
	}
}

func TestValue_Formatter(t *testing.T) {
	img, mem := newImage(t)
	_ = mem.WriteU32(0x10, 42)

	img.SetFormatter(formatFunc(func(v unoinspect.Value) (string, bool) {
		if v.TypeName() == "sal_Int32" {
			return "answer", true
		}
		return "", false
	}))

	if got := valueOf(t, img, 0x10, "sal_Int32").Summary(); got != "answer" {
		t.Errorf("formatted = %q", got)
	}
	if got := valueOf(t, img, 0x10, "int").Summary(); got != "42" {
		t.Errorf("fallback = %q", got)
	}
	if got := valueOf(t, img, 0x10, "sal_Int32").DefaultSummary(); got != "42" {
		t.Errorf("default = %q", got)
	}
}

func TestValue_RenderDepthGuard(t *testing.T) {
	img, _ := newImage(t, WithMaxRenderDepth(3))
	img.SetFormatter(formatFunc(func(v unoinspect.Value) (string, bool) {
		return "(" + v.Summary() + ")", true
	}))

	if got := valueOf(t, img, 0, "int").Summary(); got != "((({...})))" {
		t.Errorf("Summary = %q", got)
	}
	if img.nesting != 0 {
		t.Errorf("nesting = %d after render", img.nesting)
	}
}

func TestImage_FindTypeAndValueOf(t *testing.T) {
	img, _ := newImage(t)

	if _, ok := img.FindType(AnyType); !ok {
		t.Error("Any not found")
	}
	img.Types().Named("Opaque")
	if _, ok := img.FindType("Opaque"); ok {
		t.Error("forward declaration found")
	}
	if _, ok := img.FindType("NoSuchType"); ok {
		t.Error("unknown type found")
	}
	if _, err := img.ValueOf("x", 0, "Opaque"); err == nil {
		t.Error("ValueOf undefined struct succeeded")
	}
	if _, err := img.ValueOf("x", 0, ""); err == nil {
		t.Error("ValueOf empty expression succeeded")
	}
}

func TestImage_Close(t *testing.T) {
	img, _ := newImage(t)
	var order []int
	errMid := stderrors.New("mid")
	img.OnClose(func(context.Context) error { order = append(order, 1); return nil })
	img.OnClose(func(context.Context) error { order = append(order, 2); return errMid })
	img.OnClose(func(context.Context) error { order = append(order, 3); return stderrors.New("last") })

	err := img.Close(context.Background())
	if len(order) != 3 || order[0] != 3 || order[2] != 1 {
		t.Errorf("close order = %v", order)
	}
	if err == nil || err.Error() != "last" {
		t.Errorf("Close = %v, want the error of the first closer run", err)
	}
	if err := img.Close(context.Background()); err != nil {
		t.Errorf("second Close = %v", err)
	}
}
