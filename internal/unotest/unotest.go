// Package unotest builds UNO runtime records in an in-memory image for
// tests.
package unotest

import (
	"math"
	"testing"
	"unicode/utf16"

	"github.com/wippyai/uno-inspect/image"
)

// MemorySize is the size of a fixture's memory.
const MemorySize = 1 << 16

// Type classes used by fixtures.
const (
	Void      uint32 = 0
	Long      uint32 = 6
	Double    uint32 = 11
	String    uint32 = 12
	Struct    uint32 = 17
	Sequence  uint32 = 20
	Interface uint32 = 22
	Method    uint32 = 25
)

// Fixture is an image with a bump allocator over its memory.
type Fixture struct {
	tb    testing.TB
	Mem   *image.Bytes
	Types *image.Table
	Img   *image.Image
	next  uint32
}

// New creates a fixture whose table has the UNO structures registered.
func New(tb testing.TB, opts ...image.Option) *Fixture {
	tb.Helper()
	types := image.NewTable()
	if err := image.RegisterUNO(types); err != nil {
		tb.Fatalf("register uno types: %v", err)
	}
	mem := image.NewBytes(MemorySize)
	return &Fixture{
		tb:    tb,
		Mem:   mem,
		Types: types,
		Img:   image.New(mem, types, opts...),
		next:  16,
	}
}

// Type returns the named host type.
func (f *Fixture) Type(expr string) *image.Type {
	f.tb.Helper()
	typ, err := f.Types.Parse(expr)
	if err != nil {
		f.tb.Fatalf("parse %q: %v", expr, err)
	}
	return typ
}

// Define defines a struct type.
func (f *Fixture) Define(spec image.StructSpec) *image.Type {
	f.tb.Helper()
	typ, err := f.Types.Define(spec)
	if err != nil {
		f.tb.Fatalf("define %s: %v", spec.Name, err)
	}
	return typ
}

// Alloc reserves size bytes aligned to align.
func (f *Fixture) Alloc(size, align uint32) uint32 {
	f.tb.Helper()
	if align == 0 {
		align = 1
	}
	addr := (f.next + align - 1) &^ (align - 1)
	if uint64(addr)+uint64(size) > MemorySize {
		f.tb.Fatalf("fixture memory exhausted")
	}
	f.next = addr + size
	return addr
}

// New allocates zeroed storage for an instance of the named type.
func (f *Fixture) New(expr string) uint32 {
	f.tb.Helper()
	typ := f.Type(expr)
	return f.Alloc(uint32(typ.Size()), typ.Align())
}

// Value views addr as the named type.
func (f *Fixture) Value(addr uint32, expr string) image.Value {
	f.tb.Helper()
	v, err := f.Img.ValueOf("", addr, expr)
	if err != nil {
		f.tb.Fatalf("value of %s: %v", expr, err)
	}
	return v
}

// Offset returns the offset of field within the named struct.
func (f *Fixture) Offset(expr, field string) uint32 {
	f.tb.Helper()
	fld, ok := f.Type(expr).FieldByName(field)
	if !ok {
		f.tb.Fatalf("%s has no field %s", expr, field)
	}
	return fld.Offset
}

// Put32 stores a 32-bit field of the struct at addr.
func (f *Fixture) Put32(addr uint32, expr, field string, v uint32) {
	f.tb.Helper()
	f.check(f.Mem.WriteU32(addr+f.Offset(expr, field), v))
}

func (f *Fixture) U32(addr, v uint32) {
	f.tb.Helper()
	f.check(f.Mem.WriteU32(addr, v))
}

func (f *Fixture) F64(addr uint32, v float64) {
	f.tb.Helper()
	f.check(f.Mem.WriteU64(addr, math.Float64bits(v)))
}

// UString writes an _rtl_uString holding s.
func (f *Fixture) UString(s string) uint32 {
	f.tb.Helper()
	units := utf16.Encode([]rune(s))
	hdr := f.Offset("_rtl_uString", "buffer")
	addr := f.Alloc(hdr+2*uint32(len(units))+2, 4)
	f.Put32(addr, "_rtl_uString", "refCount", 1)
	f.Put32(addr, "_rtl_uString", "length", uint32(len(units)))
	for i, u := range units {
		f.check(f.Mem.WriteU16(addr+hdr+2*uint32(i), u))
	}
	return addr
}

// String8 writes an _rtl_String holding s.
func (f *Fixture) String8(s string) uint32 {
	f.tb.Helper()
	hdr := f.Offset("_rtl_String", "buffer")
	addr := f.Alloc(hdr+uint32(len(s))+1, 4)
	f.Put32(addr, "_rtl_String", "refCount", 1)
	f.Put32(addr, "_rtl_String", "length", uint32(len(s)))
	f.check(f.Mem.Write(addr+hdr, []byte(s)))
	return addr
}

func (f *Fixture) header(addr uint32, expr string, class uint32, name string) {
	f.Put32(addr, expr, "eTypeClass", class)
	f.Put32(addr, expr, "pTypeName", f.UString(name))
	f.Put32(addr, expr, "nRefCount", 1)
}

// Descriptor writes a plain _typelib_TypeDescription.
func (f *Fixture) Descriptor(class uint32, name string) uint32 {
	f.tb.Helper()
	addr := f.New("_typelib_TypeDescription")
	f.header(addr, "_typelib_TypeDescription", class, name)
	f.Put32(addr, "_typelib_TypeDescription", "pSelf", addr)
	return addr
}

// Shaped writes a descriptor of the given record shape. Every shape starts
// with its aBase chain, so the header sits at offset 0.
func (f *Fixture) Shaped(shape string, class uint32, name string) uint32 {
	f.tb.Helper()
	addr := f.New(shape)
	f.header(addr, "_typelib_TypeDescription", class, name)
	return addr
}

// Ref writes a _typelib_TypeDescriptionReference pointing at desc.
func (f *Fixture) Ref(class uint32, name string, desc uint32) uint32 {
	f.tb.Helper()
	addr := f.New("_typelib_TypeDescriptionReference")
	f.header(addr, "_typelib_TypeDescriptionReference", class, name)
	f.Put32(addr, "_typelib_TypeDescriptionReference", "pType", desc)
	return addr
}

// SequenceDescriptor writes a sequence descriptor whose element type is
// the reference elemRef.
func (f *Fixture) SequenceDescriptor(name string, elemRef uint32) uint32 {
	f.tb.Helper()
	addr := f.Shaped("_typelib_IndirectTypeDescription", Sequence, name)
	f.Put32(addr, "_typelib_IndirectTypeDescription", "pType", elemRef)
	return addr
}

// TypeValue writes a com::sun::star::uno::Type wrapping ref.
func (f *Fixture) TypeValue(ref uint32) uint32 {
	f.tb.Helper()
	addr := f.New(image.TypeType)
	f.Put32(addr, image.TypeType, "_pType", ref)
	return addr
}

// Any writes a com::sun::star::uno::Any.
func (f *Fixture) Any(ref, data uint32) uint32 {
	f.tb.Helper()
	addr := f.New(image.AnyType)
	f.Put32(addr, image.AnyType, "pType", ref)
	f.Put32(addr, image.AnyType, "pData", data)
	return addr
}

// SalSequence writes a _sal_Sequence of count elements of elemSize bytes
// and returns its address and the address of its first element.
func (f *Fixture) SalSequence(count int32, elemSize uint32) (addr, elems uint32) {
	f.tb.Helper()
	hdr := f.Offset("_sal_Sequence", "elements")
	n := uint32(0)
	if count > 0 {
		n = uint32(count)
	}
	addr = f.Alloc(hdr+n*elemSize, 8)
	f.Put32(addr, "_sal_Sequence", "nRefCount", 1)
	f.Put32(addr, "_sal_Sequence", "nElements", uint32(count))
	return addr, addr + hdr
}

// Handle writes a single-pointer handle struct (Reference, Sequence,
// rtl::Reference) of the named type whose pointer is p.
func (f *Fixture) Handle(expr string, p uint32) uint32 {
	f.tb.Helper()
	addr := f.New(expr)
	f.U32(addr, p)
	return addr
}

func (f *Fixture) check(err error) {
	f.tb.Helper()
	if err != nil {
		f.tb.Fatalf("fixture write: %v", err)
	}
}
