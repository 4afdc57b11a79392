package image

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.bytecodealliance.org/wit"

	unoinspect "github.com/wippyai/uno-inspect"
	"github.com/wippyai/uno-inspect/errors"
)

// maxArrayElements bounds the elements shown in an array's default rendering.
const maxArrayElements = 16

// Value describes a typed location in an image's memory.
type Value struct {
	img  *Image
	typ  *Type
	name string
	addr uint32
}

var _ unoinspect.Value = Value{}

// Name is the expression path the value was reached through.
func (v Value) Name() string { return v.name }

func (v Value) TypeName() string { return v.typ.Name() }

func (v Value) CanonicalTypeName() string { return v.typ.Canonical().Name() }

func (v Value) Address() uint64 { return uint64(v.addr) }

func (v Value) Type() unoinspect.Type { return v.typ }

func (v Value) Target() unoinspect.Target { return v.img }

func (v Value) child(name string) string {
	if v.name == "" {
		return name
	}
	return v.name + "." + name
}

func (v Value) Field(name string) (unoinspect.Value, error) {
	f, ok := v.typ.FieldByName(name)
	if !ok {
		return nil, errors.FieldMissing(errors.PhaseRead, []string{v.name}, v.typ.Name(), name)
	}
	return Value{img: v.img, typ: f.Type, addr: v.addr + f.Offset, name: v.child(name)}, nil
}

func (v Value) pointer() (uint32, error) {
	c := v.typ.Canonical()
	if c.kind != KindPointer {
		return 0, errors.TypeMismatch(errors.PhaseRead, []string{v.name}, v.typ.Name(), "not a pointer")
	}
	p, err := v.img.mem.ReadU32(v.addr)
	if err != nil {
		return 0, errors.ReadFailure([]string{v.name}, uint64(v.addr), err)
	}
	return p, nil
}

func (v Value) Deref() (unoinspect.Value, error) {
	return v.deref()
}

func (v Value) deref() (Value, error) {
	p, err := v.pointer()
	if err != nil {
		return Value{}, err
	}
	if p == 0 {
		return Value{}, errors.NilPointer(errors.PhaseRead, []string{v.name}, v.typ.Name())
	}
	elem := v.typ.Canonical().elem
	if elem.Canonical().kind == KindVoid {
		return Value{}, errors.TypeMismatch(errors.PhaseRead, []string{v.name}, v.typ.Name(), "dereferencing void pointer")
	}
	if sizer, ok := v.img.mem.(unoinspect.MemorySizer); ok && p >= sizer.Size() {
		return Value{}, errors.OutOfBounds(errors.PhaseRead, uint64(p), elem.Size())
	}
	return Value{img: v.img, typ: elem, addr: p, name: "*" + v.name}, nil
}

func (v Value) Cast(t unoinspect.Type) (unoinspect.Value, error) {
	typ, ok := t.(*Type)
	if !ok || typ.table != v.img.types {
		return nil, errors.TypeMismatch(errors.PhaseRead, []string{v.name}, v.typ.Name(), "cast to a type of another image")
	}
	return Value{img: v.img, typ: typ, addr: v.addr, name: v.name}, nil
}

// DynamicValue dereferences pointers and views the result through the type
// registered for its vtable pointer.
func (v Value) DynamicValue() (unoinspect.Value, error) {
	target := v
	if v.typ.Canonical().kind == KindPointer {
		var err error
		if target, err = v.deref(); err != nil {
			return nil, err
		}
	}
	if !target.typ.Polymorphic() {
		return target, nil
	}
	vptr, err := v.img.mem.ReadU32(target.addr)
	if err != nil {
		return nil, errors.ReadFailure([]string{target.name, "_vptr"}, uint64(target.addr), err)
	}
	dyn, ok := v.img.types.DynamicType(vptr)
	if !ok {
		return nil, errors.New(errors.PhaseRead, errors.KindNotFound).
			Path(target.name).
			HostType(target.typ.Name()).
			Address(uint64(vptr)).
			Detail("no type for vtable").
			Build()
	}
	target.typ = dyn
	return target, nil
}

func (v Value) Uint() (uint64, error) {
	c := v.typ.Canonical()
	switch c.kind {
	case KindPointer:
		p, err := v.pointer()
		return uint64(p), err
	case KindScalar:
	default:
		return 0, errors.TypeMismatch(errors.PhaseRead, []string{v.name}, v.typ.Name(), "not an integer")
	}
	bits, err := v.readBits(uint32(c.Size()))
	if err != nil {
		return 0, err
	}
	switch c.scalar.(type) {
	case wit.S8:
		return uint64(int64(int8(bits))), nil
	case wit.S16:
		return uint64(int64(int16(bits))), nil
	case wit.S32:
		return uint64(int64(int32(bits))), nil
	case wit.F32, wit.F64:
		return 0, errors.TypeMismatch(errors.PhaseRead, []string{v.name}, v.typ.Name(), "floating point value")
	default:
		return bits, nil
	}
}

func (v Value) readBits(size uint32) (uint64, error) {
	var (
		bits uint64
		err  error
	)
	switch size {
	case 1:
		var b uint8
		b, err = v.img.mem.ReadU8(v.addr)
		bits = uint64(b)
	case 2:
		var h uint16
		h, err = v.img.mem.ReadU16(v.addr)
		bits = uint64(h)
	case 4:
		var w uint32
		w, err = v.img.mem.ReadU32(v.addr)
		bits = uint64(w)
	case 8:
		bits, err = v.img.mem.ReadU64(v.addr)
	default:
		return 0, errors.TypeMismatch(errors.PhaseRead, []string{v.name}, v.typ.Name(), fmt.Sprintf("scalar of %d bytes", size))
	}
	if err != nil {
		return 0, errors.ReadFailure([]string{v.name}, uint64(v.addr), err)
	}
	return bits, nil
}

func (v Value) Bytes(n uint32) ([]byte, error) {
	b, err := v.img.mem.Read(v.addr, n)
	if err != nil {
		return nil, errors.ReadFailure([]string{v.name}, uint64(v.addr), err)
	}
	return b, nil
}

func (v Value) TemplateArg(i int) (unoinspect.Type, error) {
	args := v.typ.Canonical().template
	if i < 0 || i >= len(args) {
		return nil, errors.NotFound(errors.PhaseRead, "template argument of "+v.typ.Name(), strconv.Itoa(i))
	}
	return args[i], nil
}

func (v Value) ChildAtOffset(name string, offset uint64, t unoinspect.Type) (unoinspect.Value, error) {
	typ, ok := t.(*Type)
	if !ok || typ.table != v.img.types {
		return nil, errors.TypeMismatch(errors.PhaseRead, []string{v.name}, v.typ.Name(), "child of a type of another image")
	}
	addr := uint64(v.addr) + offset
	if addr > math.MaxUint32 {
		return nil, errors.OutOfBounds(errors.PhaseRead, addr, typ.Size())
	}
	return Value{img: v.img, typ: typ, addr: uint32(addr), name: v.name + name}, nil
}

// Summary renders the value, preferring the installed formatter.
func (v Value) Summary() string {
	img := v.img
	if img.nesting >= img.maxDepth {
		return "{...}"
	}
	img.nesting++
	defer func() { img.nesting-- }()

	if img.formatter != nil {
		if s, ok := img.formatter.Summarize(v); ok {
			return s
		}
	}
	return v.DefaultSummary()
}

// DefaultSummary renders the value from its layout alone.
func (v Value) DefaultSummary() string {
	c := v.typ.Canonical()
	switch c.kind {
	case KindVoid:
		return "void"
	case KindScalar:
		return v.scalarSummary(c)
	case KindPointer:
		p, err := v.pointer()
		if err != nil {
			return invalid(v.addr)
		}
		return fmt.Sprintf("0x%08x", p)
	case KindStruct:
		var parts []string
		v.appendFields(c, v.addr, &parts)
		return "{" + strings.Join(parts, ", ") + "}"
	case KindArray:
		return v.arraySummary(c)
	default:
		return invalid(v.addr)
	}
}

func (v Value) appendFields(c *Type, base uint32, parts *[]string) {
	if err := c.table.layout(c); err != nil {
		*parts = append(*parts, invalid(base))
		return
	}
	for i, b := range c.bases {
		v.appendFields(b.Canonical(), base+c.baseOffs[i], parts)
	}
	for _, f := range c.fields {
		fv := Value{img: v.img, typ: f.Type, addr: base + f.Offset, name: v.child(f.Name)}
		*parts = append(*parts, f.Name+" = "+fv.Summary())
	}
}

func (v Value) arraySummary(c *Type) string {
	n := c.length
	more := n > maxArrayElements
	if more {
		n = maxArrayElements
	}
	size := uint32(c.elem.Size())
	parts := make([]string, 0, n+1)
	for i := uint32(0); i < n; i++ {
		ev := Value{img: v.img, typ: c.elem, addr: v.addr + i*size, name: fmt.Sprintf("%s[%d]", v.name, i)}
		parts = append(parts, ev.Summary())
	}
	if more {
		parts = append(parts, "...")
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func (v Value) scalarSummary(c *Type) string {
	bits, err := v.readBits(uint32(c.Size()))
	if err != nil {
		return invalid(v.addr)
	}
	switch c.scalar.(type) {
	case wit.Bool:
		return strconv.FormatBool(bits != 0)
	case wit.F32:
		return strconv.FormatFloat(float64(math.Float32frombits(uint32(bits))), 'g', -1, 32)
	case wit.F64:
		return strconv.FormatFloat(math.Float64frombits(bits), 'g', -1, 64)
	case wit.S8:
		return strconv.FormatInt(int64(int8(bits)), 10)
	case wit.S16:
		return strconv.FormatInt(int64(int16(bits)), 10)
	case wit.S32:
		return strconv.FormatInt(int64(int32(bits)), 10)
	case wit.S64:
		return strconv.FormatInt(int64(bits), 10)
	case wit.U8:
		if c.name == "char" {
			return strconv.QuoteRuneToASCII(rune(bits))
		}
		return strconv.FormatUint(bits, 10)
	default:
		return strconv.FormatUint(bits, 10)
	}
}

func invalid(addr uint32) string {
	return fmt.Sprintf("<invalid address 0x%08x>", addr)
}

func (v Value) String() string {
	return fmt.Sprintf("(%s) %s @0x%08x", v.typ.Name(), v.name, v.addr)
}
