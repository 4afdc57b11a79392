package image

import (
	"fmt"
	"strconv"
	"strings"

	"go.bytecodealliance.org/wit"

	"github.com/wippyai/uno-inspect/errors"
	"github.com/wippyai/uno-inspect/internal/layout"
)

// FieldSpec declares a struct member.
type FieldSpec struct {
	Type *Type
	Name string
}

// F is shorthand for a FieldSpec.
func F(name string, t *Type) FieldSpec {
	return FieldSpec{Name: name, Type: t}
}

// StructSpec defines a struct type.
type StructSpec struct {
	Name        string
	Bases       []*Type
	Fields      []FieldSpec
	Template    []*Type
	Polymorphic bool
}

// Table is the set of host types known to an image, the analogue of the
// debug information of a native process.
type Table struct {
	types    map[string]*Type
	pointers map[*Type]*Type
	vtables  map[uint32]*Type
	calc     *layout.Calculator
}

// NewTable creates a table pre-populated with void and the C scalar types.
func NewTable() *Table {
	t := &Table{
		types:    make(map[string]*Type),
		pointers: make(map[*Type]*Type),
		vtables:  make(map[uint32]*Type),
		calc:     layout.NewCalculator(),
	}
	t.types["void"] = &Type{table: t, name: "void", kind: KindVoid, laidOut: true, align: 1}
	for _, s := range cScalars {
		t.Scalar(s.name, s.wit)
	}
	return t
}

var cScalars = []struct {
	wit  wit.Type
	name string
}{
	{wit.Bool{}, "bool"},
	{wit.U8{}, "char"},
	{wit.S8{}, "signed char"},
	{wit.U8{}, "unsigned char"},
	{wit.S16{}, "short"},
	{wit.U16{}, "unsigned short"},
	{wit.S32{}, "int"},
	{wit.U32{}, "unsigned int"},
	{wit.S32{}, "long"},
	{wit.U32{}, "unsigned long"},
	{wit.S64{}, "long long"},
	{wit.U64{}, "unsigned long long"},
	{wit.F32{}, "float"},
	{wit.F64{}, "double"},
	{wit.U16{}, "char16_t"},
}

// Lookup returns the type with the given name.
func (t *Table) Lookup(name string) (*Type, bool) {
	typ, ok := t.types[name]
	return typ, ok
}

// Scalar defines (or returns) a scalar type represented by a WIT primitive.
func (t *Table) Scalar(name string, w wit.Type) *Type {
	if typ, ok := t.types[name]; ok {
		return typ
	}
	typ := &Type{table: t, name: name, kind: KindScalar, scalar: w}
	t.types[name] = typ
	return typ
}

// Named returns the type with the given name, declaring an undefined struct
// if it does not exist yet.
func (t *Table) Named(name string) *Type {
	if typ, ok := t.types[name]; ok {
		return typ
	}
	typ := &Type{table: t, name: name, kind: KindStruct}
	t.types[name] = typ
	return typ
}

// Define gives a struct its definition. A forward declaration created by
// Named is completed in place so existing references see the definition.
func (t *Table) Define(spec StructSpec) (*Type, error) {
	typ := t.Named(spec.Name)
	if typ.kind != KindStruct {
		return nil, errors.InvalidInput(errors.PhaseLoad, fmt.Sprintf("%s is a %s, not a struct", spec.Name, typ.kind))
	}
	if typ.defined {
		return nil, errors.InvalidInput(errors.PhaseLoad, fmt.Sprintf("struct %s defined twice", spec.Name))
	}
	seen := make(map[string]bool, len(spec.Fields))
	for _, f := range spec.Fields {
		if f.Type == nil {
			return nil, errors.InvalidInput(errors.PhaseLoad, fmt.Sprintf("%s.%s has no type", spec.Name, f.Name))
		}
		if seen[f.Name] {
			return nil, errors.InvalidInput(errors.PhaseLoad, fmt.Sprintf("%s.%s declared twice", spec.Name, f.Name))
		}
		seen[f.Name] = true
		typ.fields = append(typ.fields, Field{Name: f.Name, Type: f.Type})
	}
	typ.bases = spec.Bases
	typ.template = spec.Template
	typ.poly = spec.Polymorphic
	typ.defined = true
	return typ, nil
}

// Typedef defines an alias for target.
func (t *Table) Typedef(name string, target *Type) (*Type, error) {
	if existing, ok := t.types[name]; ok {
		if existing.kind == KindTypedef && existing.elem == target {
			return existing, nil
		}
		return nil, errors.InvalidInput(errors.PhaseLoad, fmt.Sprintf("type %s already exists", name))
	}
	typ := &Type{table: t, name: name, kind: KindTypedef, elem: target}
	t.types[name] = typ
	return typ, nil
}

// Pointer returns the pointer type to elem.
func (t *Table) Pointer(elem *Type) *Type {
	if p, ok := t.pointers[elem]; ok {
		return p
	}
	p := &Type{table: t, name: pointerName(elem.name), kind: KindPointer, elem: elem}
	t.pointers[elem] = p
	t.types[p.name] = p
	return p
}

// Array returns the fixed-size array type of n elements.
func (t *Table) Array(elem *Type, n uint32) *Type {
	name := elem.name + "[" + strconv.FormatUint(uint64(n), 10) + "]"
	if typ, ok := t.types[name]; ok {
		return typ
	}
	typ := &Type{table: t, name: name, kind: KindArray, elem: elem, length: n}
	t.types[name] = typ
	return typ
}

// SetVTable records that objects whose vtable pointer equals addr have
// dynamic type typ.
func (t *Table) SetVTable(addr uint32, typ *Type) {
	t.vtables[addr] = typ
}

// DynamicType returns the type registered for a vtable address.
func (t *Table) DynamicType(vptr uint32) (*Type, bool) {
	typ, ok := t.vtables[vptr]
	return typ, ok
}

// Parse resolves a C type expression such as "rtl_uString *" or
// "sal_Unicode[1]". Unknown names become forward-declared structs.
func (t *Table) Parse(expr string) (*Type, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, errors.InvalidInput(errors.PhaseParse, "empty type expression")
	}
	if typ, ok := t.types[expr]; ok {
		return typ, nil
	}
	if strings.HasSuffix(expr, "*") {
		elem, err := t.Parse(strings.TrimSuffix(expr, "*"))
		if err != nil {
			return nil, err
		}
		return t.Pointer(elem), nil
	}
	if strings.HasSuffix(expr, "]") {
		open := strings.LastIndexByte(expr, '[')
		if open < 0 {
			return nil, errors.InvalidInput(errors.PhaseParse, fmt.Sprintf("bad array type %q", expr))
		}
		n, err := strconv.ParseUint(expr[open+1:len(expr)-1], 0, 32)
		if err != nil {
			return nil, errors.ParseFailed(fmt.Sprintf("array length in %q", expr), err)
		}
		elem, err := t.Parse(expr[:open])
		if err != nil {
			return nil, err
		}
		return t.Array(elem, uint32(n)), nil
	}
	return t.Named(expr), nil
}

// layout computes size, alignment, and field offsets of typ through its WIT
// representation.
func (t *Table) layout(typ *Type) error {
	if typ.laidOut {
		return nil
	}
	w, err := t.witOf(typ)
	if err != nil {
		return err
	}
	info := t.calc.Calculate(w)
	typ.size, typ.align = info.Size, info.Align
	if typ.kind == KindStruct {
		for i := range typ.fields {
			typ.fields[i].Offset = info.FieldOffs[typ.fields[i].Name]
		}
		typ.baseOffs = make([]uint32, len(typ.bases))
		for i, b := range typ.bases {
			typ.baseOffs[i] = info.FieldOffs[baseFieldName(b)]
		}
	}
	typ.laidOut = true
	return nil
}

func (t *Table) witOf(typ *Type) (wit.Type, error) {
	switch typ.kind {
	case KindScalar:
		return typ.scalar, nil
	case KindPointer:
		return wit.U32{}, nil
	case KindTypedef:
		if typ.elem == nil {
			return nil, errors.InvalidData(errors.PhaseLoad, []string{typ.name}, "typedef without target")
		}
		return t.witOf(typ.elem)
	case KindArray:
		elem, err := t.witOf(typ.elem)
		if err != nil {
			return nil, err
		}
		types := make([]wit.Type, typ.length)
		for i := range types {
			types[i] = elem
		}
		return &wit.TypeDef{Kind: &wit.Tuple{Types: types}}, nil
	case KindStruct:
		return t.witRecord(typ)
	default:
		return nil, errors.TypeMismatch(errors.PhaseLoad, nil, typ.name, "type has no storage")
	}
}

func (t *Table) witRecord(typ *Type) (*wit.TypeDef, error) {
	if typ.witDef != nil {
		return typ.witDef, nil
	}
	if !typ.defined {
		return nil, errors.NotFound(errors.PhaseLoad, "definition of struct", typ.name)
	}
	if typ.inLayout {
		return nil, errors.InvalidData(errors.PhaseLoad, []string{typ.name}, "struct contains itself")
	}
	typ.inLayout = true
	defer func() { typ.inLayout = false }()

	var fields []wit.Field
	if typ.ownsVPtr() {
		fields = append(fields, wit.Field{Name: "_vptr", Type: wit.U32{}})
	}
	for _, b := range typ.bases {
		w, err := t.witOf(b)
		if err != nil {
			return nil, err
		}
		fields = append(fields, wit.Field{Name: baseFieldName(b), Type: w})
	}
	for _, f := range typ.fields {
		w, err := t.witOf(f.Type)
		if err != nil {
			return nil, err
		}
		fields = append(fields, wit.Field{Name: f.Name, Type: w})
	}
	name := typ.name
	typ.witDef = &wit.TypeDef{Name: &name, Kind: &wit.Record{Fields: fields}}
	return typ.witDef, nil
}
