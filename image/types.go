package image

import (
	"strings"

	"go.bytecodealliance.org/wit"

	unoinspect "github.com/wippyai/uno-inspect"
)

// PointerSize is the size of a pointer in a wasm32 image.
const PointerSize = 4

// TypeKind classifies host types.
type TypeKind uint8

const (
	KindVoid TypeKind = iota
	KindScalar
	KindPointer
	KindStruct
	KindArray
	KindTypedef
)

var typeKindNames = [...]string{
	KindVoid:    "void",
	KindScalar:  "scalar",
	KindPointer: "pointer",
	KindStruct:  "struct",
	KindArray:   "array",
	KindTypedef: "typedef",
}

func (k TypeKind) String() string {
	if int(k) < len(typeKindNames) {
		return typeKindNames[k]
	}
	return "unknown"
}

// Field is a laid-out struct member.
type Field struct {
	Type   *Type
	Name   string
	Offset uint32
}

// Type is a host type of the inspected image. Struct types may be declared
// before they are defined; layout is computed on first use.
type Type struct {
	table    *Table
	elem     *Type // pointee, array element, or typedef target
	scalar   wit.Type
	witDef   *wit.TypeDef
	bases    []*Type
	baseOffs []uint32
	fields   []Field
	template []*Type
	name     string
	length   uint32
	size     uint32
	align    uint32
	kind     TypeKind
	poly     bool
	defined  bool
	laidOut  bool
	inLayout bool
}

var _ unoinspect.Type = (*Type)(nil)

func (t *Type) Name() string   { return t.name }
func (t *Type) Kind() TypeKind { return t.kind }

// Elem returns the pointee, element, or typedef target.
func (t *Type) Elem() *Type { return t.elem }

// Len returns the element count of an array type.
func (t *Type) Len() uint32 { return t.length }

// Scalar returns the WIT primitive describing a scalar's representation.
func (t *Type) Scalar() wit.Type { return t.scalar }

// Defined reports whether a struct type has a definition.
func (t *Type) Defined() bool { return t.kind != KindStruct || t.defined }

func (t *Type) Size() uint64 {
	if err := t.table.layout(t); err != nil {
		return 0
	}
	return uint64(t.size)
}

func (t *Type) Align() uint32 {
	if err := t.table.layout(t); err != nil {
		return 1
	}
	return t.align
}

func (t *Type) PointerType() unoinspect.Type {
	return t.table.Pointer(t)
}

// Canonical resolves typedef chains.
func (t *Type) Canonical() *Type {
	c := t
	for i := 0; c.kind == KindTypedef && c.elem != nil && i < maxTypedefChain; i++ {
		c = c.elem
	}
	return c
}

// Fields returns the struct's own fields, excluding base classes.
func (t *Type) Fields() []Field {
	_ = t.table.layout(t)
	return t.fields
}

// Bases returns the struct's base classes in declaration order.
func (t *Type) Bases() []*Type { return t.bases }

// TemplateArgs returns the template arguments of an instantiated template.
func (t *Type) TemplateArgs() []*Type { return t.template }

// Polymorphic reports whether instances start with a vtable pointer.
func (t *Type) Polymorphic() bool {
	c := t.Canonical()
	if c.poly {
		return true
	}
	return len(c.bases) > 0 && c.bases[0].Polymorphic()
}

func (t *Type) ownsVPtr() bool {
	return t.poly && !(len(t.bases) > 0 && t.bases[0].Polymorphic())
}

// FieldByName finds a field in the struct or any of its bases and returns
// its offset from the start of t.
func (t *Type) FieldByName(name string) (Field, bool) {
	c := t.Canonical()
	if c.kind != KindStruct {
		return Field{}, false
	}
	if err := c.table.layout(c); err != nil {
		return Field{}, false
	}
	for _, f := range c.fields {
		if f.Name == name {
			return f, true
		}
	}
	for i, b := range c.bases {
		if f, ok := b.FieldByName(name); ok {
			f.Offset += c.baseOffs[i]
			return f, true
		}
	}
	return Field{}, false
}

func baseFieldName(b *Type) string {
	return "base:" + b.name
}

func (t *Type) String() string {
	return t.name
}

const maxTypedefChain = 32

func pointerName(elem string) string {
	if strings.HasSuffix(elem, "*") {
		return elem + "*"
	}
	return elem + " *"
}
