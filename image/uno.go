package image

import (
	"go.bytecodealliance.org/wit"
)

// Well-known host type names.
const (
	UNONamespace      = "com::sun::star::uno::"
	AnyType           = "com::sun::star::uno::Any"
	TypeType          = "com::sun::star::uno::Type"
	XInterfaceType    = "com::sun::star::uno::XInterface"
	ReferenceTemplate = "com::sun::star::uno::Reference"
	SequenceTemplate  = "com::sun::star::uno::Sequence"
	RtlReference      = "rtl::Reference"
	ThreadPoolType    = "cppu_threadpool::ThreadPool"
)

// RegisterUNO defines the sal, rtl, typelib, and uno structures of a wasm32
// LibreOffice build.
func RegisterUNO(t *Table) error {
	r := unoRegistrar{t: t}

	for _, s := range []struct {
		w    wit.Type
		name string
	}{
		{wit.U8{}, "sal_Bool"},
		{wit.S8{}, "sal_Int8"},
		{wit.U8{}, "sal_uInt8"},
		{wit.S16{}, "sal_Int16"},
		{wit.U16{}, "sal_uInt16"},
		{wit.S32{}, "sal_Int32"},
		{wit.U32{}, "sal_uInt32"},
		{wit.S64{}, "sal_Int64"},
		{wit.U64{}, "sal_uInt64"},
		{wit.U16{}, "sal_Unicode"},
		{wit.S32{}, "oslInterlockedCount"},
		{wit.U32{}, "typelib_TypeClass"},
	} {
		t.Scalar(s.name, s.w)
	}

	i32 := t.Named("sal_Int32")
	count := t.Named("oslInterlockedCount")
	boolean := t.Named("sal_Bool")
	void := t.Named("void")

	ustr := r.def(StructSpec{Name: "_rtl_uString", Fields: []FieldSpec{
		F("refCount", count),
		F("length", i32),
		F("buffer", t.Array(t.Named("sal_Unicode"), 1)),
	}})
	r.typedef("rtl_uString", ustr)
	str := r.def(StructSpec{Name: "_rtl_String", Fields: []FieldSpec{
		F("refCount", count),
		F("length", i32),
		F("buffer", t.Array(t.Named("char"), 1)),
	}})
	r.typedef("rtl_String", str)
	ustrp := t.Pointer(t.Named("rtl_uString"))
	strp := t.Pointer(t.Named("rtl_String"))
	r.def(StructSpec{Name: "rtl::OUString", Fields: []FieldSpec{F("pData", ustrp)}})
	r.def(StructSpec{Name: "rtl::OString", Fields: []FieldSpec{F("pData", strp)}})
	r.def(StructSpec{Name: "rtl::OUStringBuffer", Fields: []FieldSpec{F("pData", ustrp), F("nCapacity", i32)}})
	r.def(StructSpec{Name: "rtl::OStringBuffer", Fields: []FieldSpec{F("pData", strp), F("nCapacity", i32)}})

	ref := t.Named("_typelib_TypeDescriptionReference")
	desc := t.Named("_typelib_TypeDescription")
	refp := t.Pointer(ref)
	refpp := t.Pointer(refp)
	ustrpp := t.Pointer(ustrp)
	i32p := t.Pointer(i32)

	r.def(StructSpec{Name: ref.Name(), Fields: []FieldSpec{
		F("nRefCount", count),
		F("nStaticRefCount", i32),
		F("eTypeClass", t.Named("typelib_TypeClass")),
		F("pTypeName", ustrp),
		F("pType", t.Pointer(desc)),
		F("pUniqueIdentifier", t.Pointer(void)),
		F("pReserved", t.Pointer(void)),
	}})
	r.typedef("typelib_TypeDescriptionReference", ref)

	r.def(StructSpec{Name: desc.Name(), Fields: []FieldSpec{
		F("nRefCount", count),
		F("nStaticRefCount", i32),
		F("eTypeClass", t.Named("typelib_TypeClass")),
		F("pTypeName", ustrp),
		F("pSelf", t.Pointer(desc)),
		F("pUniqueIdentifier", t.Pointer(void)),
		F("pReserved", t.Pointer(void)),
		F("bComplete", boolean),
		F("nSize", i32),
		F("nAlignment", i32),
		F("pWeakRef", refp),
		F("bOnDemand", boolean),
	}})
	r.typedef("typelib_TypeDescription", desc)

	compound := t.Named("_typelib_CompoundTypeDescription")
	r.def(StructSpec{Name: compound.Name(), Fields: []FieldSpec{
		F("aBase", desc),
		F("pBaseTypeDescription", t.Pointer(compound)),
		F("nMembers", i32),
		F("pMemberOffsets", i32p),
		F("ppTypeRefs", refpp),
		F("ppMemberNames", ustrpp),
	}})
	r.def(StructSpec{Name: "_typelib_StructTypeDescription", Fields: []FieldSpec{
		F("aBase", compound),
		F("pParameterizedTypes", t.Pointer(boolean)),
	}})
	r.def(StructSpec{Name: "_typelib_IndirectTypeDescription", Fields: []FieldSpec{
		F("aBase", desc),
		F("pType", refp),
	}})
	r.def(StructSpec{Name: "_typelib_EnumTypeDescription", Fields: []FieldSpec{
		F("aBase", desc),
		F("nDefaultEnumValue", i32),
		F("nEnumValues", i32),
		F("ppEnumNames", ustrpp),
		F("pEnumValues", i32p),
	}})

	iface := t.Named("_typelib_InterfaceTypeDescription")
	member := r.def(StructSpec{Name: "_typelib_InterfaceMemberTypeDescription", Fields: []FieldSpec{
		F("aBase", desc),
		F("nPosition", i32),
		F("pMemberName", ustrp),
	}})
	r.def(StructSpec{Name: "_typelib_InterfaceMethodTypeDescription", Fields: []FieldSpec{
		F("aBase", member),
		F("pReturnTypeRef", refp),
		F("nParams", i32),
		F("pParams", t.Pointer(void)),
		F("nExceptions", i32),
		F("ppExceptions", refpp),
		F("bOneWay", boolean),
		F("pInterface", t.Pointer(iface)),
		F("pBaseRef", refp),
		F("nIndex", i32),
	}})
	r.def(StructSpec{Name: "_typelib_InterfaceAttributeTypeDescription", Fields: []FieldSpec{
		F("aBase", member),
		F("bReadOnly", boolean),
		F("pAttributeTypeRef", refp),
		F("pInterface", t.Pointer(iface)),
		F("pBaseRef", refp),
		F("nIndex", i32),
		F("bBound", boolean),
		F("nGetExceptions", i32),
		F("ppGetExceptions", refpp),
		F("nSetExceptions", i32),
		F("ppSetExceptions", refpp),
	}})
	r.def(StructSpec{Name: iface.Name(), Fields: []FieldSpec{
		F("aBase", desc),
		F("pBaseTypeDescription", t.Pointer(iface)),
		F("aUik", t.Array(t.Named("sal_uInt32"), 4)),
		F("nMembers", i32),
		F("ppMembers", refpp),
		F("nAllMembers", i32),
		F("ppAllMembers", refpp),
		F("nMapFunctionIndexToMemberIndex", i32),
		F("pMapFunctionIndexToMemberIndex", i32p),
		F("pMapMemberIndexToFunctionIndex", i32p),
		F("nBaseTypes", i32),
		F("ppBaseTypes", t.Pointer(t.Pointer(iface))),
	}})

	anyBase := r.def(StructSpec{Name: "_uno_Any", Fields: []FieldSpec{
		F("pType", refp),
		F("pData", t.Pointer(void)),
		F("pReserved", t.Pointer(void)),
	}})
	r.typedef("uno_Any", anyBase)
	r.def(StructSpec{Name: AnyType, Bases: []*Type{anyBase}})

	seq := r.def(StructSpec{Name: "_sal_Sequence", Fields: []FieldSpec{
		F("nRefCount", count),
		F("nElements", i32),
		F("elements", t.Array(t.Named("char"), 1)),
	}})
	r.typedef("sal_Sequence", seq)
	r.typedef("uno_Sequence", seq)

	r.def(StructSpec{Name: TypeType, Fields: []FieldSpec{F("_pType", refp)}})
	r.def(StructSpec{Name: XInterfaceType, Polymorphic: true})

	pool := t.Named(ThreadPoolType)
	poolRef := r.rtlReference(pool)
	admin := r.def(StructSpec{Name: "cppu_threadpool::ThreadAdmin", Fields: []FieldSpec{
		F("m_xPool", poolRef),
		F("m_bDisposed", boolean),
	}})
	r.def(StructSpec{Name: ThreadPoolType, Polymorphic: true, Fields: []FieldSpec{
		F("m_nRefCount", count),
		F("m_aThreadAdmin", admin),
	}})

	return r.err
}

type unoRegistrar struct {
	t   *Table
	err error
}

func (r *unoRegistrar) def(spec StructSpec) *Type {
	typ, err := r.t.Define(spec)
	if err != nil {
		if r.err == nil {
			r.err = err
		}
		return r.t.Named(spec.Name)
	}
	return typ
}

func (r *unoRegistrar) typedef(name string, target *Type) {
	if _, err := r.t.Typedef(name, target); err != nil && r.err == nil {
		r.err = err
	}
}

func (r *unoRegistrar) rtlReference(body *Type) *Type {
	typ, err := RtlReferenceOf(r.t, body)
	if err != nil && r.err == nil {
		r.err = err
	}
	return typ
}

// TemplateName formats a single-argument template instantiation name.
func TemplateName(template, arg string) string {
	return template + "<" + arg + ">"
}

func instantiate(t *Table, template string, arg *Type, field string) (*Type, error) {
	name := TemplateName(template, arg.Name())
	if typ, ok := t.Lookup(name); ok && typ.Defined() {
		return typ, nil
	}
	return t.Define(StructSpec{
		Name:     name,
		Fields:   []FieldSpec{F(field, t.Pointer(arg))},
		Template: []*Type{arg},
	})
}

// ReferenceOf instantiates com::sun::star::uno::Reference<iface>.
func ReferenceOf(t *Table, iface *Type) (*Type, error) {
	return instantiate(t, ReferenceTemplate, iface, "_pInterface")
}

// RtlReferenceOf instantiates rtl::Reference<body>.
func RtlReferenceOf(t *Table, body *Type) (*Type, error) {
	return instantiate(t, RtlReference, body, "m_pBody")
}

// SequenceOf instantiates com::sun::star::uno::Sequence<elem>.
func SequenceOf(t *Table, elem *Type) (*Type, error) {
	name := TemplateName(SequenceTemplate, elem.Name())
	if typ, ok := t.Lookup(name); ok && typ.Defined() {
		return typ, nil
	}
	return t.Define(StructSpec{
		Name:     name,
		Fields:   []FieldSpec{F("_pSequence", t.Pointer(t.Named("uno_Sequence")))},
		Template: []*Type{elem},
	})
}
