package typelib

// Record shapes of the typelib C API, by canonical host type name.
const (
	WrapperShape   = "com::sun::star::uno::Type"
	ReferenceShape = "_typelib_TypeDescriptionReference"
	HeaderShape    = "_typelib_TypeDescription"
	IndirectShape  = "_typelib_IndirectTypeDescription"
)

var descriptorShapes = map[string]bool{
	HeaderShape:                                  true,
	"_typelib_CompoundTypeDescription":           true,
	"_typelib_StructTypeDescription":             true,
	IndirectShape:                                true,
	"_typelib_EnumTypeDescription":               true,
	"_typelib_InterfaceTypeDescription":          true,
	"_typelib_InterfaceMemberTypeDescription":    true,
	"_typelib_InterfaceMethodTypeDescription":    true,
	"_typelib_InterfaceAttributeTypeDescription": true,
}

// IsDescriptorShape reports whether name is a concrete descriptor record.
func IsDescriptorShape(name string) bool {
	return descriptorShapes[name]
}
