package typelib

// Kind is the type class tag stored in a descriptor header.
type Kind uint32

const (
	KindVoid               Kind = 0
	KindChar               Kind = 1
	KindBoolean            Kind = 2
	KindByte               Kind = 3
	KindShort              Kind = 4
	KindUnsignedShort      Kind = 5
	KindLong               Kind = 6
	KindUnsignedLong       Kind = 7
	KindHyper              Kind = 8
	KindUnsignedHyper      Kind = 9
	KindFloat              Kind = 10
	KindDouble             Kind = 11
	KindString             Kind = 12
	KindType               Kind = 13
	KindAny                Kind = 14
	KindEnum               Kind = 15
	KindTypedef            Kind = 16
	KindStruct             Kind = 17
	KindException          Kind = 19
	KindSequence           Kind = 20
	KindInterface          Kind = 22
	KindService            Kind = 23
	KindModule             Kind = 24
	KindInterfaceMethod    Kind = 25
	KindInterfaceAttribute Kind = 26
	KindUnknown            Kind = 27
	KindProperty           Kind = 28
	KindConstant           Kind = 29
	KindConstants          Kind = 30
	KindSingleton          Kind = 31
)

var kindNames = map[Kind]string{
	KindVoid:               "void",
	KindChar:               "char",
	KindBoolean:            "boolean",
	KindByte:               "byte",
	KindShort:              "short",
	KindUnsignedShort:      "unsigned short",
	KindLong:               "long",
	KindUnsignedLong:       "unsigned long",
	KindHyper:              "hyper",
	KindUnsignedHyper:      "unsigned hyper",
	KindFloat:              "float",
	KindDouble:             "double",
	KindString:             "string",
	KindType:               "type",
	KindAny:                "any",
	KindEnum:               "enum",
	KindTypedef:            "typedef",
	KindStruct:             "struct",
	KindException:          "exception",
	KindSequence:           "sequence",
	KindInterface:          "interface",
	KindService:            "service",
	KindModule:             "module",
	KindInterfaceMethod:    "interface method",
	KindInterfaceAttribute: "interface attribute",
	KindUnknown:            "unknown",
	KindProperty:           "property",
	KindConstant:           "constant",
	KindConstants:          "constants",
	KindSingleton:          "singleton",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Category groups kinds by how their host name is derived.
type Category uint8

const (
	CategoryUnsupported Category = iota
	CategoryPrimitive
	CategoryObject
	CategoryMember
	CategorySequence
)

// Category reports how the resolver treats k.
func (k Kind) Category() Category {
	if _, ok := primitiveHostNames[k]; ok {
		return CategoryPrimitive
	}
	switch k {
	case KindEnum, KindStruct, KindException, KindInterface:
		return CategoryObject
	case KindInterfaceMethod, KindInterfaceAttribute:
		return CategoryMember
	case KindSequence:
		return CategorySequence
	default:
		return CategoryUnsupported
	}
}

// primitiveHostNames maps primitive kinds to the C++ types the UNO C++
// binding represents them with.
var primitiveHostNames = map[Kind]string{
	KindVoid:          "void",
	KindChar:          "char",
	KindBoolean:       "sal_Bool",
	KindByte:          "sal_Int8",
	KindShort:         "sal_Int16",
	KindUnsignedShort: "sal_uInt16",
	KindLong:          "sal_Int32",
	KindUnsignedLong:  "sal_uInt32",
	KindHyper:         "sal_Int64",
	KindUnsignedHyper: "sal_uInt64",
	KindFloat:         "float",
	KindDouble:        "double",
	KindString:        "rtl::OUString",
	KindType:          "com::sun::star::uno::Type",
	KindAny:           "com::sun::star::uno::Any",
}

// PrimitiveHostName returns the host type of a primitive kind.
func PrimitiveHostName(k Kind) (string, bool) {
	name, ok := primitiveHostNames[k]
	return name, ok
}
