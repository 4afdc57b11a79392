package summary

import "strings"

// Host type names the renderers are bound to.
const (
	UNOPrefix         = "com::sun::star::uno::"
	AnyType           = "com::sun::star::uno::Any"
	RawAnyType        = "_uno_Any"
	TypeType          = "com::sun::star::uno::Type"
	ReferenceTemplate = "com::sun::star::uno::Reference"
	SequenceTemplate  = "com::sun::star::uno::Sequence"
	RtlReference      = "rtl::Reference"
	ThreadPoolType    = "cppu_threadpool::ThreadPool"
	XInterfaceLabel   = "XInterface"
)

// ValueKind is the closed set of value kinds with a dedicated rendering.
type ValueKind uint8

const (
	Unclassified ValueKind = iota
	AnyValue
	ReferenceValue
	RtlReferenceValue
	SequenceValue
	TypeValue
	ThreadPoolValue
	StringRecord
	UStringRecord
	StringHandle
	UStringHandle
)

var valueKindNames = [...]string{
	Unclassified:      "unclassified",
	AnyValue:          "any",
	ReferenceValue:    "reference",
	RtlReferenceValue: "rtl reference",
	SequenceValue:     "sequence",
	TypeValue:         "type",
	ThreadPoolValue:   "thread pool",
	StringRecord:      "rtl_String",
	UStringRecord:     "rtl_uString",
	StringHandle:      "OString",
	UStringHandle:     "OUString",
}

func (k ValueKind) String() string {
	if int(k) < len(valueKindNames) {
		return valueKindNames[k]
	}
	return "unknown"
}

var exactKinds = map[string]ValueKind{
	AnyType:               AnyValue,
	RawAnyType:            AnyValue,
	TypeType:              TypeValue,
	ThreadPoolType:        ThreadPoolValue,
	"_rtl_String":         StringRecord,
	"_rtl_uString":        UStringRecord,
	"rtl::OString":        StringHandle,
	"rtl::OStringBuffer":  StringHandle,
	"rtl::OUString":       UStringHandle,
	"rtl::OUStringBuffer": UStringHandle,
}

// Classify maps a host type name to its value kind. Template handles match
// "<template><...>" with a non-empty argument list.
func Classify(typeName string) ValueKind {
	if k, ok := exactKinds[typeName]; ok {
		return k
	}
	switch {
	case IsInstance(typeName, ReferenceTemplate):
		return ReferenceValue
	case IsInstance(typeName, SequenceTemplate):
		return SequenceValue
	case IsInstance(typeName, RtlReference):
		return RtlReferenceValue
	}
	return Unclassified
}

// IsInstance reports whether typeName instantiates template.
func IsInstance(typeName, template string) bool {
	return len(typeName) > len(template)+2 &&
		strings.HasPrefix(typeName, template) &&
		typeName[len(template)] == '<' &&
		strings.HasSuffix(typeName, ">")
}

// StripPrefix removes every occurrence of prefix from name.
func StripPrefix(name, prefix string) string {
	if prefix == "" {
		return name
	}
	return strings.ReplaceAll(name, prefix, "")
}
