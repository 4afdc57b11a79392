package unoinspect

// Memory represents the inspected process's linear memory.
type Memory interface {
	Read(offset uint32, length uint32) ([]byte, error)
	Write(offset uint32, data []byte) error
	ReadU8(offset uint32) (uint8, error)
	ReadU16(offset uint32) (uint16, error)
	ReadU32(offset uint32) (uint32, error)
	ReadU64(offset uint32) (uint64, error)
	WriteU8(offset uint32, value uint8) error
	WriteU16(offset uint32, value uint16) error
	WriteU32(offset uint32, value uint32) error
	WriteU64(offset uint32, value uint64) error
}

// MemorySizer provides the current size of memory in bytes.
type MemorySizer interface {
	Size() uint32
}

// Type is a host-side type known to the inspected image.
type Type interface {
	Name() string
	Size() uint64
	PointerType() Type
}

// Target looks up host types by name.
type Target interface {
	FindType(name string) (Type, bool)
}

// Value is a non-owning view into a location in the inspected process's
// memory. A Value is only valid for the inspection step that produced it.
type Value interface {
	// TypeName is the statically declared type name.
	TypeName() string
	// CanonicalTypeName is the type name with typedefs resolved.
	CanonicalTypeName() string
	// Address is the load address of the value and serves as its identity.
	Address() uint64

	Field(name string) (Value, error)
	Deref() (Value, error)
	Cast(t Type) (Value, error)
	// DynamicValue views the pointee of a pointer (or the value itself)
	// through its most-derived runtime type.
	DynamicValue() (Value, error)
	// Uint reads the value as an unsigned integer; pointers yield their address.
	Uint() (uint64, error)
	Bytes(n uint32) ([]byte, error)
	Type() Type
	TemplateArg(i int) (Type, error)
	ChildAtOffset(name string, offset uint64, t Type) (Value, error)

	// Summary is the host's default rendering of the value.
	Summary() string
	Target() Target
}
