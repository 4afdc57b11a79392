package snapshot

// File is the YAML layout of a snapshot.
//
//	module: lo.wasm          # optional, data segments seed memory
//	memory:
//	  pages: 1
//	  segments:
//	    - at: 0x100
//	      u32: [1, 2]
//	    - at: 0x200
//	      ustring: "hello"   # a complete _rtl_uString record
//	types:
//	  structs:
//	    - name: Foo
//	      polymorphic: true
//	      fields: [{name: x, type: sal_Int32}]
//	  references: [Foo]      # com::sun::star::uno::Reference<Foo>
//	  vtables: [{at: 0x9000, type: Foo}]
//	roots:
//	  - {name: foo, type: "com::sun::star::uno::Reference<Foo>", at: 0x300}
type File struct {
	Module string     `yaml:"module,omitempty"`
	Memory MemorySpec `yaml:"memory"`
	Types  TypesSpec  `yaml:"types"`
	Roots  []RootSpec `yaml:"roots"`
}

type MemorySpec struct {
	Pages    uint32        `yaml:"pages"`
	Segments []SegmentSpec `yaml:"segments"`
}

// SegmentSpec is data written at At. Exactly one payload must be set.
type SegmentSpec struct {
	UTF16   *string   `yaml:"utf16,omitempty"`
	UTF8    *string   `yaml:"utf8,omitempty"`
	UString *string   `yaml:"ustring,omitempty"`
	String  *string   `yaml:"string,omitempty"`
	Hex     string    `yaml:"hex,omitempty"`
	U8      []int     `yaml:"u8,omitempty"`
	U16     []uint16  `yaml:"u16,omitempty"`
	U32     []uint32  `yaml:"u32,omitempty"`
	S32     []int32   `yaml:"s32,omitempty"`
	U64     []uint64  `yaml:"u64,omitempty"`
	F32     []float32 `yaml:"f32,omitempty"`
	F64     []float64 `yaml:"f64,omitempty"`
	At      uint32    `yaml:"at"`
}

type TypesSpec struct {
	Structs       []StructDef  `yaml:"structs"`
	Typedefs      []TypedefDef `yaml:"typedefs"`
	References    []string     `yaml:"references"`
	RtlReferences []string     `yaml:"rtl_references"`
	Sequences     []string     `yaml:"sequences"`
	VTables       []VTableDef  `yaml:"vtables"`
}

type StructDef struct {
	Name        string     `yaml:"name"`
	Bases       []string   `yaml:"bases"`
	Fields      []FieldDef `yaml:"fields"`
	Template    []string   `yaml:"template"`
	Polymorphic bool       `yaml:"polymorphic"`
}

type FieldDef struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

type TypedefDef struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

type VTableDef struct {
	Type string `yaml:"type"`
	At   uint32 `yaml:"at"`
}

type RootSpec struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
	At   uint32 `yaml:"at"`
}
