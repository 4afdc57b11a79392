// Package layout computes wasm32 memory layouts for host structures.
//
// Host structures are described as WIT records and tuples. On wasm32 the
// C layout of a struct coincides with the Canonical ABI layout of the
// equivalent record: fields are laid out sequentially with padding for
// alignment, pointers are 4-byte u32 values, and arrays are tuples.
//
// # Layout Rules
//
//   - Primitives: size equals alignment (u8=1, u32=4, u64=8, etc.)
//   - Records: fields laid out sequentially with padding for alignment
//   - Tuples: the same rule without field names (fixed-size arrays)
//
// # Usage
//
//	info := layout.NewCalculator().Calculate(typedef)
//	// info.Size, info.Align, info.FieldOffs available
package layout
