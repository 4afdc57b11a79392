// Package snapshot loads inspection images from YAML: a memory image built
// from typed segments or from the data segments of a wasm module, host type
// definitions layered on the UNO structures, and named root values.
package snapshot
