// Package unoinspect provides runtime type introspection and value rendering
// for UNO processes under inspection.
//
// The library turns raw typelib descriptor records found in the inspected
// process's memory into readable type names and value summaries, and exposes
// Any, Reference, and Sequence values as explorable pseudo-trees.
//
// # Architecture Overview
//
//	unoinspect/          Root package with the Memory, Value, Type, and Target interfaces
//	├── typelib/         Descriptor resolution with an identity-keyed session cache
//	├── summary/         One-line summaries for Any, Reference, Sequence, Type, strings
//	├── synthetic/       Synthetic child providers for references and sequences
//	├── inspect/         Session context tying resolver, renderers, and providers together
//	├── image/           Value accessor over a wasm32 memory image and host type table
//	├── snapshot/        YAML snapshot loader (typed segments or wasm modules via wazero)
//	├── errors/          Structured error types
//	└── cmd/unoinspect/  Command line and interactive explorer
//
// # Quick Start
//
//	img, roots, err := snapshot.Load(ctx, "state.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer img.Close(ctx)
//
//	sess := inspect.New(inspect.WithLogger(logger))
//	img.SetFormatter(sess)
//
//	for _, r := range roots {
//	    fmt.Println(r.Name, "=", sess.Render(r.Value))
//	    for _, c := range sess.Children(r.Value) {
//	        fmt.Println("  ", c.Name, "=", sess.Render(c.Value))
//	    }
//	}
//
// After the inspected process steps or continues, call sess.Invalidate so
// sequence providers re-read their backing buffers.
//
// All operations are synchronous and must be serialized by the caller.
package unoinspect
