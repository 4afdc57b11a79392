package snapshot

import (
	"context"
	"os"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/uno-inspect/errors"
	"github.com/wippyai/uno-inspect/image"
)

// moduleMemory instantiates a wasm module without running it and returns
// its linear memory, initialized from the module's data segments. Imported
// functions are stubbed with traps.
func moduleMemory(ctx context.Context, path string, log *zap.Logger) (image.Memory, func(context.Context) error, error) {
	code, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, errors.Load("read module "+path, err)
	}

	rt := wazero.NewRuntime(ctx)
	fail := func(detail string, cause error) (image.Memory, func(context.Context) error, error) {
		_ = rt.Close(ctx)
		return nil, nil, errors.Load(detail, cause)
	}

	compiled, err := rt.CompileModule(ctx, code)
	if err != nil {
		return fail("compile module "+path, err)
	}
	if len(compiled.ImportedMemories()) > 0 {
		return fail("module imports its memory", nil)
	}

	imports := make(map[string][]api.FunctionDefinition)
	for _, fn := range compiled.ImportedFunctions() {
		modName, _, _ := fn.Import()
		imports[modName] = append(imports[modName], fn)
	}
	for modName, fns := range imports {
		builder := rt.NewHostModuleBuilder(modName)
		for _, fn := range fns {
			_, name, _ := fn.Import()
			builder.NewFunctionBuilder().
				WithGoModuleFunction(api.GoModuleFunc(trapHandler), fn.ParamTypes(), fn.ResultTypes()).
				Export(name)
		}
		if _, err := builder.Instantiate(ctx); err != nil {
			return fail("stub imports of "+modName, err)
		}
		log.Debug("stubbed imports", zap.String("module", modName), zap.Int("functions", len(fns)))
	}

	mod, err := rt.InstantiateModule(ctx, compiled, wazero.NewModuleConfig().WithName("image").WithStartFunctions())
	if err != nil {
		return fail("instantiate module "+path, err)
	}

	mem := mod.ExportedMemory("memory")
	if mem == nil {
		for name := range compiled.ExportedMemories() {
			mem = mod.ExportedMemory(name)
			break
		}
	}
	if mem == nil {
		return fail("module exports no memory", nil)
	}
	log.Debug("module memory", zap.String("path", path), zap.Uint32("size", mem.Size()))
	return image.WrapMemory(mem), rt.Close, nil
}

func trapHandler(ctx context.Context, mod api.Module, _ []uint64) {
	if mod != nil {
		_ = mod.CloseWithExitCode(ctx, 1)
	}
}
