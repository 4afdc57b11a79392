package snapshot

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/wippyai/uno-inspect/errors"
	"github.com/wippyai/uno-inspect/image"
)

const (
	pageSize = 1 << 16
	maxPages = 1<<16 - 1
)

// Root is a named value to inspect.
type Root struct {
	Value image.Value
	Name  string
}

type config struct {
	log     *zap.Logger
	imgOpts []image.Option
}

// Option configures loading.
type Option func(*config)

// WithLogger sets the loader's logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.log = l
		}
	}
}

// WithImageOptions passes options to the created image.
func WithImageOptions(opts ...image.Option) Option {
	return func(c *config) {
		c.imgOpts = append(c.imgOpts, opts...)
	}
}

// Load reads a snapshot file. A module path is resolved relative to the
// file. The caller must Close the returned image.
func Load(ctx context.Context, path string, opts ...Option) (*image.Image, []Root, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, errors.Load("read snapshot", err)
	}
	return Parse(ctx, data, filepath.Dir(path), opts...)
}

// Decode parses snapshot YAML. Unknown keys are rejected.
func Decode(data []byte) (*File, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var f File
	if err := dec.Decode(&f); err != nil {
		return nil, errors.ParseFailed("snapshot", err)
	}
	return &f, nil
}

// Parse builds an image from snapshot YAML. dir resolves a relative module
// path.
func Parse(ctx context.Context, data []byte, dir string, opts ...Option) (*image.Image, []Root, error) {
	cfg := config{log: zap.NewNop()}
	for _, opt := range opts {
		opt(&cfg)
	}
	f, err := Decode(data)
	if err != nil {
		return nil, nil, err
	}
	return Build(ctx, f, dir, cfg.log, cfg.imgOpts...)
}

// Build creates the image a decoded snapshot describes. All problems are
// reported together.
func Build(ctx context.Context, f *File, dir string, log *zap.Logger, imgOpts ...image.Option) (*image.Image, []Root, error) {
	if log == nil {
		log = zap.NewNop()
	}
	types := image.NewTable()
	if err := image.RegisterUNO(types); err != nil {
		return nil, nil, err
	}

	var (
		mem    image.Memory
		closer func(context.Context) error
	)
	if f.Module != "" {
		path := f.Module
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}
		var err error
		if mem, closer, err = moduleMemory(ctx, path, log); err != nil {
			return nil, nil, err
		}
	} else {
		pages := f.Memory.Pages
		if pages == 0 {
			pages = 1
		}
		if pages > maxPages {
			return nil, nil, errors.InvalidInput(errors.PhaseLoad, fmt.Sprintf("%d pages exceed the wasm32 address space", pages))
		}
		mem = image.NewBytes(pages * pageSize)
	}

	img := image.New(mem, types, imgOpts...)
	if closer != nil {
		img.OnClose(closer)
	}

	var errs error
	for i, s := range f.Memory.Segments {
		if err := writeSegment(mem, s); err != nil {
			errs = multierr.Append(errs, errors.Load(fmt.Sprintf("segment %d at 0x%x", i, s.At), err))
		}
	}
	errs = multierr.Append(errs, defineTypes(types, &f.Types))

	roots := make([]Root, 0, len(f.Roots))
	for _, r := range f.Roots {
		v, err := img.ValueOf(r.Name, r.At, r.Type)
		if err != nil {
			errs = multierr.Append(errs, errors.Load("root "+r.Name, err))
			continue
		}
		roots = append(roots, Root{Name: r.Name, Value: v})
	}

	if errs != nil {
		_ = img.Close(ctx)
		return nil, nil, errs
	}
	log.Debug("snapshot loaded",
		zap.Int("segments", len(f.Memory.Segments)),
		zap.Int("structs", len(f.Types.Structs)),
		zap.Int("roots", len(roots)))
	return img, roots, nil
}

func defineTypes(t *image.Table, spec *TypesSpec) error {
	var errs error
	parse := func(expr string) *image.Type {
		typ, err := t.Parse(expr)
		if err != nil {
			errs = multierr.Append(errs, err)
			return nil
		}
		return typ
	}

	for _, td := range spec.Typedefs {
		target := parse(td.Type)
		if target == nil {
			continue
		}
		if _, err := t.Typedef(td.Name, target); err != nil {
			errs = multierr.Append(errs, err)
		}
	}

	for _, sd := range spec.Structs {
		def := image.StructSpec{Name: sd.Name, Polymorphic: sd.Polymorphic}
		ok := true
		for _, b := range sd.Bases {
			typ := parse(b)
			ok = ok && typ != nil
			def.Bases = append(def.Bases, typ)
		}
		for _, a := range sd.Template {
			typ := parse(a)
			ok = ok && typ != nil
			def.Template = append(def.Template, typ)
		}
		for _, fd := range sd.Fields {
			typ := parse(fd.Type)
			ok = ok && typ != nil
			def.Fields = append(def.Fields, image.F(fd.Name, typ))
		}
		if !ok {
			continue
		}
		if _, err := t.Define(def); err != nil {
			errs = multierr.Append(errs, err)
		}
	}

	instances := []struct {
		names       []string
		instantiate func(*image.Table, *image.Type) (*image.Type, error)
	}{
		{spec.References, image.ReferenceOf},
		{spec.RtlReferences, image.RtlReferenceOf},
		{spec.Sequences, image.SequenceOf},
	}
	for _, inst := range instances {
		for _, name := range inst.names {
			arg := parse(name)
			if arg == nil {
				continue
			}
			if _, err := inst.instantiate(t, arg); err != nil {
				errs = multierr.Append(errs, err)
			}
		}
	}

	for _, vt := range spec.VTables {
		typ, found := t.Lookup(vt.Type)
		if !found || !typ.Canonical().Defined() {
			errs = multierr.Append(errs, errors.NotFound(errors.PhaseLoad, "vtable type", vt.Type))
			continue
		}
		if !typ.Polymorphic() {
			errs = multierr.Append(errs, errors.InvalidInput(errors.PhaseLoad, vt.Type+" is not polymorphic"))
			continue
		}
		t.SetVTable(vt.At, typ)
	}
	return errs
}
