package image

import (
	"context"

	unoinspect "github.com/wippyai/uno-inspect"
	"github.com/wippyai/uno-inspect/errors"
)

// DefaultMaxRenderDepth bounds nesting in default renderings.
const DefaultMaxRenderDepth = 8

// Formatter supplies summaries for values the host renders. It returns
// false for values it has no rule for.
type Formatter interface {
	Summarize(v unoinspect.Value) (string, bool)
}

// Image is an inspected wasm32 process: its memory plus the host types
// describing it.
type Image struct {
	mem       Memory
	types     *Table
	formatter Formatter
	closers   []func(context.Context) error
	maxDepth  int
	nesting   int
}

var _ unoinspect.Target = (*Image)(nil)

// Option configures an Image.
type Option func(*Image)

// WithMaxRenderDepth limits nesting of default renderings.
func WithMaxRenderDepth(n int) Option {
	return func(img *Image) {
		if n > 0 {
			img.maxDepth = n
		}
	}
}

// New creates an image over mem described by types.
func New(mem Memory, types *Table, opts ...Option) *Image {
	img := &Image{
		mem:      mem,
		types:    types,
		maxDepth: DefaultMaxRenderDepth,
	}
	for _, opt := range opts {
		opt(img)
	}
	return img
}

func (img *Image) Memory() Memory { return img.mem }
func (img *Image) Types() *Table  { return img.types }

// SetFormatter installs the formatter consulted by Value.Summary.
func (img *Image) SetFormatter(f Formatter) {
	img.formatter = f
}

// OnClose registers a cleanup run by Close, in reverse order.
func (img *Image) OnClose(fn func(context.Context) error) {
	img.closers = append(img.closers, fn)
}

// Close releases resources backing the image's memory.
func (img *Image) Close(ctx context.Context) error {
	var first error
	for i := len(img.closers) - 1; i >= 0; i-- {
		if err := img.closers[i](ctx); err != nil && first == nil {
			first = err
		}
	}
	img.closers = nil
	return first
}

// FindType looks up a host type by name.
func (img *Image) FindType(name string) (unoinspect.Type, bool) {
	typ, ok := img.types.Lookup(name)
	if !ok || !typ.Canonical().Defined() {
		return nil, false
	}
	return typ, true
}

// Value views the memory at addr as typ.
func (img *Image) Value(addr uint32, typ *Type) Value {
	return Value{img: img, typ: typ, addr: addr}
}

// ValueOf views the memory at addr as the type named by expr.
func (img *Image) ValueOf(name string, addr uint32, expr string) (Value, error) {
	typ, err := img.types.Parse(expr)
	if err != nil {
		return Value{}, err
	}
	if c := typ.Canonical(); !c.Defined() {
		return Value{}, errors.NotFound(errors.PhaseLoad, "definition of struct", c.Name())
	}
	return Value{img: img, typ: typ, addr: addr, name: name}, nil
}
