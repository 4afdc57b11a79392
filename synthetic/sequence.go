package synthetic

import (
	"strconv"
	"strings"

	"go.uber.org/zap"

	unoinspect "github.com/wippyai/uno-inspect"
	"github.com/wippyai/uno-inspect/errors"
)

// MaxElements bounds the element count accepted from a sequence header.
const MaxElements = 1 << 27

// Sequence exposes the elements of a sequence handle as indexed children.
type Sequence struct {
	v     unoinspect.Value
	elems unoinspect.Value
	typ   unoinspect.Type
	log   *zap.Logger
	size  uint64
	count int
	diag  bool
}

// NewSequence creates a provider for a Sequence<T> handle.
func NewSequence(v unoinspect.Value, opts Options) *Sequence {
	opts.setDefaults()
	return &Sequence{v: v, log: opts.Logger, diag: opts.Diagnostics}
}

// Update re-reads the buffer pointer, element type, and count. Any state
// from an earlier update is discarded first.
func (p *Sequence) Update() error {
	p.elems, p.typ, p.size, p.count = nil, nil, 0, 0

	ptr, err := p.v.Field("_pSequence")
	if err != nil {
		return nil
	}
	if raw, err := ptr.Uint(); err != nil || raw == 0 {
		return nil
	}
	typ, err := p.v.TemplateArg(0)
	if err != nil {
		return errors.New(errors.PhaseExpand, errors.KindNotFound).
			HostType(p.v.TypeName()).
			Detail("sequence element type").
			Cause(err).
			Build()
	}
	size := typ.Size()
	if size == 0 {
		err := errors.ZeroSize(typ.Name())
		if p.diag {
			p.log.Error("sequence element has zero size",
				zap.String("type", typ.Name()),
				zap.Uint64("addr", p.v.Address()))
			return err
		}
		return nil
	}
	seq, err := ptr.Deref()
	if err != nil {
		return nil
	}
	elems, err := seq.Field("elements")
	if err != nil {
		return err
	}
	nf, err := seq.Field("nElements")
	if err != nil {
		return err
	}
	raw, err := nf.Uint()
	if err != nil {
		return err
	}
	n := int64(int32(raw))
	if n < 0 || n > MaxElements {
		p.log.Warn("implausible sequence length",
			zap.Int64("count", n),
			zap.Uint64("addr", seq.Address()))
		return errors.New(errors.PhaseExpand, errors.KindInvalidData).
			HostType(p.v.TypeName()).
			Address(seq.Address()).
			Detail("element count %d", n).
			Build()
	}
	p.elems, p.typ, p.size, p.count = elems, typ, size, int(n)
	return nil
}

func (p *Sequence) NumChildren() int { return p.count }

// ChildIndex accepts "[3]" as well as "3".
func (p *Sequence) ChildIndex(name string) int {
	i, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(name, "["), "]"))
	if err != nil || i < 0 || i >= p.count {
		return -1
	}
	return i
}

func (p *Sequence) ChildName(i int) string {
	return "[" + strconv.Itoa(i) + "]"
}

// ChildAt reads element i at i*size bytes past the start of the elements.
func (p *Sequence) ChildAt(i int) (unoinspect.Value, bool) {
	if i < 0 || i >= p.count {
		return nil, false
	}
	c, err := p.elems.ChildAtOffset(p.ChildName(i), uint64(i)*p.size, p.typ)
	if err != nil {
		p.log.Debug("sequence element unreadable", zap.Int("index", i), zap.Error(err))
		return nil, false
	}
	return c, true
}
