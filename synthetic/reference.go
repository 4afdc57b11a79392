package synthetic

import (
	"go.uber.org/zap"

	unoinspect "github.com/wippyai/uno-inspect"
)

// Reference exposes the pointee of a reference-counted handle as one child.
type Reference struct {
	v     unoinspect.Value
	ptr   unoinspect.Value
	log   *zap.Logger
	field string
}

// NewReference creates a provider for a handle whose raw pointer is field.
func NewReference(v unoinspect.Value, field string, opts Options) *Reference {
	opts.setDefaults()
	return &Reference{v: v, field: field, log: opts.Logger}
}

func (p *Reference) Update() error {
	p.ptr = nil
	ptr, err := p.v.Field(p.field)
	if err != nil {
		return nil
	}
	raw, err := ptr.Uint()
	if err != nil {
		p.log.Debug("handle pointer unreadable", zap.Uint64("addr", p.v.Address()), zap.Error(err))
		return nil
	}
	if raw != 0 {
		p.ptr = ptr
	}
	return nil
}

func (p *Reference) NumChildren() int {
	if p.ptr == nil {
		return 0
	}
	return 1
}

func (p *Reference) ChildIndex(name string) int {
	if name == DereferenceChild {
		return 0
	}
	return -1
}

func (p *Reference) ChildName(int) string { return DereferenceChild }

// ChildAt returns the pointee viewed through its dynamic type when the
// image knows it.
func (p *Reference) ChildAt(i int) (unoinspect.Value, bool) {
	if i != 0 || p.ptr == nil {
		return nil, false
	}
	if dyn, err := p.ptr.DynamicValue(); err == nil {
		return dyn, true
	}
	pointee, err := p.ptr.Deref()
	if err != nil {
		return nil, false
	}
	return pointee, true
}
