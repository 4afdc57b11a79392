package synthetic

import (
	"go.uber.org/zap"

	unoinspect "github.com/wippyai/uno-inspect"
	"github.com/wippyai/uno-inspect/summary"
)

// DereferenceChild names the single child of a handle provider.
const DereferenceChild = "$$dereference$$"

// Provider exposes synthetic children of a value for interactive
// expansion. Update re-reads the value's memory and must be called before
// first use and after every invalidation.
type Provider interface {
	NumChildren() int
	// ChildIndex returns the index of the named child or -1.
	ChildIndex(name string) int
	// ChildAt returns the child at i, or false when there is none.
	ChildAt(i int) (unoinspect.Value, bool)
	// ChildName returns the display name of the child at i.
	ChildName(i int) string
	Update() error
}

// Options configures providers.
type Options struct {
	Logger *zap.Logger
	// Diagnostics makes internal-error conditions fail loudly.
	Diagnostics bool
}

func (o *Options) setDefaults() {
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
}

// For returns the provider for a value of kind k, or nil when k has no
// synthetic children. The provider has not been updated yet.
func For(k summary.ValueKind, v unoinspect.Value, opts Options) Provider {
	opts.setDefaults()
	switch k {
	case summary.ReferenceValue:
		return NewReference(v, "_pInterface", opts)
	case summary.RtlReferenceValue:
		return NewReference(v, "m_pBody", opts)
	case summary.SequenceValue:
		return NewSequence(v, opts)
	case summary.Unclassified,
		summary.AnyValue,
		summary.TypeValue,
		summary.ThreadPoolValue,
		summary.StringRecord,
		summary.UStringRecord,
		summary.StringHandle,
		summary.UStringHandle:
		return nil
	default:
		opts.Logger.Error("no provider rule for value kind", zap.Stringer("kind", k))
		return nil
	}
}
