package summary

import (
	"fmt"

	"go.uber.org/zap"

	unoinspect "github.com/wippyai/uno-inspect"
	"github.com/wippyai/uno-inspect/typelib"
)

// Options configures a Renderer.
type Options struct {
	Logger *zap.Logger
	// Prefix is stripped from every displayed type name.
	Prefix string
}

// Renderer produces one-line summaries of UNO runtime values.
type Renderer struct {
	resolver *typelib.Resolver
	log      *zap.Logger
	prefix   string
}

// NewRenderer creates a renderer resolving descriptors through res.
func NewRenderer(res *typelib.Resolver, opts Options) *Renderer {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Prefix == "" {
		opts.Prefix = UNOPrefix
	}
	return &Renderer{resolver: res, log: opts.Logger, prefix: opts.Prefix}
}

// Kind classifies v by its static type name, then its canonical one.
func (r *Renderer) Kind(v unoinspect.Value) ValueKind {
	if k := Classify(v.TypeName()); k != Unclassified {
		return k
	}
	return Classify(v.CanonicalTypeName())
}

// Render summarizes v. It returns false for values without a rule.
func (r *Renderer) Render(v unoinspect.Value) (string, bool) {
	k := r.Kind(v)
	if k == Unclassified {
		return "", false
	}
	return r.RenderKind(k, v), true
}

// RenderKind summarizes v as a value of kind k.
func (r *Renderer) RenderKind(k ValueKind, v unoinspect.Value) string {
	switch k {
	case AnyValue:
		return r.Any(v)
	case ReferenceValue:
		return r.Reference(v, "_pInterface")
	case RtlReferenceValue:
		return r.Reference(v, "m_pBody")
	case SequenceValue:
		return r.Sequence(v)
	case TypeValue:
		return r.Type(v)
	case ThreadPoolValue:
		return r.ThreadPool(v)
	case StringRecord:
		return r.stringRecord(v, utf8)
	case UStringRecord:
		return r.stringRecord(v, utf16)
	case StringHandle:
		return r.stringHandle(v, utf8)
	case UStringHandle:
		return r.stringHandle(v, utf16)
	case Unclassified:
		return v.Summary()
	default:
		r.log.Error("no renderer for value kind", zap.Stringer("kind", k), zap.String("type", v.TypeName()))
		return v.Summary()
	}
}

// TypeName is v's static type name as displayed.
func (r *Renderer) TypeName(v unoinspect.Value) string {
	return StripPrefix(v.TypeName(), r.prefix)
}

// Any renders a discriminated union value.
func (r *Renderer) Any(v unoinspect.Value) string {
	name := r.TypeName(v)
	p, err := v.Field("pType")
	if err != nil {
		return name + "(invalid)"
	}
	ref, err := p.Deref()
	if err != nil {
		return name + "(invalid)"
	}
	e, err := r.resolver.Resolve(ref)
	if err != nil {
		return name + "(invalid)"
	}
	if e.Kind == typelib.KindVoid {
		return name + "(" + e.SourceName + ")"
	}
	data, err := v.Field("pData")
	if err != nil {
		return name + "(invalid)"
	}
	typ, ok := v.Target().FindType(e.HostName)
	if !ok {
		return name + "(unresolved)"
	}
	payload, err := derefAs(data, typ)
	if err != nil {
		r.log.Debug("any payload unreadable", zap.Uint64("addr", v.Address()), zap.Error(err))
		return fmt.Sprintf("%s(%s: <invalid payload>)", name, e.SourceName)
	}
	return fmt.Sprintf("%s(%s: %s)", name, e.SourceName, payload.Summary())
}

func derefAs(ptr unoinspect.Value, typ unoinspect.Type) (unoinspect.Value, error) {
	p, err := ptr.Cast(typ.PointerType())
	if err != nil {
		return nil, err
	}
	return p.Deref()
}

// Reference renders a reference-counted handle whose raw pointer is field.
func (r *Renderer) Reference(v unoinspect.Value, field string) string {
	name := r.TypeName(v)
	p, err := v.Field(field)
	if err != nil {
		return "empty " + name
	}
	raw, err := p.Uint()
	if err != nil {
		return fmt.Sprintf("%s to <invalid address>", name)
	}
	if raw == 0 {
		return "empty " + name
	}
	pointee, err := p.Deref()
	if err != nil {
		return fmt.Sprintf("%s to <invalid address 0x%08x>", name, raw)
	}
	label := XInterfaceLabel
	if dyn, err := p.DynamicValue(); err == nil {
		pointee = dyn
		label = StripPrefix(dyn.TypeName(), r.prefix)
	} else {
		r.log.Debug("no dynamic type", zap.Uint64("addr", raw), zap.Error(err))
	}
	return fmt.Sprintf("%s to (%s) %s", name, label, pointee.Summary())
}

// Sequence renders a sequence handle.
func (r *Renderer) Sequence(v unoinspect.Value) string {
	name := r.TypeName(v)
	p, err := v.Field("_pSequence")
	if err != nil {
		return "uninitialized " + name
	}
	raw, err := p.Uint()
	if err != nil {
		return name + " [<invalid address>]"
	}
	if raw == 0 {
		return "uninitialized " + name
	}
	n, err := elementCount(p)
	if err != nil {
		return name + " [<invalid>]"
	}
	return fmt.Sprintf("%s [%d]", name, n)
}

// elementCount reads nElements of the sequence record ptr points to.
func elementCount(ptr unoinspect.Value) (int32, error) {
	seq, err := ptr.Deref()
	if err != nil {
		return 0, err
	}
	f, err := seq.Field("nElements")
	if err != nil {
		return 0, err
	}
	n, err := f.Uint()
	if err != nil {
		return 0, err
	}
	return int32(n), nil
}

// Type renders a bare type value.
func (r *Renderer) Type(v unoinspect.Value) string {
	name := r.TypeName(v)
	e, err := r.resolver.Resolve(v)
	if err != nil {
		return "invalid " + name
	}
	return name + " " + e.SourceName
}

// ThreadPool renders a thread pool by name and address only. Its admin
// holds an rtl::Reference back to the pool, so a field rendering would
// recurse.
func (r *Renderer) ThreadPool(v unoinspect.Value) string {
	return fmt.Sprintf("%s@0x%x", r.TypeName(v), v.Address())
}
