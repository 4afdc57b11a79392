package typelib

import (
	"fmt"

	"go.uber.org/zap"

	unoinspect "github.com/wippyai/uno-inspect"
	"github.com/wippyai/uno-inspect/errors"
	"github.com/wippyai/uno-inspect/internal/rtlstr"
)

const (
	// DefaultMaxDepth bounds indirections and sequence nesting.
	DefaultMaxDepth = 64
	// DefaultSequenceTemplate is the host template sequences instantiate.
	DefaultSequenceTemplate = "com::sun::star::uno::Sequence"

	maxNameLength = 1024
)

// Options configures a Resolver.
type Options struct {
	Logger           *zap.Logger
	SequenceTemplate string
	MaxDepth         int
}

func (o *Options) setDefaults() {
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.MaxDepth <= 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	if o.SequenceTemplate == "" {
		o.SequenceTemplate = DefaultSequenceTemplate
	}
}

// Resolver turns type descriptor records into entries, memoized in a Cache.
type Resolver struct {
	cache *Cache
	log   *zap.Logger
	opts  Options
}

// NewResolver creates a resolver writing to cache.
func NewResolver(cache *Cache, opts Options) *Resolver {
	opts.setDefaults()
	if cache == nil {
		cache = NewCache()
	}
	return &Resolver{cache: cache, log: opts.Logger, opts: opts}
}

func (r *Resolver) Cache() *Cache { return r.cache }

// Resolve describes the descriptor reachable from v. v may be a type value
// wrapper, a type reference cell, or any descriptor record. Failures are
// returned as errors matching errors.ErrUnresolved and are remembered for v's
// address.
func (r *Resolver) Resolve(v unoinspect.Value) (*Entry, error) {
	return r.resolve(v, 0)
}

func (r *Resolver) resolve(v unoinspect.Value, depth int) (*Entry, error) {
	id := AddressID(v.Address())
	shape := v.CanonicalTypeName()

	if s, ok := r.cache.lookup(id); ok {
		switch {
		case s.state == stateResolved:
			r.cache.hits++
			return s.entry, nil
		case s.state == stateWrapper && shape == WrapperShape:
			// unwrap again below
		default:
			r.cache.hits++
			r.log.Debug("unresolved descriptor cached", zap.Stringer("addr", id))
			return nil, s.err
		}
	} else {
		r.cache.misses++
	}

	if depth >= r.opts.MaxDepth {
		return nil, r.fail(id, errors.KindDepthExceeded, fmt.Sprintf("nesting deeper than %d", r.opts.MaxDepth), nil)
	}

	if shape == WrapperShape {
		return r.unwrap(v, id, depth)
	}

	entry, kind, reason, cause := r.walk(v, depth)
	if entry == nil {
		return nil, r.fail(id, kind, reason, cause)
	}
	r.cache.storeResolved(id, entry)
	return entry, nil
}

// unwrap resolves the descriptor a type value points to. The wrapper's own
// address never holds a resolved entry.
func (r *Resolver) unwrap(v unoinspect.Value, id AddressID, depth int) (*Entry, error) {
	p, err := v.Field("_pType")
	if err != nil {
		return nil, r.fail(id, errors.KindFieldMissing, "type value without _pType", err)
	}
	target, err := p.Deref()
	if err != nil {
		return nil, r.fail(id, errors.KindNilPointer, "type value points nowhere", err)
	}
	r.cache.markWrapper(id, errors.Unresolved(uint64(id), "address holds a type value"))
	entry, err := r.resolve(target, depth+1)
	if err != nil {
		r.cache.storeUnresolved(id, err)
		return nil, err
	}
	return entry, nil
}

// walk reads the descriptor reached from v. On failure it returns the error
// kind, a reason and the underlying cause.
func (r *Resolver) walk(v unoinspect.Value, depth int) (*Entry, errors.Kind, string, error) {
	rec := v
	shape := rec.CanonicalTypeName()
	for hops := depth; shape == ReferenceShape; hops++ {
		if hops >= r.opts.MaxDepth {
			return nil, errors.KindDepthExceeded, "type reference chain too long", nil
		}
		p, err := rec.Field("pType")
		if err != nil {
			return nil, errors.KindFieldMissing, "type reference without pType", err
		}
		if rec, err = p.Deref(); err != nil {
			return nil, errors.KindNilPointer, "type reference not resolved", err
		}
		shape = rec.CanonicalTypeName()
	}
	if !IsDescriptorShape(shape) {
		return nil, errors.KindUnsupportedShape, "unexpected descriptor record " + shape, nil
	}

	hdr := rec
	for i := 0; hdr.CanonicalTypeName() != HeaderShape; i++ {
		if i >= r.opts.MaxDepth {
			return nil, errors.KindDepthExceeded, "embedded base chain too long", nil
		}
		base, err := hdr.Field("aBase")
		if err != nil {
			return nil, errors.KindFieldMissing, "descriptor without aBase", err
		}
		hdr = base
	}

	tc, err := hdr.Field("eTypeClass")
	if err != nil {
		return nil, errors.KindFieldMissing, "descriptor without eTypeClass", err
	}
	raw, err := tc.Uint()
	if err != nil {
		return nil, errors.KindReadFailure, "unreadable type class", err
	}
	namePtr, err := hdr.Field("pTypeName")
	if err != nil {
		return nil, errors.KindFieldMissing, "descriptor without pTypeName", err
	}
	name, truncated, err := rtlstr.ReadPointer(namePtr, rtlstr.UTF16, maxNameLength)
	if err != nil {
		return nil, errors.KindReadFailure, "unreadable type name", err
	}
	if truncated {
		return nil, errors.KindInvalidData, fmt.Sprintf("type name longer than %d units", maxNameLength), nil
	}

	kind := Kind(uint32(raw))
	entry := &Entry{Kind: kind, SourceName: name}
	switch kind.Category() {
	case CategoryPrimitive:
		entry.HostName = primitiveHostNames[kind]
	case CategoryObject:
		entry.HostName = HostName(name)
	case CategoryMember:
		entry.HostName = MemberHostName(name)
	case CategorySequence:
		elem, reason, err := r.element(rec, depth)
		if elem == nil {
			return nil, errors.KindUnresolved, reason, err
		}
		entry.Element = elem
		entry.HostName = r.opts.SequenceTemplate + "<" + elem.HostName + ">"
	default:
		return nil, errors.KindUnsupportedKind, fmt.Sprintf("unsupported type class %d (%s)", raw, kind), nil
	}
	return entry, "", "", nil
}

// element resolves the element type of a sequence descriptor by viewing rec
// as an indirect type description.
func (r *Resolver) element(rec unoinspect.Value, depth int) (*Entry, string, error) {
	indirect, ok := rec.Target().FindType(IndirectShape)
	if !ok {
		return nil, "host has no " + IndirectShape, nil
	}
	view, err := rec.Cast(indirect)
	if err != nil {
		return nil, "cannot view sequence as " + IndirectShape, err
	}
	p, err := view.Field("pType")
	if err != nil {
		return nil, "sequence without element type", err
	}
	target, err := p.Deref()
	if err != nil {
		return nil, "sequence element type missing", err
	}
	elem, err := r.resolve(target, depth+1)
	if err != nil {
		return nil, "sequence element unresolved", err
	}
	return elem, "", nil
}

func (r *Resolver) fail(id AddressID, kind errors.Kind, reason string, cause error) error {
	b := errors.New(errors.PhaseResolve, errors.KindUnresolved).
		Address(uint64(id)).
		Detail("%s", reason)
	if cause != nil {
		b.Cause(cause)
	} else if kind != errors.KindUnresolved {
		b.Cause(errors.New(errors.PhaseResolve, kind).Address(uint64(id)).Build())
	}
	err := b.Build()
	r.cache.storeUnresolved(id, err)

	switch kind {
	case errors.KindUnsupportedShape, errors.KindUnsupportedKind, errors.KindDepthExceeded, errors.KindInvalidData:
		r.log.Warn("malformed type descriptor",
			zap.Stringer("addr", id),
			zap.String("kind", string(kind)),
			zap.String("reason", reason))
	default:
		r.log.Debug("type descriptor unresolved",
			zap.Stringer("addr", id),
			zap.String("reason", reason),
			zap.Error(cause))
	}
	return err
}
