package inspect

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	unoinspect "github.com/wippyai/uno-inspect"
	"github.com/wippyai/uno-inspect/summary"
	"github.com/wippyai/uno-inspect/synthetic"
	"github.com/wippyai/uno-inspect/typelib"
)

// Child is a named synthetic child.
type Child struct {
	Value unoinspect.Value
	Name  string
}

type providerKey struct {
	typeName string
	id       typelib.AddressID
}

type providerSlot struct {
	p     synthetic.Provider
	gen   uint64
	fresh bool
}

// Session is one attached inspection of a process. It owns the descriptor
// cache and the synthetic providers; all calls must come from one
// goroutine at a time.
type Session struct {
	id        uuid.UUID
	log       *zap.Logger
	cache     *typelib.Cache
	resolver  *typelib.Resolver
	renderer  *summary.Renderer
	providers map[providerKey]*providerSlot
	synth     synthetic.Options
	gen       uint64
}

// New creates a session with an empty cache.
func New(opts ...Option) *Session {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	id := uuid.New()
	log := cfg.logger.With(zap.Stringer("session", id))
	cache := typelib.NewCache()
	resolver := typelib.NewResolver(cache, typelib.Options{
		Logger:   log.Named("typelib"),
		MaxDepth: cfg.maxDepth,
	})
	return &Session{
		id:       id,
		log:      log,
		cache:    cache,
		resolver: resolver,
		renderer: summary.NewRenderer(resolver, summary.Options{
			Logger: log.Named("summary"),
			Prefix: cfg.prefix,
		}),
		providers: make(map[providerKey]*providerSlot),
		synth: synthetic.Options{
			Logger:      log.Named("synthetic"),
			Diagnostics: cfg.diagnostics,
		},
	}
}

func (s *Session) ID() uuid.UUID { return s.id }

// Generation counts invalidations.
func (s *Session) Generation() uint64 { return s.gen }

// Resolve describes the type descriptor reachable from v.
func (s *Session) Resolve(v unoinspect.Value) (*typelib.Entry, error) {
	return s.resolver.Resolve(v)
}

// Render summarizes v, falling back to the host's default rendering.
func (s *Session) Render(v unoinspect.Value) string {
	if out, ok := s.renderer.Render(v); ok {
		return out
	}
	return v.Summary()
}

// Summarize is the formatter hook for the host's default renderer. It
// reports false for values without a dedicated rule.
func (s *Session) Summarize(v unoinspect.Value) (string, bool) {
	return s.renderer.Render(v)
}

// Kind classifies v.
func (s *Session) Kind(v unoinspect.Value) summary.ValueKind {
	return s.renderer.Kind(v)
}

// Provider returns the synthetic child provider for v, or nil. Providers
// are reused per value and re-read memory after every invalidation.
func (s *Session) Provider(v unoinspect.Value) (synthetic.Provider, error) {
	key := providerKey{id: typelib.AddressID(v.Address()), typeName: v.TypeName()}
	slot, ok := s.providers[key]
	if !ok {
		p := synthetic.For(s.Kind(v), v, s.synth)
		if p == nil {
			return nil, nil
		}
		slot = &providerSlot{p: p}
		s.providers[key] = slot
	} else if slot.fresh && slot.gen == s.gen {
		return slot.p, nil
	}
	err := slot.p.Update()
	slot.gen, slot.fresh = s.gen, err == nil
	if err != nil {
		s.log.Debug("provider update failed",
			zap.Uint64("addr", v.Address()),
			zap.String("type", v.TypeName()),
			zap.Error(err))
	}
	return slot.p, err
}

// Expand lists the synthetic children of v in order.
func (s *Session) Expand(v unoinspect.Value) ([]Child, error) {
	p, err := s.Provider(v)
	if p == nil {
		return nil, err
	}
	n := p.NumChildren()
	children := make([]Child, 0, n)
	for i := 0; i < n; i++ {
		c, ok := p.ChildAt(i)
		if !ok {
			continue
		}
		children = append(children, Child{Name: p.ChildName(i), Value: c})
	}
	return children, err
}

// Children lists the synthetic children of v, degrading to none on error.
func (s *Session) Children(v unoinspect.Value) []Child {
	children, _ := s.Expand(v)
	return children
}

// Invalidate signals that process state may have changed. Providers re-read
// memory before their next use. The descriptor cache is kept.
func (s *Session) Invalidate() {
	s.gen++
	s.log.Debug("invalidated", zap.Uint64("generation", s.gen))
}

// Stats reports descriptor cache counters.
func (s *Session) Stats() typelib.Stats {
	return s.cache.Stats()
}
