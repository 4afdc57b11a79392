package inspect

import (
	"go.uber.org/zap"

	"github.com/wippyai/uno-inspect/summary"
	"github.com/wippyai/uno-inspect/typelib"
)

type config struct {
	logger      *zap.Logger
	prefix      string
	maxDepth    int
	diagnostics bool
}

func defaultConfig() config {
	return config{
		logger:   zap.NewNop(),
		prefix:   summary.UNOPrefix,
		maxDepth: typelib.DefaultMaxDepth,
	}
}

// Option configures a Session.
type Option func(*config)

// WithLogger sets the session logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMaxDepth bounds descriptor indirections and sequence nesting.
func WithMaxDepth(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxDepth = n
		}
	}
}

// WithDiagnostics makes malformed records fail loudly instead of degrading.
func WithDiagnostics(on bool) Option {
	return func(c *config) {
		c.diagnostics = on
	}
}

// WithTypePrefix sets the namespace stripped from displayed type names.
func WithTypePrefix(prefix string) Option {
	return func(c *config) {
		if prefix != "" {
			c.prefix = prefix
		}
	}
}
