// Package summary renders one-line summaries of UNO runtime values: Any,
// Reference, rtl::Reference, Sequence, Type, rtl strings, and the
// non-recursive cppu_threadpool::ThreadPool rendering.
//
// Renderers never fail. Unreadable fields degrade to fixed fallback text.
// Nested values are rendered through Value.Summary so the host's own
// formatter chain, and with it the exact-name ThreadPool rule, applies to
// them as well.
package summary
