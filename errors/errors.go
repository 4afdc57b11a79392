package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseResolve Phase = "resolve" // descriptor resolution
	PhaseRender  Phase = "render"  // summary rendering
	PhaseExpand  Phase = "expand"  // synthetic children
	PhaseRead    Phase = "read"    // memory access
	PhaseLoad    Phase = "load"    // snapshot loading
	PhaseParse   Phase = "parse"   // snapshot parsing
)

// Kind categorizes the error
type Kind string

const (
	KindUnresolved       Kind = "unresolved"
	KindReadFailure      Kind = "read_failure"
	KindUnsupportedShape Kind = "unsupported_shape"
	KindUnsupportedKind  Kind = "unsupported_kind"
	KindFieldMissing     Kind = "field_missing"
	KindNilPointer       Kind = "nil_pointer"
	KindOutOfBounds      Kind = "out_of_bounds"
	KindDepthExceeded    Kind = "depth_exceeded"
	KindZeroSize         Kind = "zero_size"
	KindNotFound         Kind = "not_found"
	KindInvalidData      Kind = "invalid_data"
	KindInvalidInput     Kind = "invalid_input"
	KindTypeMismatch     Kind = "type_mismatch"
)

// Sentinels for errors.Is checks that only care about the kind.
var (
	ErrUnresolved  = &Error{Phase: PhaseResolve, Kind: KindUnresolved}
	ErrReadFailure = &Error{Phase: PhaseRead, Kind: KindReadFailure}
)

// Error is the structured error type used throughout the library
type Error struct {
	Value      any
	Cause      error
	Phase      Phase
	Kind       Kind
	HostType   string
	SourceType string
	Detail     string
	Path       []string
	Address    uint64
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.Address != 0 {
		fmt.Fprintf(&b, " @0x%x", e.Address)
	}

	if e.HostType != "" || e.SourceType != "" {
		b.WriteString(": ")
		if e.HostType != "" && e.SourceType != "" {
			b.WriteString("host type ")
			b.WriteString(e.HostType)
			b.WriteString(", UNO type ")
			b.WriteString(e.SourceType)
		} else if e.HostType != "" {
			b.WriteString("host type ")
			b.WriteString(e.HostType)
		} else {
			b.WriteString("UNO type ")
			b.WriteString(e.SourceType)
		}
	}

	if e.Detail != "" {
		if e.HostType != "" || e.SourceType != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error. The Unresolved and
// ReadFailure sentinels match on kind alone.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t == ErrUnresolved || t == ErrReadFailure {
		return e.Kind == t.Kind
	}
	return e.Phase == t.Phase && e.Kind == t.Kind
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the field path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// HostType sets the host (C++) type name
func (b *Builder) HostType(t string) *Builder {
	b.err.HostType = t
	return b
}

// SourceType sets the UNO type name
func (b *Builder) SourceType(t string) *Builder {
	b.err.SourceType = t
	return b
}

// Address sets the address of the offending record
func (b *Builder) Address(addr uint64) *Builder {
	b.err.Address = addr
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// Unresolved creates a resolution failure for the descriptor at addr
func Unresolved(addr uint64, reason string) *Error {
	return &Error{
		Phase:   PhaseResolve,
		Kind:    KindUnresolved,
		Address: addr,
		Detail:  reason,
	}
}

// ReadFailure wraps a memory access error for a specific field
func ReadFailure(path []string, addr uint64, cause error) *Error {
	return &Error{
		Phase:   PhaseRead,
		Kind:    KindReadFailure,
		Path:    path,
		Address: addr,
		Cause:   cause,
	}
}

// FieldMissing creates a missing field error
func FieldMissing(phase Phase, path []string, hostType, fieldName string) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindFieldMissing,
		Path:     path,
		HostType: hostType,
		Detail:   fmt.Sprintf("no field %q", fieldName),
	}
}

// NilPointer creates a nil pointer error
func NilPointer(phase Phase, path []string, hostType string) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindNilPointer,
		Path:     path,
		HostType: hostType,
		Detail:   "nil pointer",
	}
}

// OutOfBounds creates an out of bounds memory error
func OutOfBounds(phase Phase, addr uint64, length uint64) *Error {
	return &Error{
		Phase:   phase,
		Kind:    KindOutOfBounds,
		Address: addr,
		Detail:  fmt.Sprintf("%d bytes at 0x%x outside memory", length, addr),
	}
}

// TypeMismatch creates a type mismatch error
func TypeMismatch(phase Phase, path []string, hostType, detail string) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindTypeMismatch,
		Path:     path,
		HostType: hostType,
		Detail:   detail,
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, path []string, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Path:   path,
		Detail: detail,
	}
}

// ZeroSize creates an internal error for an element type without size
func ZeroSize(hostType string) *Error {
	return &Error{
		Phase:    PhaseExpand,
		Kind:     KindZeroSize,
		HostType: hostType,
		Detail:   "element type has zero byte size",
	}
}

// Load creates a snapshot loading error
func Load(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindInvalidData,
		Detail: detail,
		Cause:  cause,
	}
}

// ParseFailed creates a parsing error
func ParseFailed(what string, cause error) *Error {
	return &Error{
		Phase:  PhaseParse,
		Kind:   KindInvalidData,
		Detail: fmt.Sprintf("parse %s", what),
		Cause:  cause,
	}
}
