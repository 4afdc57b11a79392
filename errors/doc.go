// Package errors provides structured error types for the uno-inspect library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type includes rich context: field path, host/UNO type names, the
// address of the offending record, and cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseResolve, errors.KindUnsupportedShape).
//		Address(addr).
//		HostType("_typelib_Foo").
//		Detail("not a type description record").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.Unresolved(addr, "missing pType")
//	err := errors.ReadFailure([]string{"pData"}, addr, cause)
//
// Resolution failures and read failures are never fatal; callers check them
// with errors.Is(err, errors.ErrUnresolved) or errors.Is(err, errors.ErrReadFailure).
package errors
