// Package errs provides the typed errors shared by the dispatch and trust domains.
//
// Every error type pairs a sentinel (ErrValueIsRequired, ErrValueIsInvalid,
// ErrValueIsOutOfRange, ErrObjectNotFound, ErrVersionConflict) with a struct carrying
// the offending parameter. Unwrap returns the sentinel, so callers classify failures
// with errors.Is and adapters map them to transport status codes without string matching.
package errs
