package domain

import "fmt"

// Kind enumerates the error taxonomy fallible operations report.
type Kind string

const (
	// BadInput marks NaN values, wrong array lengths, unknown names, or
	// unit mismatches.
	BadInput Kind = "bad_input"
	// OutOfRange marks a parameter value rejected by its bounds.
	OutOfRange Kind = "out_of_range"
	// Degenerate marks a non-positive lattice volume, collinear
	// reflections, or a singular B matrix.
	Degenerate Kind = "degenerate"
	// NotInitialized marks a mode that requires a reference snapshot
	// before it can be used.
	NotInitialized Kind = "not_initialized"
	// SolveFailed marks an internal numerical breakdown: infinity/NaN in
	// a residual, or iteration exhaustion without any candidate.
	SolveFailed Kind = "solve_failed"
	// Incompatible marks an axis added twice with a different
	// transformation; fatal to geometry construction.
	Incompatible Kind = "incompatible"
)

// Error is the structured error every fallible operation in this module
// returns. NoSolution is deliberately not a Kind: an empty solution list is
// the normal way to report "converged nowhere" (see spec §7); Error is only
// for failures that are not representable as "zero solutions".
type Error struct {
	Kind    Kind
	Message string
	Name    string
}

func (e *Error) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Message, e.Name)
}

// Is supports errors.Is against the sentinel values below, matching on Kind
// alone so callers can write errors.Is(err, domain.ErrOutOfRange) without
// caring about Message or Name.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// Sentinels for errors.Is comparisons; Message and Name are irrelevant to
// the match (see Error.Is).
var (
	ErrBadInput       = &Error{Kind: BadInput}
	ErrOutOfRange     = &Error{Kind: OutOfRange}
	ErrDegenerate     = &Error{Kind: Degenerate}
	ErrNotInitialized = &Error{Kind: NotInitialized}
	ErrSolveFailed    = &Error{Kind: SolveFailed}
	ErrIncompatible   = &Error{Kind: Incompatible}
)

// NewError builds a structured Error with the given kind, message and
// offending name.
func NewError(kind Kind, name, format string, args ...any) *Error {
	return &Error{Kind: kind, Name: name, Message: fmt.Sprintf(format, args...)}
}
