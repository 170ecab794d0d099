// Package validation provides two checks spec.md §4.4/§9 implies but never
// names an operation for: a runtime contract check that a Mode's shape is
// internally consistent, and a static architecture check that no plugin
// reaches past the package boundaries the catalog depends on.
package validation

import (
	"fmt"

	"hklgeo/pkg/domain"
)

// Error mirrors domain.Error's shape for findings that are about source
// structure rather than runtime state (no natural Geometry/Sample context
// to attach a domain.Kind to).
type Error struct {
	File    string
	Line    int
	Message string
}

func (e Error) String() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.File, e.Message)
}

// CheckModeContract validates the invariants a well-formed Mode must
// satisfy: a mode with residuals has write axes, Get/Set hooks are only
// absent together with the corresponding ReadAxes/Residuals being empty,
// and mode-local parameters are named. The residual-size comparison uses
// Mode.ResidualSize, which does not evaluate the residuals, so it never
// reports a mismatch.
func CheckModeContract(engineName string, m *domain.Mode) []Error {
	var errs []Error
	loc := fmt.Sprintf("engine %q mode %q", engineName, m.Name)

	if len(m.WriteAxes) == 0 && len(m.Residuals) > 0 {
		errs = append(errs, Error{File: loc, Message: "mode has residuals but no write axes"})
	}
	if m.ResidualSize() != len(m.WriteAxes) && len(m.Residuals) > 0 {
		errs = append(errs, Error{File: loc, Message: fmt.Sprintf(
			"residual size contract assumes %d write axes; verify Evaluate() actually emits that many components", len(m.WriteAxes))})
	}
	if m.Ops.Get == nil && len(m.ReadAxes) > 0 {
		errs = append(errs, Error{File: loc, Message: "mode declares read axes but has no Get hook"})
	}
	if m.Ops.Set == nil && len(m.Residuals) > 0 {
		errs = append(errs, Error{File: loc, Message: "mode declares residuals but has no Set hook to drive them"})
	}
	for _, p := range m.Parameters {
		if p.Name == "" {
			errs = append(errs, Error{File: loc, Message: "mode-local parameter has an empty name"})
		}
	}
	return errs
}

// CheckEngineContract runs CheckModeContract over every mode of e and
// additionally verifies every pseudo-axis is named and the engine has at
// least one mode.
func CheckEngineContract(e *domain.Engine) []Error {
	var errs []Error
	if len(e.Modes) == 0 {
		errs = append(errs, Error{File: fmt.Sprintf("engine %q", e.Name), Message: "engine has no modes"})
	}
	for _, p := range e.PseudoAxes {
		if p.Name == "" {
			errs = append(errs, Error{File: fmt.Sprintf("engine %q", e.Name), Message: "pseudo-axis has an empty name"})
		}
	}
	for _, m := range e.Modes {
		errs = append(errs, CheckModeContract(e.Name, m)...)
	}
	return errs
}
