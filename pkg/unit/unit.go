// Package unit defines the small set of measurement units the kinematics
// engine converts between: an internal ("default") unit used for all
// computation, and a user-facing display unit.
package unit

import "math"

// Unit describes a single measurement unit and its conversion factor back
// to the default unit of its kind (radians for angles, nanometres for
// lengths). Factor satisfies: value_in_default = value_in_this * Factor.
type Unit struct {
	Name   string
	Factor float64
}

// Radian is the default angular unit used internally by every rotation
// Parameter.
var Radian = Unit{Name: "rad", Factor: 1}

// Degree is the user-facing angular unit most beamline operators prefer.
var Degree = Unit{Name: "deg", Factor: math.Pi / 180}

// Nanometer is the default length unit used internally by translations and
// lattice parameters.
var Nanometer = Unit{Name: "nm", Factor: 1}

// Millimeter is a common user-facing length unit for translation stages.
var Millimeter = Unit{Name: "mm", Factor: 1e6}

// Kind selects which family of units a boundary call is speaking in.
type Kind int

const (
	// Default means the value is already expressed in the Parameter's
	// internal unit (radians or nanometres); no conversion is applied.
	Default Kind = iota
	// User means the value is expressed in the Parameter's display unit
	// and must be converted using its Factor.
	User
)

// ToDefault converts value, expressed in unit u, into the default unit.
func ToDefault(value float64, u Unit) float64 {
	return value * u.Factor
}

// FromDefault converts value, expressed in the default unit, into unit u.
func FromDefault(value float64, u Unit) float64 {
	return value / u.Factor
}
