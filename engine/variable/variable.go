// Package variable implements typed, bounded numeric values (attributes and
// resources) and their copy-on-write containers. All derived game arithmetic
// flows through this package; every mutation re-clamps to the legal range.
package variable

import (
	"github.com/nathoo/warcore/types"
)

// Purpose is a bit set describing what a variable is for. The zero value is
// a basic, entity-owned variable.
type Purpose uint8

const (
	// Modifier marks a modifier variable; modifiers use the absolute wide
	// range instead of the class range.
	Modifier Purpose = 1 << iota
	// Faction marks a faction-owned variable; unset means entity-owned.
	Faction
)

// Modifiers may push far outside any class range; they only constrain the
// final combined value.
const (
	modifierMin = -1 << 30
	modifierMax = 1 << 30
)

// Variable is one numeric value instantiated from a VariableClass.
type Variable struct {
	Class   *types.VariableClass
	Purpose Purpose
	Initial int
	Value   int
}

// Minimum returns the effective lower bound for the variable's purpose.
func (v Variable) Minimum() int {
	if v.Purpose&Modifier != 0 {
		return modifierMin
	}
	return v.Class.Min
}

// Maximum returns the effective upper bound for the variable's purpose.
// Basic values of a limited resource are additionally capped by the
// initial value.
func (v Variable) Maximum() int {
	if v.Purpose&Modifier != 0 {
		return modifierMax
	}
	max := v.Class.Max
	if v.Class.Category == types.Resource && v.Class.Limited && v.Initial < max {
		max = v.Initial
	}
	return max
}

// clamp forces Value back inside [Minimum, Maximum].
func (v *Variable) clamp() {
	if min := v.Minimum(); v.Value < min {
		v.Value = min
	}
	if max := v.Maximum(); v.Value > max {
		v.Value = max
	}
}
