// Package uictl defines read-only controls that let a UI observe hardware it
// does not own (a recorder's clock, a level meter) without importing it.
package uictl

import "golang.org/x/exp/constraints"

type Number interface {
	constraints.Integer | constraints.Float
}

// Dial is a control that can read some value.
type Dial[N Number] interface {
	Read() N
}

// Levels is a control that can read a window of recent levels.
type Levels[N Number] interface {
	Read() []N
}

// DialFunc adapts a plain function to a Dial.
type DialFunc[N Number] func() N

func (f DialFunc[N]) Read() N { return f() }

// LevelsFunc adapts a plain function to Levels.
type LevelsFunc[N Number] func() []N

func (f LevelsFunc[N]) Read() []N { return f() }
