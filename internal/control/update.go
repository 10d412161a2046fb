package control

import "fmt"

type Axis int

const (
	Pitch Axis = iota
	Yaw
	Lift
	Roll
)

var axisNames = map[Axis]string{
	Pitch: "Pitch",
	Yaw:   "Yaw",
	Lift:  "Lift",
	Roll:  "Roll",
}

func (a Axis) String() string {
	name, ok := axisNames[a]
	if !ok {
		return fmt.Sprintf("Axis(%d)", int(a))
	}
	return name
}

// Aux identifies one of the unbounded tuning parameters.
type Aux int

const (
	P Aux = iota
	P1
	P2

	AuxCount = 3
)

func (a Aux) String() string {
	switch a {
	case P:
		return "P"
	case P1:
		return "P1"
	case P2:
		return "P2"
	}
	return fmt.Sprintf("Aux(%d)", int(a))
}

type Mode int

const (
	ModeNormal    Mode = 0
	ModeAlternate Mode = 1
)

type UpdateKind int

const (
	SetAxis UpdateKind = iota
	IncrementAxis
	IncrementAux
	SetMode
)

// Update is a single field mutation. Both listeners funnel their changes
// through Vector.Apply using these.
type Update struct {
	Kind   UpdateKind
	Axis   Axis
	Aux    Aux
	Value  float64
	Mode   Mode
	Source string
}

func SetAxisUpdate(axis Axis, value float64) Update {
	return Update{Kind: SetAxis, Axis: axis, Value: value}
}

func IncrementAxisUpdate(axis Axis, delta float64) Update {
	return Update{Kind: IncrementAxis, Axis: axis, Value: delta}
}

func IncrementAuxUpdate(aux Aux, delta float64) Update {
	return Update{Kind: IncrementAux, Aux: aux, Value: delta}
}

func SetModeUpdate(mode Mode) Update {
	return Update{Kind: SetMode, Mode: mode}
}

// Change is what an applied Update committed.
type Change struct {
	Field  string
	Value  float64
	Source string
}
