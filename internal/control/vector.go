package control

import (
	"fmt"
	"sync"
)

// Axes is a point in time read of the four primary axes.
type Axes struct {
	Pitch float64
	Yaw   float64
	Lift  float64
	Roll  float64
}

// State is the whole control vector.
type State struct {
	Axes
	Aux  [AuxCount]float64
	Mode Mode
}

// Vector is the shared control vector. Every write and read takes the same
// lock, so snapshots are consistent across all fields, not only per field.
type Vector struct {
	lock  sync.RWMutex
	state State
}

func NewVector() *Vector {
	return &Vector{}
}

// SetAxis is the absolute joystick path.
func (v *Vector) SetAxis(axis Axis, value float64) (float64, error) {
	v.lock.Lock()
	defer v.lock.Unlock()

	field, err := v.axisField(axis)
	if err != nil {
		return 0, err
	}
	*field = DirectAxisSet(value)
	return *field, nil
}

// IncrementAxis is the keyboard path. The result always stays in [-1, 1].
func (v *Vector) IncrementAxis(axis Axis, delta float64) (float64, error) {
	v.lock.Lock()
	defer v.lock.Unlock()

	field, err := v.axisField(axis)
	if err != nil {
		return 0, err
	}
	*field = ClampedIncrement(*field, delta, MinAxis, MaxAxis)
	return *field, nil
}

func (v *Vector) IncrementAuxiliary(aux Aux, delta float64) (float64, error) {
	if aux < 0 || aux >= AuxCount {
		return 0, fmt.Errorf("unknown auxiliary parameter: %d", int(aux))
	}

	v.lock.Lock()
	defer v.lock.Unlock()

	v.state.Aux[aux] = UnboundedIncrement(v.state.Aux[aux], delta)
	return v.state.Aux[aux], nil
}

func (v *Vector) SetMode(mode Mode) {
	v.lock.Lock()
	defer v.lock.Unlock()
	v.state.Mode = mode
}

// Apply dispatches an Update to the matching mutation.
func (v *Vector) Apply(update Update) (Change, error) {
	change := Change{Source: update.Source}

	var err error
	switch update.Kind {
	case SetAxis:
		change.Field = update.Axis.String()
		change.Value, err = v.SetAxis(update.Axis, update.Value)
	case IncrementAxis:
		change.Field = update.Axis.String()
		change.Value, err = v.IncrementAxis(update.Axis, update.Value)
	case IncrementAux:
		change.Field = update.Aux.String()
		change.Value, err = v.IncrementAuxiliary(update.Aux, update.Value)
	case SetMode:
		v.SetMode(update.Mode)
		change.Field = "Mode"
		change.Value = float64(update.Mode)
	default:
		err = fmt.Errorf("unknown update kind: %d", int(update.Kind))
	}
	if err != nil {
		return Change{}, err
	}
	return change, nil
}

func (v *Vector) Snapshot() Axes {
	v.lock.RLock()
	defer v.lock.RUnlock()
	return v.state.Axes
}

func (v *Vector) State() State {
	v.lock.RLock()
	defer v.lock.RUnlock()
	return v.state
}

// caller must hold the write lock
func (v *Vector) axisField(axis Axis) (*float64, error) {
	switch axis {
	case Pitch:
		return &v.state.Pitch, nil
	case Yaw:
		return &v.state.Yaw, nil
	case Lift:
		return &v.state.Lift, nil
	case Roll:
		return &v.state.Roll, nil
	}
	return nil, fmt.Errorf("unknown axis: %d", int(axis))
}
