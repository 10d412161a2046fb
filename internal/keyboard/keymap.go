package keyboard

import (
	"github.com/Speshl/gorrc_pilot/internal/control"
	"github.com/Speshl/gorrc_pilot/internal/models"
)

const (
	KeyA    models.Key = "a"
	KeyZ    models.Key = "z"
	KeyQ    models.Key = "q"
	KeyW    models.Key = "w"
	KeyOne  models.Key = "1"
	KeyZero models.Key = "0"
	KeyU    models.Key = "u"
	KeyJ    models.Key = "j"
	KeyI    models.Key = "i"
	KeyK    models.Key = "k"
	KeyO    models.Key = "o"
	KeyL    models.Key = "l"
)

type axisStep struct {
	axis control.Axis
	sign float64
}

type auxStep struct {
	aux  control.Aux
	sign float64
}

var axisKeys = map[models.Key]axisStep{
	models.KeyUp:    {control.Pitch, 1},
	models.KeyDown:  {control.Pitch, -1},
	models.KeyLeft:  {control.Roll, 1},
	models.KeyRight: {control.Roll, -1},
	KeyA:            {control.Lift, 1},
	KeyZ:            {control.Lift, -1},
	KeyQ:            {control.Yaw, 1},
	KeyW:            {control.Yaw, -1},
}

var modeKeys = map[models.Key]control.Mode{
	KeyOne:  control.ModeAlternate,
	KeyZero: control.ModeNormal,
}

var auxKeys = map[models.Key]auxStep{
	KeyU: {control.P, 1},
	KeyJ: {control.P, -1},
	KeyI: {control.P1, 1},
	KeyK: {control.P1, -1},
	KeyO: {control.P2, 1},
	KeyL: {control.P2, -1},
}

func isStopKey(key models.Key) bool {
	return key == models.KeyEscape || key == models.KeySpace
}

// translate maps a pressed key to its update. Mode and auxiliary keys are
// unmapped when their feature is off.
func (l *Listener) translate(key models.Key) (control.Update, bool) {
	if step, ok := axisKeys[key]; ok {
		return control.IncrementAxisUpdate(step.axis, step.sign*l.cfg.Step), true
	}
	if mode, ok := modeKeys[key]; ok && l.cfg.Modes {
		return control.SetModeUpdate(mode), true
	}
	if step, ok := auxKeys[key]; ok && l.cfg.Auxiliary {
		return control.IncrementAuxUpdate(step.aux, step.sign*l.cfg.Step), true
	}
	return control.Update{}, false
}

func (l *Listener) isMapped(key models.Key) bool {
	if isStopKey(key) {
		return true
	}
	_, ok := l.translate(key)
	return ok
}
