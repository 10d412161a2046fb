package models

import (
	"errors"
	"time"
)

// ErrEventSourceClosed is returned when an input device stops delivering events.
var ErrEventSourceClosed = errors.New("event source closed")

type Key string

const (
	KeyUp     Key = "up"
	KeyDown   Key = "down"
	KeyLeft   Key = "left"
	KeyRight  Key = "right"
	KeyEscape Key = "esc"
	KeySpace  Key = "space"
)

type KeyPhase int

const (
	Press KeyPhase = iota
	Release
)

func (p KeyPhase) String() string {
	switch p {
	case Press:
		return "press"
	case Release:
		return "release"
	}
	return "unknown"
}

type KeyEvent struct {
	Key   Key
	Phase KeyPhase
	Time  time.Time
}

type JoystickEventType int

const (
	ButtonDown JoystickEventType = iota
	AxisMotion
)

func (t JoystickEventType) String() string {
	switch t {
	case ButtonDown:
		return "button_down"
	case AxisMotion:
		return "axis_motion"
	}
	return "unknown"
}

// JoystickEvent carries no axis values. An AxisMotion event means the
// listener should re-read every mapped axis.
type JoystickEvent struct {
	Type   JoystickEventType
	Button int
	Time   time.Time
}

// DeviceCapabilities is captured once when the joystick is opened.
type DeviceCapabilities struct {
	Present bool
	Axes    int
	Buttons int
	Hats    int
	Name    string
}

type Hud struct {
	Lines []string `json:"lines"`
}
