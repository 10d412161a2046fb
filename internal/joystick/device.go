package joystick

import (
	"errors"
	"fmt"

	js "github.com/0xcafed00d/joystick"

	"github.com/Speshl/gorrc_pilot/internal/models"
)

// ErrDeviceAbsent means no joystick could be opened. The app keeps running
// keyboard only.
var ErrDeviceAbsent = errors.New("no joystick detected")

// Open opens the joystick at index and reads its capabilities once.
func Open(index int) (js.Joystick, models.DeviceCapabilities, error) {
	device, err := js.Open(index)
	if err != nil {
		return nil, models.DeviceCapabilities{}, fmt.Errorf("%w: index %d: %s", ErrDeviceAbsent, index, err.Error())
	}
	return device, Capabilities(device), nil
}

// Capabilities reports zero hats, the device library reports hats as extra axes.
func Capabilities(device js.Joystick) models.DeviceCapabilities {
	if device == nil {
		return models.DeviceCapabilities{}
	}
	return models.DeviceCapabilities{
		Present: true,
		Axes:    device.AxisCount(),
		Buttons: device.ButtonCount(),
		Hats:    0,
		Name:    device.Name(),
	}
}

func CapabilityLines(caps models.DeviceCapabilities) []string {
	count := 0
	if caps.Present {
		count = 1
	}
	lines := []string{fmt.Sprintf("Number of joysticks: %d", count)}
	if !caps.Present {
		return lines
	}
	return append(lines,
		fmt.Sprintf("Joystick name: %s", caps.Name),
		fmt.Sprintf("Number of axes: %d", caps.Axes),
		fmt.Sprintf("Number of buttons: %d", caps.Buttons),
		fmt.Sprintf("Number of hats: %d", caps.Hats),
	)
}
