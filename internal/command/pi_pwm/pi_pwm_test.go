package pipwm

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Speshl/gorrc_pilot/internal/config"
	"github.com/Speshl/gorrc_pilot/internal/vehicle"
)

func TestDutyLength(t *testing.T) {
	servo := Servo{name: "pitch", minValue: 1000, maxValue: 2000}
	cmd := vehicle.DriverCommand{Name: "pitch", Min: -1, Max: 1}

	assert.Equal(t, uint32(1500), dutyLength(cmd, servo))

	cmd.Value = 1
	assert.Equal(t, uint32(2000), dutyLength(cmd, servo))

	cmd.Value = -0.5
	assert.Equal(t, uint32(1250), dutyLength(cmd, servo))

	servo.inverted = true
	assert.Equal(t, uint32(1750), dutyLength(cmd, servo))

	servo.inverted = false
	servo.offset = 0.1
	cmd.Value = 0
	assert.Equal(t, uint32(1550), dutyLength(cmd, servo))
}

func TestSetIgnoresUnknownServo(t *testing.T) {
	driver := NewCommand(config.CommandConfig{})
	assert.NoError(t, driver.SetMany([]vehicle.DriverCommand{{Name: "yaw", Value: 0.2, Min: -1, Max: 1}}))
}
