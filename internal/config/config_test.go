package config

import (
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := GetConfig()

	assert.True(t, cfg.JoystickCfg.Enabled)
	assert.Equal(t, DefaultJoystickPoll, cfg.JoystickCfg.PollInterval)
	assert.Equal(t, 0, cfg.JoystickCfg.StopButton)
	assert.Equal(t, KeyboardSourceTerminal, cfg.KeyboardCfg.Source)
	assert.Equal(t, DefaultTerminalDevice, cfg.KeyboardCfg.Device)
	assert.Equal(t, 0.1, cfg.KeyboardCfg.Step)
	assert.True(t, cfg.KeyboardCfg.Modes)
	assert.True(t, cfg.KeyboardCfg.Auxiliary)
	assert.False(t, cfg.KeyboardCfg.LegacyReleaseExit)
	assert.Equal(t, CommandDriverNone, cfg.CommandCfg.CommandDriver)
	assert.Empty(t, cfg.CommandCfg.ServoCfgs)
	assert.Equal(t, "", cfg.SerialCfg.Port)
	assert.Equal(t, log.InfoLevel, cfg.LogLevelOrDefault())
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("GORRC_JOYSTICK_ENABLED", "false")
	t.Setenv("GORRC_JOYSTICK_POLL", "25ms")
	t.Setenv("GORRC_JOYSTICK_DEADZONE", "0.05")
	t.Setenv("GORRC_KEYBOARD_SOURCE", "EVDEV")
	t.Setenv("GORRC_KEYBOARD_DEVICE", "/dev/input/by-id/Kbd-Event")
	t.Setenv("GORRC_KEYBOARD_AUXILIARY", "false")
	t.Setenv("GORRC_SERVO0_NAME", "pitch")
	t.Setenv("GORRC_SERVO0_CHANNEL", "3")
	t.Setenv("GORRC_SERVO1_NAME", "roll")
	t.Setenv("GORRC_SERVO1_INVERTED", "true")
	t.Setenv("GORRC_SERIAL_PORT", "/dev/ttyACM0")
	t.Setenv("GORRC_LOGLEVEL", "debug")

	cfg := GetConfig()

	assert.False(t, cfg.JoystickCfg.Enabled)
	assert.Equal(t, 25*time.Millisecond, cfg.JoystickCfg.PollInterval)
	assert.Equal(t, 0.05, cfg.JoystickCfg.DeadZone)
	assert.Equal(t, KeyboardSourceEvdev, cfg.KeyboardCfg.Source)
	assert.Equal(t, "/dev/input/by-id/Kbd-Event", cfg.KeyboardCfg.Device)
	assert.False(t, cfg.KeyboardCfg.Auxiliary)
	assert.Equal(t, "/dev/ttyACM0", cfg.SerialCfg.Port)
	assert.Equal(t, log.DebugLevel, cfg.LogLevelOrDefault())

	require.Len(t, cfg.CommandCfg.ServoCfgs, 2)
	assert.Equal(t, "pitch", cfg.CommandCfg.ServoCfgs[0].Name)
	assert.Equal(t, 3, cfg.CommandCfg.ServoCfgs[0].Channel)
	assert.Equal(t, "roll", cfg.CommandCfg.ServoCfgs[1].Name)
	assert.Equal(t, 1, cfg.CommandCfg.ServoCfgs[1].Channel)
	assert.True(t, cfg.CommandCfg.ServoCfgs[1].Inverted)
}

func TestBadValuesFallBack(t *testing.T) {
	t.Setenv("GORRC_JOYSTICK_INDEX", "two")
	t.Setenv("GORRC_JOYSTICK_POLL", "fast")
	t.Setenv("GORRC_KEYBOARD_STEP", "big")
	t.Setenv("GORRC_HUD_ENABLED", "maybe")
	t.Setenv("GORRC_LOGLEVEL", "loud")

	cfg := GetConfig()

	assert.Equal(t, DefaultJoystickIndex, cfg.JoystickCfg.Index)
	assert.Equal(t, DefaultJoystickPoll, cfg.JoystickCfg.PollInterval)
	assert.Equal(t, DefaultKeyboardStep, cfg.KeyboardCfg.Step)
	assert.Equal(t, DefaultHudEnabled, cfg.HudCfg.Enabled)
	assert.Equal(t, log.InfoLevel, cfg.LogLevelOrDefault())
}
