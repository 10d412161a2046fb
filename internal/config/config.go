package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

func GetConfig() Config {
	cfg := Config{
		LogLevel:    GetStringEnv("LOGLEVEL", DefaultLogLevel),
		JoystickCfg: GetJoystickConfig(),
		KeyboardCfg: GetKeyboardConfig(),
		CommandCfg:  GetCommandConfig(),
		SerialCfg:   GetSerialConfig(),
		HudCfg:      GetHudConfig(),
	}

	log.Printf("app Config: \n%+v\n", cfg)
	return cfg
}

func GetJoystickConfig() JoystickConfig {
	envPrefix := "JOYSTICK_"
	return JoystickConfig{
		Enabled:      GetBoolEnv(envPrefix+"ENABLED", DefaultJoystickEnabled),
		Index:        GetIntEnv(envPrefix+"INDEX", DefaultJoystickIndex),
		PollInterval: GetDurationEnv(envPrefix+"POLL", DefaultJoystickPoll),
		DeadZone:     GetFloatEnv(envPrefix+"DEADZONE", DefaultJoystickDeadZone),
		StopButton:   GetIntEnv(envPrefix+"STOPBUTTON", DefaultJoystickStopButton),
	}
}

func GetKeyboardConfig() KeyboardConfig {
	envPrefix := "KEYBOARD_"
	keyboardCfg := KeyboardConfig{
		Source:            GetStringEnv(envPrefix+"SOURCE", DefaultKeyboardSource),
		Device:            GetPathEnv(envPrefix+"DEVICE", DefaultKeyboardDevice),
		PollTimeout:       GetDurationEnv(envPrefix+"POLL", DefaultKeyboardPoll),
		Modes:             GetBoolEnv(envPrefix+"MODES", DefaultKeyboardModes),
		Auxiliary:         GetBoolEnv(envPrefix+"AUXILIARY", DefaultKeyboardAuxiliary),
		LegacyReleaseExit: GetBoolEnv(envPrefix+"LEGACYRELEASEEXIT", DefaultKeyboardLegacyReleaseExit),
		Step:              GetFloatEnv(envPrefix+"STEP", DefaultKeyboardStep),
	}

	if keyboardCfg.Source == KeyboardSourceTerminal && keyboardCfg.Device == "" {
		keyboardCfg.Device = DefaultTerminalDevice
	}
	return keyboardCfg
}

func GetCommandConfig() CommandConfig {
	commandCfg := CommandConfig{
		CommandDriver: GetStringEnv("SERVODRIVER", DefaultCommandDriver),
		Address:       DefaultAddress,
		I2CDevice:     GetPathEnv("I2CDEVICE", DefaultI2CDevice),
		OutputRate:    GetDurationEnv("OUTPUT_RATE", DefaultOutputRate),
		ServoCfgs:     make([]ServoConfig, 0, MaxSupportedServos),
	}

	for i := 0; i < MaxSupportedServos; i++ {
		envPrefix := fmt.Sprintf("SERVO%d_", i)
		servoCfg := ServoConfig{
			Name:     GetStringEnv(envPrefix+"NAME", ""),
			Channel:  GetIntEnv(envPrefix+"CHANNEL", i),
			MaxPulse: float64(GetIntEnv(envPrefix+"MAXPULSE", DefaultMaxPulse)),
			MinPulse: float64(GetIntEnv(envPrefix+"MINPULSE", DefaultMinPulse)),
			Inverted: GetBoolEnv(envPrefix+"INVERTED", DefaultInverted),
			Offset:   GetIntEnv(envPrefix+"MIDOFFSET", DefaultOffset),
		}

		if servoCfg.Name != "" {
			log.Printf("found config for servo: %s\n", servoCfg.Name)
			commandCfg.ServoCfgs = append(commandCfg.ServoCfgs, servoCfg)
		}
	}
	return commandCfg
}

func GetSerialConfig() SerialConfig {
	envPrefix := "SERIAL_"
	return SerialConfig{
		Port: GetPathEnv(envPrefix+"PORT", DefaultSerialPort),
		Baud: GetIntEnv(envPrefix+"BAUD", DefaultSerialBaud),
		Rate: GetDurationEnv(envPrefix+"RATE", DefaultSerialRate),
	}
}

func GetHudConfig() HudConfig {
	envPrefix := "HUD_"
	return HudConfig{
		Enabled:        GetBoolEnv(envPrefix+"ENABLED", DefaultHudEnabled),
		StatusInterval: GetDurationEnv(envPrefix+"STATUS", DefaultHudStatus),
	}
}

func GetIntEnv(env string, defaultValue int) int {
	envValue, found := os.LookupEnv(AppEnvBase + env)
	if !found {
		return defaultValue
	} else {
		value, err := strconv.ParseInt(strings.Trim(envValue, "\r"), 10, 32)
		if err != nil {
			log.Printf("warning:%s not parsed - error: %s\n", env, err)
			return defaultValue
		} else {
			return int(value)
		}
	}
}

func GetBoolEnv(env string, defaultValue bool) bool {
	envValue, found := os.LookupEnv(AppEnvBase + env)
	if !found {
		return defaultValue
	} else {
		value, err := strconv.ParseBool(strings.Trim(envValue, "\r"))
		if err != nil {
			log.Printf("warning:%s not parsed - error: %s\n", env, err)
			return defaultValue
		} else {
			return value
		}
	}
}

func GetStringEnv(env string, defaultValue string) string {
	envValue, found := os.LookupEnv(AppEnvBase + env)
	if !found {
		return defaultValue
	} else {
		return strings.ToLower(strings.Trim(envValue, "\r"))
	}
}

// GetPathEnv is GetStringEnv without lower casing, device paths are case sensitive.
func GetPathEnv(env string, defaultValue string) string {
	envValue, found := os.LookupEnv(AppEnvBase + env)
	if !found {
		return defaultValue
	}
	return strings.Trim(envValue, "\r")
}

func GetFloatEnv(env string, defaultValue float64) float64 {
	envValue, found := os.LookupEnv(AppEnvBase + env)
	if !found {
		return defaultValue
	} else {
		value, err := strconv.ParseFloat(strings.Trim(envValue, "\r"), 64)
		if err != nil {
			log.Printf("warning:%s not parsed - error: %s\n", env, err)
			return defaultValue
		}
		return value
	}
}

func GetDurationEnv(env string, defaultValue time.Duration) time.Duration {
	envValue, found := os.LookupEnv(AppEnvBase + env)
	if !found {
		return defaultValue
	}
	value, err := time.ParseDuration(strings.Trim(envValue, "\r"))
	if err != nil {
		log.Printf("warning:%s not parsed - error: %s\n", env, err)
		return defaultValue
	}
	return value
}

// LogLevelOrDefault falls back to info when the configured level is unknown.
func (c Config) LogLevelOrDefault() log.Level {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		log.Printf("warning: unknown log level %q, using %s\n", c.LogLevel, DefaultLogLevel)
		return log.InfoLevel
	}
	return level
}
