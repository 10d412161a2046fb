package config

import "time"

const (
	MaxSupportedServos = 16
	AppEnvBase         = "GORRC_"

	DefaultLogLevel = "info"

	// Default Joystick Options
	DefaultJoystickEnabled    = true
	DefaultJoystickIndex      = 0
	DefaultJoystickPoll       = 10 * time.Millisecond
	DefaultJoystickDeadZone   = 0.0
	DefaultJoystickStopButton = 0

	// Default Keyboard Options
	DefaultKeyboardSource            = KeyboardSourceTerminal
	DefaultKeyboardDevice            = ""
	DefaultKeyboardPoll              = 100 * time.Millisecond
	DefaultKeyboardModes             = true
	DefaultKeyboardAuxiliary         = true
	DefaultKeyboardLegacyReleaseExit = false
	DefaultKeyboardStep              = 0.1
	DefaultTerminalDevice            = "/dev/tty"
	KeyboardSourceTerminal           = "terminal"
	KeyboardSourceEvdev              = "evdev"
	KeyboardSourceNone               = "none"

	// Default Command Options
	DefaultCommandDriver = CommandDriverNone
	DefaultAddress       = 0x40
	DefaultI2CDevice     = "/dev/i2c-1"
	DefaultOutputRate    = 33 * time.Millisecond
	CommandDriverNone    = "none"
	CommandDriverPCA9685 = "pca9685"
	CommandDriverPiPWM   = "pipwm"

	DefaultMaxPulse = 2250 //2000
	DefaultMinPulse = 750  //1000
	DefaultInverted = false
	DefaultOffset   = 0

	// Default Serial Options
	DefaultSerialPort = ""
	DefaultSerialBaud = 115200
	DefaultSerialRate = 50 * time.Millisecond

	// Default Hud Options
	DefaultHudEnabled = true
	DefaultHudStatus  = 1 * time.Second
)

type Config struct {
	LogLevel    string
	JoystickCfg JoystickConfig
	KeyboardCfg KeyboardConfig
	CommandCfg  CommandConfig
	SerialCfg   SerialConfig
	HudCfg      HudConfig
}

type JoystickConfig struct {
	Enabled      bool
	Index        int
	PollInterval time.Duration
	DeadZone     float64
	StopButton   int
}

type KeyboardConfig struct {
	Source            string
	Device            string
	PollTimeout       time.Duration
	Modes             bool
	Auxiliary         bool
	LegacyReleaseExit bool
	Step              float64
}

type CommandConfig struct {
	CommandDriver string
	Address       byte
	I2CDevice     string
	OutputRate    time.Duration
	ServoCfgs     []ServoConfig
}

type ServoConfig struct {
	Name     string
	Inverted bool
	Channel  int
	MaxPulse float64
	MinPulse float64
	Offset   int
}

type SerialConfig struct {
	Port string
	Baud int
	Rate time.Duration
}

type HudConfig struct {
	Enabled        bool
	StatusInterval time.Duration
}
