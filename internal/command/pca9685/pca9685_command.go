package pca9685

import (
	"fmt"
	"io"

	"github.com/googolgl/go-i2c"
	"github.com/googolgl/go-pca9685"
	log "github.com/sirupsen/logrus"

	"github.com/Speshl/gorrc_pilot/internal/command"
	"github.com/Speshl/gorrc_pilot/internal/config"
	"github.com/Speshl/gorrc_pilot/internal/vehicle"
)

const (
	MaxValue = 1.0
	MinValue = 0.0
	AcRange  = pca9685.ServoRangeDef

	MaxSupportedServos = 16
)

type CommandDriver struct {
	cfg    config.CommandConfig
	bus    io.Closer
	servos map[string]Servo
	driver *pca9685.PCA9685
}

type Servo struct {
	name     string
	inverted bool
	offset   float64
	servo    *pca9685.Servo
}

func NewCommand(cfg config.CommandConfig) *CommandDriver {
	return &CommandDriver{
		cfg: cfg,
	}
}

func (c *CommandDriver) Init() error {
	bus, err := i2c.New(c.cfg.Address, c.cfg.I2CDevice)
	if err != nil {
		return fmt.Errorf("error starting i2c with address - %w", err)
	}
	c.bus = bus

	c.driver, err = pca9685.New(bus, nil)
	if err != nil {
		return fmt.Errorf("error getting servo driver - %w", err)
	}

	servos := make(map[string]Servo, MaxSupportedServos)
	for i := range c.cfg.ServoCfgs {
		name := c.cfg.ServoCfgs[i].Name
		servos[name] = Servo{
			name:     name,
			inverted: c.cfg.ServoCfgs[i].Inverted,
			offset:   float64(c.cfg.ServoCfgs[i].Offset) / 100,
			servo: c.driver.ServoNew(c.cfg.ServoCfgs[i].Channel, &pca9685.ServOptions{
				AcRange:  AcRange,
				MinPulse: float32(c.cfg.ServoCfgs[i].MinPulse),
				MaxPulse: float32(c.cfg.ServoCfgs[i].MaxPulse),
			}),
		}
		log.Printf("servo added: %s\n", name)
	}
	c.servos = servos
	c.CenterAll()
	return nil
}

func (c *CommandDriver) Stop() error {
	c.CenterAll()
	if c.bus == nil {
		return nil
	}
	err := c.bus.Close()
	if err != nil {
		return fmt.Errorf("failed closing i2c bus: %w", err)
	}
	return nil
}

func (c *CommandDriver) CenterAll() {
	log.Println("centering all servos")
	for i := range c.servos {
		err := c.servos[i].servo.Fraction(0.5)
		if err != nil {
			log.Printf("warning: failed centering %s: %s\n", i, err.Error())
		}
	}
}

func (c *CommandDriver) SetMany(cmds []vehicle.DriverCommand) error {
	for i := range cmds {
		err := c.Set(cmds[i])
		if err != nil {
			return err
		}
	}
	return nil
}

func (c *CommandDriver) Set(cmd vehicle.DriverCommand) error {
	val, ok := c.servos[cmd.Name]
	if ok {
		mappedValue := fraction(cmd, val.offset, val.inverted)
		err := val.servo.Fraction(float32(mappedValue))
		if err != nil {
			return fmt.Errorf("failed setting servo value - name: %s value: %.2f - error: %w", cmd.Name, mappedValue, err)
		}
	}
	return nil
}

// fraction maps a command onto the servo's [0, 1] travel.
func fraction(cmd vehicle.DriverCommand, offset float64, inverted bool) float64 {
	mappedValue := command.MapToRange(cmd.Value+offset, cmd.Min, cmd.Max, MinValue, MaxValue)
	if inverted {
		mappedValue = MaxValue - mappedValue
	}
	return mappedValue
}
