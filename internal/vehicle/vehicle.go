package vehicle

import (
	"context"

	log "github.com/sirupsen/logrus"
)

type DriverCommand struct {
	Name  string
	Value float64
	Min   float64
	Max   float64
}

type CommandDriverIFace interface {
	Init() error
	Set(DriverCommand) error
	SetMany([]DriverCommand) error
	Stop() error
}

type Vehicle interface {
	Init() error
	Start(context.Context) error
}

// NoneDriver accepts every command and drives nothing, for running without
// servo hardware attached.
type NoneDriver struct{}

func NewNoneDriver() *NoneDriver {
	return &NoneDriver{}
}

func (d *NoneDriver) Init() error {
	log.Println("no servo driver configured, commands will be discarded")
	return nil
}

func (d *NoneDriver) Set(cmd DriverCommand) error {
	log.Debugf("discarding command %s: %.2f", cmd.Name, cmd.Value)
	return nil
}

func (d *NoneDriver) SetMany(cmds []DriverCommand) error {
	for i := range cmds {
		err := d.Set(cmds[i])
		if err != nil {
			return err
		}
	}
	return nil
}

func (d *NoneDriver) Stop() error {
	return nil
}
