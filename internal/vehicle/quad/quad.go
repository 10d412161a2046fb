package quad

import (
	"context"
	"fmt"
	"sync"

	"github.com/benbjohnson/clock"
	log "github.com/sirupsen/logrus"

	"github.com/Speshl/gorrc_pilot/internal/config"
	"github.com/Speshl/gorrc_pilot/internal/control"
	"github.com/Speshl/gorrc_pilot/internal/vehicle"
)

const (
	MaxOutput = control.MaxAxis
	MinOutput = control.MinAxis
)

type StateSource interface {
	State() control.State
}

// Quad pushes the latest control state to the servo driver on a fixed tick.
type Quad struct {
	cfg           config.CommandConfig
	lock          sync.RWMutex
	state         control.State
	source        StateSource
	commandDriver vehicle.CommandDriverIFace
	clock         clock.Clock
}

func NewQuad(cfg config.CommandConfig, commandDriver vehicle.CommandDriverIFace, source StateSource, clk clock.Clock) *Quad {
	if clk == nil {
		clk = clock.New()
	}
	if cfg.OutputRate <= 0 {
		cfg.OutputRate = config.DefaultOutputRate
	}
	return &Quad{
		cfg:           cfg,
		source:        source,
		commandDriver: commandDriver,
		clock:         clk,
	}
}

func (q *Quad) Init() error {
	err := q.commandDriver.Init()
	if err != nil {
		return fmt.Errorf("error: failed initializing quad command interface: %w", err)
	}

	//Center up servos
	return q.applyState(control.State{})
}

func (q *Quad) Stop() error {
	log.Println("stopping quad")
	err := q.applyState(control.State{})
	if err != nil {
		log.Printf("warning: failed centering before stop: %s\n", err.Error())
	}

	err = q.commandDriver.Stop()
	if err != nil {
		return fmt.Errorf("error: failed stopping command driver: %w", err)
	}
	return nil
}

// Start runs until ctx is done, then centers and stops the driver.
func (q *Quad) Start(ctx context.Context) error {
	log.Println("starting quad")

	commandTicker := q.clock.Ticker(q.cfg.OutputRate)
	defer commandTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Printf("stopping quad state syncer: %s\n", ctx.Err().Error())
			return q.Stop()
		case <-commandTicker.C:
			err := q.applyState(q.source.State())
			if err != nil {
				stopErr := q.Stop()
				if stopErr != nil {
					log.Println(stopErr.Error())
				}
				return fmt.Errorf("failed applying quad state: %w", err)
			}
		}
	}
}

func (q *Quad) State() control.State {
	q.lock.RLock()
	defer q.lock.RUnlock()
	return q.state
}

func (q *Quad) applyState(state control.State) error {
	q.lock.Lock()
	defer q.lock.Unlock()

	q.state = state

	commands := q.buildCommands(q.state)
	err := q.commandDriver.SetMany(commands)
	if err != nil {
		return fmt.Errorf("failed setting quad commands: %w", err)
	}

	return nil
}

func (q *Quad) buildCommands(state control.State) []vehicle.DriverCommand {
	return []vehicle.DriverCommand{
		{
			Name:  "pitch",
			Value: state.Pitch,
			Min:   MinOutput,
			Max:   MaxOutput,
		},
		{
			Name:  "yaw",
			Value: state.Yaw,
			Min:   MinOutput,
			Max:   MaxOutput,
		},
		{
			Name:  "lift",
			Value: state.Lift,
			Min:   MinOutput,
			Max:   MaxOutput,
		},
		{
			Name:  "roll",
			Value: state.Roll,
			Min:   MinOutput,
			Max:   MaxOutput,
		},
	}
}
