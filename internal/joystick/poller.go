package joystick

import (
	"context"
	"fmt"
	"sync"
	"time"

	js "github.com/0xcafed00d/joystick"
	"github.com/benbjohnson/clock"
	log "github.com/sirupsen/logrus"

	"github.com/Speshl/gorrc_pilot/internal/control"
	"github.com/Speshl/gorrc_pilot/internal/models"
)

const (
	axisScale   = 32767.0
	maxButtons  = 32
	DefaultPoll = 10 * time.Millisecond
)

// Poller turns the polled device state into discrete events and keeps the
// latest normalized axis values for the listener to re-read.
type Poller struct {
	device   js.Joystick
	interval time.Duration
	deadZone float64
	clock    clock.Clock

	lock    sync.RWMutex
	axes    []float64
	buttons uint32
}

func NewPoller(device js.Joystick, interval time.Duration, deadZone float64, clk clock.Clock) *Poller {
	if interval <= 0 {
		interval = DefaultPoll
	}
	if clk == nil {
		clk = clock.New()
	}
	return &Poller{
		device:   device,
		interval: interval,
		deadZone: deadZone,
		clock:    clk,
	}
}

// Axis returns 0 for axes the device does not have.
func (p *Poller) Axis(index int) float64 {
	p.lock.RLock()
	defer p.lock.RUnlock()

	if index < 0 || index >= len(p.axes) {
		return 0.0
	}
	return p.axes[index]
}

// Stream polls until ctx is done or the device read fails. events is closed on return.
func (p *Poller) Stream(ctx context.Context, events chan<- models.JoystickEvent) error {
	defer close(events)

	ticker := p.clock.Ticker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			state, err := p.device.Read()
			if err != nil {
				return fmt.Errorf("%w: joystick read: %s", models.ErrEventSourceClosed, err.Error())
			}

			for _, event := range p.update(state) {
				select {
				case events <- event:
				case <-ctx.Done():
					return nil
				}
			}
		}
	}
}

func (p *Poller) update(state js.State) []models.JoystickEvent {
	p.lock.Lock()
	defer p.lock.Unlock()

	now := p.clock.Now()
	events := make([]models.JoystickEvent, 0, 2)

	pressed := state.Buttons &^ p.buttons
	for i := 0; i < maxButtons; i++ {
		if pressed&(1<<uint(i)) != 0 {
			events = append(events, models.JoystickEvent{Type: models.ButtonDown, Button: i, Time: now})
		}
	}
	p.buttons = state.Buttons

	moved := len(state.AxisData) != len(p.axes)
	if moved {
		p.axes = make([]float64, len(state.AxisData))
	}
	for i, raw := range state.AxisData {
		value := p.normalize(raw)
		if value != p.axes[i] {
			moved = true
			p.axes[i] = value
		}
	}
	if moved {
		events = append(events, models.JoystickEvent{Type: models.AxisMotion, Time: now})
	}
	return events
}

func (p *Poller) normalize(raw int) float64 {
	value := float64(raw) / axisScale
	if value > control.MaxAxis || value < control.MinAxis {
		log.WithField("raw", raw).Debug("joystick sample out of range, clamping")
		value = control.Clamp(value, control.MinAxis, control.MaxAxis)
	}
	return control.MidDeadZone(value, 0, p.deadZone)
}
