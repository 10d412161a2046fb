package joystick

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/Speshl/gorrc_pilot/internal/control"
	"github.com/Speshl/gorrc_pilot/internal/models"
)

const (
	Source      = "joystick"
	eventBuffer = 16
)

// AxisMap is the device axis index read for each control axis.
var AxisMap = map[control.Axis]int{
	control.Roll:  0,
	control.Pitch: 1,
	control.Yaw:   2,
	control.Lift:  3,
}

var refreshOrder = []control.Axis{control.Pitch, control.Yaw, control.Lift, control.Roll}

// Target is what the listener writes to. Apply reports false once stopped.
type Target interface {
	Apply(update control.Update) bool
	Stop(reason string) bool
	Done() <-chan struct{}
}

type EventSource interface {
	Stream(ctx context.Context, events chan<- models.JoystickEvent) error
}

type AxisReader interface {
	Axis(index int) float64
}

type Listener struct {
	caps       models.DeviceCapabilities
	source     EventSource
	axes       AxisReader
	target     Target
	stopButton int
	logger     *log.Entry
}

func NewListener(caps models.DeviceCapabilities, source EventSource, axes AxisReader, target Target, stopButton int) *Listener {
	return &Listener{
		caps:       caps,
		source:     source,
		axes:       axes,
		target:     target,
		stopButton: stopButton,
		logger:     log.WithField("listener", Source),
	}
}

func (l *Listener) Name() string {
	return Source
}

// Run returns when the stop signal is set, ctx is done or the device stops
// delivering events. A closed device only ends this listener.
func (l *Listener) Run(ctx context.Context) error {
	l.logger.Infof("starting joystick listener: %s", l.caps.Name)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan models.JoystickEvent, eventBuffer)
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return l.source.Stream(groupCtx, events)
	})
	group.Go(func() error {
		defer cancel()
		return l.consume(ctx, events)
	})

	err := group.Wait()
	if errors.Is(err, models.ErrEventSourceClosed) {
		l.logger.Warnf("joystick listener ending: %s", err.Error())
		return nil
	}
	if err != nil {
		return fmt.Errorf("joystick listener: %w", err)
	}
	l.logger.Info("joystick listener stopped")
	return nil
}

func (l *Listener) consume(ctx context.Context, events <-chan models.JoystickEvent) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-l.target.Done():
			return nil
		case event, ok := <-events:
			if !ok {
				return nil
			}
			if l.handle(event) {
				return nil
			}
		}
	}
}

// handle returns true when the listener should exit.
func (l *Listener) handle(event models.JoystickEvent) bool {
	switch event.Type {
	case models.ButtonDown:
		l.logger.Debugf("button %d down", event.Button)
		if event.Button == l.stopButton {
			l.target.Stop(fmt.Sprintf("joystick button %d", event.Button))
			return true
		}
	case models.AxisMotion:
		for _, axis := range refreshOrder {
			update := control.SetAxisUpdate(axis, l.readAxis(AxisMap[axis]))
			update.Source = Source
			if !l.target.Apply(update) {
				return true
			}
		}
	}
	return false
}

func (l *Listener) readAxis(index int) float64 {
	if index >= l.caps.Axes {
		return 0.0
	}
	return l.axes.Axis(index)
}
