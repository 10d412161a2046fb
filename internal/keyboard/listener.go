package keyboard

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/Speshl/gorrc_pilot/internal/config"
	"github.com/Speshl/gorrc_pilot/internal/control"
	"github.com/Speshl/gorrc_pilot/internal/models"
)

const (
	Source      = "keyboard"
	eventBuffer = 16
)

// Target is what the listener writes to. Apply reports false once stopped.
type Target interface {
	Apply(update control.Update) bool
	Stop(reason string) bool
	Done() <-chan struct{}
}

// KeySource delivers key events until ctx is done or the device goes away.
// It closes events on return.
type KeySource interface {
	Stream(ctx context.Context, events chan<- models.KeyEvent) error
}

type Listener struct {
	cfg    config.KeyboardConfig
	source KeySource
	target Target
	logger *log.Entry
}

func NewListener(cfg config.KeyboardConfig, source KeySource, target Target) *Listener {
	if cfg.Step <= 0 {
		cfg.Step = config.DefaultKeyboardStep
	}
	return &Listener{
		cfg:    cfg,
		source: source,
		target: target,
		logger: log.WithField("listener", Source),
	}
}

func (l *Listener) Name() string {
	return Source
}

// Run returns when a stop key is pressed, the stop signal is set elsewhere,
// ctx is done or the key source closes.
func (l *Listener) Run(ctx context.Context) error {
	l.logger.Info("starting keyboard listener")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan models.KeyEvent, eventBuffer)
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
		l.logger.Warnf("keyboard listener ending: %s", err.Error())
		return nil
	}
	if err != nil {
		return fmt.Errorf("keyboard listener: %w", err)
	}
	l.logger.Info("keyboard listener stopped")
	return nil
}

func (l *Listener) consume(ctx context.Context, events <-chan models.KeyEvent) error {
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
func (l *Listener) handle(event models.KeyEvent) bool {
	if event.Phase == models.Release {
		if l.cfg.LegacyReleaseExit && !l.isMapped(event.Key) {
			l.logger.Infof("release of unmapped key %q, exiting", event.Key)
			return true
		}
		return false
	}

	if isStopKey(event.Key) {
		l.target.Stop(fmt.Sprintf("keyboard %s", event.Key))
		return true
	}

	update, ok := l.translate(event.Key)
	if !ok {
		l.logger.Debugf("ignoring unmapped key %q", event.Key)
		return false
	}
	update.Source = Source
	return !l.target.Apply(update)
}
