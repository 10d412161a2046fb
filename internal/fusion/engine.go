package fusion

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/Speshl/gorrc_pilot/internal/control"
)

const (
	ReasonInputsExhausted = "inputs exhausted"
	ReasonCanceled        = "context canceled"
)

var (
	ErrAlreadyStarted = errors.New("engine already started")
	ErrNotStarted     = errors.New("engine not started")
)

// Listener is one input device loop. Run must return once the engine's stop
// signal is set or ctx is done.
type Listener interface {
	Name() string
	Run(ctx context.Context) error
}

// Notifier is told about every committed change. It must not block.
type Notifier interface {
	Notify(change control.Change)
	Stopped(reason string)
}

// Engine owns the control vector and the stop signal. Listeners write through
// Apply and watch Done.
type Engine struct {
	id       string
	vector   *control.Vector
	stop     *control.StopSignal
	clock    clock.Clock
	notifier Notifier
	logger   *log.Entry

	// applyLock orders Apply against Stop so nothing lands after stop.
	applyLock sync.RWMutex

	lock      sync.Mutex
	started   bool
	joined    chan struct{}
	err       error
	startedAt time.Time
	stoppedAt time.Time
}

func NewEngine(clk clock.Clock, notifier Notifier) *Engine {
	if clk == nil {
		clk = clock.New()
	}
	id := uuid.New().String()
	return &Engine{
		id:       id,
		vector:   control.NewVector(),
		stop:     control.NewStopSignal(),
		clock:    clk,
		notifier: notifier,
		logger:   log.WithField("run", id),
		joined:   make(chan struct{}),
	}
}

func (e *Engine) ID() string {
	return e.id
}

// Start launches every listener. An engine with no listeners stops at once
// with ReasonInputsExhausted.
func (e *Engine) Start(ctx context.Context, listeners ...Listener) error {
	e.lock.Lock()
	defer e.lock.Unlock()

	if e.started {
		return ErrAlreadyStarted
	}
	e.started = true
	e.startedAt = e.clock.Now()

	names := make([]string, 0, len(listeners))
	for _, l := range listeners {
		names = append(names, l.Name())
	}
	e.logger.Infof("starting engine with listeners %v", names)

	runCtx, cancel := context.WithCancel(ctx)
	group, groupCtx := errgroup.WithContext(runCtx)
	for _, l := range listeners {
		listener := l
		group.Go(func() error {
			err := listener.Run(groupCtx)
			if err != nil {
				return fmt.Errorf("%s listener failed: %w", listener.Name(), err)
			}
			e.logger.Infof("%s listener done", listener.Name())
			return nil
		})
	}

	go func() {
		select {
		case <-e.stop.Done():
			cancel()
		case <-runCtx.Done():
		}
	}()

	go func() {
		err := group.Wait()

		switch {
		case err != nil && !errors.Is(err, context.Canceled):
			e.Stop(err.Error())
		case ctx.Err() != nil:
			e.Stop(ReasonCanceled)
			err = nil
		default:
			e.Stop(ReasonInputsExhausted)
			err = nil
		}
		cancel()

		e.lock.Lock()
		e.err = err
		e.stoppedAt = e.clock.Now()
		e.lock.Unlock()
		close(e.joined)
	}()
	return nil
}

// Apply commits update unless the engine is stopped. It reports whether the
// engine is still accepting updates.
func (e *Engine) Apply(update control.Update) bool {
	e.applyLock.RLock()
	defer e.applyLock.RUnlock()

	if e.stop.IsSet() {
		return false
	}

	change, err := e.vector.Apply(update)
	if err != nil {
		e.logger.Warnf("dropping update from %s: %s", update.Source, err.Error())
		return true
	}
	if e.notifier != nil {
		e.notifier.Notify(change)
	}
	return true
}

// Stop sets the stop signal. Only the first reason is kept.
func (e *Engine) Stop(reason string) bool {
	e.applyLock.Lock()
	set := e.stop.Set(reason)
	e.applyLock.Unlock()

	if set {
		e.logger.Infof("stop requested: %s", reason)
		if e.notifier != nil {
			e.notifier.Stopped(reason)
		}
	}
	return set
}

func (e *Engine) IsStopped() bool {
	return e.stop.IsSet()
}

func (e *Engine) StopReason() string {
	return e.stop.Reason()
}

func (e *Engine) Done() <-chan struct{} {
	return e.stop.Done()
}

// Join blocks until every listener has returned.
func (e *Engine) Join() error {
	e.lock.Lock()
	started := e.started
	e.lock.Unlock()
	if !started {
		return ErrNotStarted
	}

	<-e.joined

	e.lock.Lock()
	defer e.lock.Unlock()
	e.logger.Infof("engine joined after %s", e.stoppedAt.Sub(e.startedAt))
	return e.err
}

// FinalSnapshot is fixed once the engine has stopped.
func (e *Engine) FinalSnapshot() control.Axes {
	return e.vector.Snapshot()
}

func (e *Engine) State() control.State {
	return e.vector.State()
}
