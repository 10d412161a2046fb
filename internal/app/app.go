package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/benbjohnson/clock"
	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	pca9685 "github.com/Speshl/gorrc_pilot/internal/command/pca9685"
	pipwm "github.com/Speshl/gorrc_pilot/internal/command/pi_pwm"
	"github.com/Speshl/gorrc_pilot/internal/config"
	"github.com/Speshl/gorrc_pilot/internal/fusion"
	"github.com/Speshl/gorrc_pilot/internal/hud"
	"github.com/Speshl/gorrc_pilot/internal/joystick"
	"github.com/Speshl/gorrc_pilot/internal/keyboard"
	"github.com/Speshl/gorrc_pilot/internal/link"
	"github.com/Speshl/gorrc_pilot/internal/models"
	"github.com/Speshl/gorrc_pilot/internal/vehicle"
	"github.com/Speshl/gorrc_pilot/internal/vehicle/quad"
)

const ReasonOutputStopped = "outputs stopped"

type App struct {
	ctx       context.Context
	ctxCancel context.CancelFunc

	Cfg config.Config

	out   io.Writer
	clock clock.Clock

	engine    *fusion.Engine
	hud       *hud.Hud
	quad      *quad.Quad
	link      *link.Link
	listeners []fusion.Listener
	closers   []io.Closer
}

func NewApp(cfg config.Config) *App {
	ctx, cancel := context.WithCancel(context.Background())
	log.SetLevel(cfg.LogLevelOrDefault())

	return &App{
		Cfg:       cfg,
		ctx:       ctx,
		ctxCancel: cancel,
		out:       os.Stdout,
		clock:     clock.New(),
	}
}

// Stop cancels the run. Listeners exit and Start returns once outputs have centered.
func (a *App) Stop() {
	a.ctxCancel()
}

func (a *App) Start() error {
	log.Println("starting...")
	defer a.ctxCancel()

	err := a.setup()
	if err != nil {
		return multierr.Append(fmt.Errorf("failed setting up: %w", err), a.abort())
	}

	err = a.engine.Start(a.ctx, a.listeners...)
	if err != nil {
		return multierr.Append(fmt.Errorf("failed starting engine: %w", err), a.abort())
	}
	logger := log.WithField("run", a.engine.ID())

	outputCtx, outputCancel := context.WithCancel(a.ctx)
	defer outputCancel()
	group, groupCtx := errgroup.WithContext(outputCtx)

	//kill listener
	group.Go(func() error {
		signalChannel := make(chan os.Signal, 1)
		signal.Notify(signalChannel, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(signalChannel)

		select {
		case sig := <-signalChannel:
			log.Printf("received signal: %s\n", sig)
			a.engine.Stop(fmt.Sprintf("signal %s", sig))
			return nil
		case <-groupCtx.Done():
			log.Debug("closing signal goroutine")
			return nil
		}
	})

	if a.hud != nil {
		group.Go(func() error {
			return a.hud.Start(groupCtx, a.engine)
		})
	}

	if a.quad != nil {
		group.Go(func() error {
			return a.quad.Start(groupCtx)
		})
	}

	if a.link != nil {
		group.Go(func() error {
			err := a.link.Start(groupCtx)
			if err != nil {
				logger.Printf("warning: serial link stopped: %s\n", err.Error())
			}
			return nil
		})
	}

	// a failed actuator leaves nothing to steer
	go func() {
		<-groupCtx.Done()
		a.engine.Stop(ReasonOutputStopped)
	}()

	joinErr := a.engine.Join()
	outputCancel()
	groupErr := group.Wait()

	a.report()

	err = multierr.Combine(joinErr, groupErr, a.close())
	if err != nil {
		if errors.Is(err, context.Canceled) {
			log.Println("context was cancelled")
			return nil
		}
		return fmt.Errorf("pilot stopping due to error - %w", err)
	}
	logger.Println("shutting down")
	return nil
}

func (a *App) setup() error {
	a.hud = nil
	notifier := fusion.Notifier(nil)
	if a.Cfg.HudCfg.Enabled {
		a.hud = hud.NewHud(a.Cfg.HudCfg, a.out, a.clock)
		notifier = a.hud
	}
	a.engine = fusion.NewEngine(a.clock, notifier)

	err := a.setupJoystick()
	if err != nil {
		return err
	}

	err = a.setupKeyboard()
	if err != nil {
		return err
	}

	driver, err := NewCommandDriver(a.Cfg.CommandCfg)
	if err != nil {
		return err
	}
	a.quad = quad.NewQuad(a.Cfg.CommandCfg, driver, a.engine, a.clock)
	err = a.quad.Init()
	if err != nil {
		a.quad = nil
		return fmt.Errorf("failed initializing quad: %w", err)
	}

	if a.Cfg.SerialCfg.Port != "" {
		port, err := link.OpenSerial(a.Cfg.SerialCfg)
		if err != nil {
			return err
		}
		a.closers = append(a.closers, port)
		a.link = link.NewLink(a.Cfg.SerialCfg, port, a.engine, a.clock)
	}
	return nil
}

func (a *App) setupJoystick() error {
	caps := models.DeviceCapabilities{}
	defer func() {
		for _, line := range joystick.CapabilityLines(caps) {
			fmt.Fprintln(a.out, line)
		}
	}()

	if !a.Cfg.JoystickCfg.Enabled {
		log.Println("joystick disabled")
		return nil
	}

	device, deviceCaps, err := joystick.Open(a.Cfg.JoystickCfg.Index)
	if err != nil {
		if errors.Is(err, joystick.ErrDeviceAbsent) {
			log.Printf("warning: %s, running keyboard only\n", err.Error())
			return nil
		}
		return fmt.Errorf("failed opening joystick: %w", err)
	}
	caps = deviceCaps
	a.closers = append(a.closers, closerFunc(func() error {
		device.Close()
		return nil
	}))

	poller := joystick.NewPoller(device, a.Cfg.JoystickCfg.PollInterval, a.Cfg.JoystickCfg.DeadZone, a.clock)
	a.listeners = append(a.listeners, joystick.NewListener(caps, poller, poller, a.engine, a.Cfg.JoystickCfg.StopButton))
	return nil
}

func (a *App) setupKeyboard() error {
	keyboardCfg := a.Cfg.KeyboardCfg

	switch keyboardCfg.Source {
	case config.KeyboardSourceNone:
		log.Println("keyboard disabled")
		return nil
	case config.KeyboardSourceTerminal:
		source, err := keyboard.OpenTerminal(keyboardCfg.Device, keyboardCfg.PollTimeout)
		if err != nil {
			return err
		}
		a.closers = append(a.closers, source)
		a.listeners = append(a.listeners, keyboard.NewListener(keyboardCfg, source, a.engine))
	case config.KeyboardSourceEvdev:
		source, err := keyboard.OpenEvdev(keyboardCfg.Device)
		if err != nil {
			return err
		}
		a.closers = append(a.closers, source)
		a.listeners = append(a.listeners, keyboard.NewListener(keyboardCfg, source, a.engine))
	default:
		return fmt.Errorf("unsupported keyboard source: %s", keyboardCfg.Source)
	}
	return nil
}

// NewCommandDriver picks the servo driver named in the config.
func NewCommandDriver(cfg config.CommandConfig) (vehicle.CommandDriverIFace, error) {
	switch cfg.CommandDriver {
	case config.CommandDriverNone, "":
		return vehicle.NewNoneDriver(), nil
	case config.CommandDriverPCA9685:
		return pca9685.NewCommand(cfg), nil
	case config.CommandDriverPiPWM:
		return pipwm.NewCommand(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported command driver: %s", cfg.CommandDriver)
	}
}

func (a *App) report() {
	snapshot := a.engine.FinalSnapshot()
	log.WithFields(log.Fields{
		"run":    a.engine.ID(),
		"reason": a.engine.StopReason(),
		"pitch":  snapshot.Pitch,
		"yaw":    snapshot.Yaw,
		"lift":   snapshot.Lift,
		"roll":   snapshot.Roll,
	}).Info("final control state")
}

// abort releases everything setup opened when the run never started.
func (a *App) abort() error {
	var err error
	if a.quad != nil {
		err = a.quad.Stop()
	}
	return multierr.Append(err, a.close())
}

func (a *App) close() error {
	var err error
	for i := len(a.closers) - 1; i >= 0; i-- {
		err = multierr.Append(err, a.closers[i].Close())
	}
	a.closers = nil
	return err
}

type closerFunc func() error

func (f closerFunc) Close() error {
	return f()
}
