package keyboard

import (
	"context"
	"fmt"
	"sync"

	"github.com/benbjohnson/clock"
	evdev "github.com/holoplot/go-evdev"
	log "github.com/sirupsen/logrus"

	"github.com/Speshl/gorrc_pilot/internal/models"
)

var evdevKeys = map[evdev.EvCode]models.Key{
	evdev.KEY_UP:    models.KeyUp,
	evdev.KEY_DOWN:  models.KeyDown,
	evdev.KEY_LEFT:  models.KeyLeft,
	evdev.KEY_RIGHT: models.KeyRight,
	evdev.KEY_ESC:   models.KeyEscape,
	evdev.KEY_SPACE: models.KeySpace,
	evdev.KEY_A:     KeyA,
	evdev.KEY_Z:     KeyZ,
	evdev.KEY_Q:     KeyQ,
	evdev.KEY_W:     KeyW,
	evdev.KEY_1:     KeyOne,
	evdev.KEY_0:     KeyZero,
	evdev.KEY_U:     KeyU,
	evdev.KEY_J:     KeyJ,
	evdev.KEY_I:     KeyI,
	evdev.KEY_K:     KeyK,
	evdev.KEY_O:     KeyO,
	evdev.KEY_L:     KeyL,
}

type inputDevice interface {
	ReadOne() (*evdev.InputEvent, error)
	Close() error
}

// EvdevSource reads a Linux input device, which reports both press and
// release. The device is closed to unblock a pending read on cancel.
type EvdevSource struct {
	path      string
	device    inputDevice
	clock     clock.Clock
	closeOnce sync.Once
	closeErr  error
}

// OpenEvdev opens path, or the first keyboard found when path is empty.
func OpenEvdev(path string) (*EvdevSource, error) {
	if path == "" {
		found, err := FindKeyboard()
		if err != nil {
			return nil, err
		}
		path = found
	}

	device, err := evdev.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed opening input device %s: %w", path, err)
	}

	name, err := device.Name()
	if err == nil {
		log.Printf("using keyboard %s at %s\n", name, path)
	}
	return newEvdevSource(path, device, clock.New()), nil
}

func newEvdevSource(path string, device inputDevice, clk clock.Clock) *EvdevSource {
	return &EvdevSource{
		path:   path,
		device: device,
		clock:  clk,
	}
}

// FindKeyboard returns the path of the first device that can emit KEY_A and KEY_ENTER.
func FindKeyboard() (string, error) {
	paths, err := evdev.ListDevicePaths()
	if err != nil {
		return "", fmt.Errorf("failed listing input devices: %w", err)
	}

	for _, p := range paths {
		device, err := evdev.Open(p.Path)
		if err != nil {
			continue
		}
		hasA, hasEnter := false, false
		for _, code := range device.CapableEvents(evdev.EV_KEY) {
			if code == evdev.KEY_A {
				hasA = true
			}
			if code == evdev.KEY_ENTER {
				hasEnter = true
			}
		}
		device.Close()

		if hasA && hasEnter {
			return p.Path, nil
		}
	}
	return "", fmt.Errorf("no keyboard found among %d input devices", len(paths))
}

func (s *EvdevSource) Stream(ctx context.Context, events chan<- models.KeyEvent) error {
	defer close(events)

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			s.Close()
		case <-done:
		}
	}()

	for {
		ev, err := s.device.ReadOne()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("%w: input device %s: %s", models.ErrEventSourceClosed, s.path, err.Error())
		}

		event, ok := translateEvdev(ev)
		if !ok {
			continue
		}
		event.Time = s.clock.Now()

		select {
		case events <- event:
		case <-ctx.Done():
			return nil
		}
	}
}

func (s *EvdevSource) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.device.Close()
	})
	return s.closeErr
}

// translateEvdev keeps key events only. Auto-repeat counts as a press and
// keys outside the map keep their evdev name.
func translateEvdev(ev *evdev.InputEvent) (models.KeyEvent, bool) {
	if ev == nil || ev.Type != evdev.EV_KEY {
		return models.KeyEvent{}, false
	}

	key, ok := evdevKeys[ev.Code]
	if !ok {
		key = models.Key(ev.CodeName())
	}

	phase := models.Press
	if ev.Value == 0 {
		phase = models.Release
	}
	return models.KeyEvent{Key: key, Phase: phase}, true
}
