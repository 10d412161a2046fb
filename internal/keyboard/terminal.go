package keyboard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/term"
	"go.uber.org/multierr"

	"github.com/Speshl/gorrc_pilot/internal/models"
)

const (
	escape    = 0x1b
	interrupt = 0x03
	readSize  = 32

	// empty reads in a row returning well before the timeout mean the tty hung up
	hangupReads = 8
)

// openMode keeps output processing and signal keys on, so lines written while
// the keyboard is live still start at column 0 and Ctrl-C raises SIGINT.
var openMode = term.CBreakMode

var arrowKeys = map[byte]models.Key{
	'A': models.KeyUp,
	'B': models.KeyDown,
	'C': models.KeyRight,
	'D': models.KeyLeft,
}

type rawTerminal interface {
	Read(b []byte) (int, error)
	Restore() error
	Close() error
}

// TerminalSource reads keys from a tty in cbreak mode. Reads time out so the
// stream notices cancellation. A terminal reports presses only.
type TerminalSource struct {
	device      string
	term        rawTerminal
	readTimeout time.Duration
	clock       clock.Clock
}

func OpenTerminal(device string, readTimeout time.Duration) (*TerminalSource, error) {
	t, err := term.Open(device, openMode)
	if err != nil {
		return nil, fmt.Errorf("failed opening terminal %s: %w", device, err)
	}

	err = t.SetReadTimeout(readTimeout)
	if err != nil {
		return nil, multierr.Append(
			fmt.Errorf("failed setting terminal read timeout: %w", err),
			multierr.Append(t.Restore(), t.Close()),
		)
	}
	return newTerminalSource(device, t, readTimeout, clock.New()), nil
}

// newTerminalSource skips hangup detection when readTimeout is zero.
func newTerminalSource(device string, t rawTerminal, readTimeout time.Duration, clk clock.Clock) *TerminalSource {
	return &TerminalSource{
		device:      device,
		term:        t,
		readTimeout: readTimeout,
		clock:       clk,
	}
}

func (s *TerminalSource) Stream(ctx context.Context, events chan<- models.KeyEvent) error {
	defer close(events)

	buf := make([]byte, readSize)
	fastReads := 0
	for {
		if ctx.Err() != nil {
			return nil
		}

		start := s.clock.Now()
		n, err := s.term.Read(buf)
		if err != nil && !(errors.Is(err, io.EOF) && n == 0) {
			return fmt.Errorf("%w: terminal %s: %s", models.ErrEventSourceClosed, s.device, err.Error())
		}
		if n == 0 {
			if s.readTimeout > 0 && s.clock.Since(start) < s.readTimeout/2 {
				fastReads++
			} else {
				fastReads = 0
			}
			if fastReads >= hangupReads {
				return fmt.Errorf("%w: terminal %s hung up", models.ErrEventSourceClosed, s.device)
			}
			continue // read timeout
		}
		fastReads = 0

		now := s.clock.Now()
		for _, key := range decodeKeys(buf[:n]) {
			select {
			case events <- models.KeyEvent{Key: key, Phase: models.Press, Time: now}:
			case <-ctx.Done():
				return nil
			}
		}
	}
}

// Close puts the terminal back into the mode it was opened in.
func (s *TerminalSource) Close() error {
	return multierr.Append(s.term.Restore(), s.term.Close())
}

// decodeKeys turns terminal bytes into keys. Letters keep their case. Escape sequences other than the
// arrow keys are dropped.
func decodeKeys(buf []byte) []models.Key {
	keys := make([]models.Key, 0, len(buf))
	for i := 0; i < len(buf); i++ {
		b := buf[i]
		switch {
		case b == escape:
			if i+1 < len(buf) && (buf[i+1] == '[' || buf[i+1] == 'O') {
				end := sequenceEnd(buf, i+2)
				if end == i+2 && end < len(buf) {
					if key, ok := arrowKeys[buf[end]]; ok {
						keys = append(keys, key)
					}
				}
				i = end
				continue
			}
			keys = append(keys, models.KeyEscape)
		case b == interrupt:
			keys = append(keys, models.KeyEscape)
		case b == ' ':
			keys = append(keys, models.KeySpace)
		case b > ' ' && b < 0x7f:
			keys = append(keys, models.Key(string(b)))
		}
	}
	return keys
}

// sequenceEnd returns the index of the final byte of a control sequence whose
// parameters start at from, or the last index when the sequence is cut short.
func sequenceEnd(buf []byte, from int) int {
	for j := from; j < len(buf); j++ {
		if buf[j] >= 0x40 && buf[j] <= 0x7e {
			return j
		}
	}
	return len(buf) - 1
}
