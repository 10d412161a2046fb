package link

import (
	"context"
	"fmt"
	"io"

	"github.com/benbjohnson/clock"
	log "github.com/sirupsen/logrus"
	"go.bug.st/serial"

	"github.com/Speshl/gorrc_pilot/internal/config"
	"github.com/Speshl/gorrc_pilot/internal/control"
	"github.com/Speshl/gorrc_pilot/internal/protocol"
)

type StateSource interface {
	State() control.State
}

// Link writes the current control state as a host frame on every tick.
type Link struct {
	cfg    config.SerialConfig
	port   io.Writer
	source StateSource
	clock  clock.Clock
	sent   int
}

func OpenSerial(cfg config.SerialConfig) (serial.Port, error) {
	port, err := serial.Open(cfg.Port, &serial.Mode{BaudRate: cfg.Baud})
	if err != nil {
		return nil, fmt.Errorf("failed opening serial port %s: %w", cfg.Port, err)
	}
	log.Printf("opened serial port %s at %d baud\n", cfg.Port, cfg.Baud)
	return port, nil
}

func NewLink(cfg config.SerialConfig, port io.Writer, source StateSource, clk clock.Clock) *Link {
	if clk == nil {
		clk = clock.New()
	}
	if cfg.Rate <= 0 {
		cfg.Rate = config.DefaultSerialRate
	}
	return &Link{
		cfg:    cfg,
		port:   port,
		source: source,
		clock:  clk,
	}
}

func (l *Link) Start(ctx context.Context) error {
	log.Println("starting serial link")

	frameTicker := l.clock.Ticker(l.cfg.Rate)
	defer frameTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Printf("stopping serial link after %d frames\n", l.sent)
			return nil
		case <-frameTicker.C:
			err := l.send(l.source.State())
			if err != nil {
				return err
			}
		}
	}
}

func (l *Link) send(state control.State) error {
	frame := protocol.Encode(state)
	_, err := l.port.Write(frame[:])
	if err != nil {
		return fmt.Errorf("failed writing frame to %s: %w", l.cfg.Port, err)
	}
	l.sent++
	return nil
}
