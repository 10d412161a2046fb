package hud

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/prometheus/procfs"
	log "github.com/sirupsen/logrus"

	"github.com/Speshl/gorrc_pilot/internal/config"
	"github.com/Speshl/gorrc_pilot/internal/control"
	"github.com/Speshl/gorrc_pilot/internal/models"
)

const hudBuffer = 100

type StateReader interface {
	State() control.State
}

// ProcStats returns cpu seconds and resident bytes for the running process.
type ProcStats func() (float64, int, error)

// Hud prints a line per committed change plus a periodic status line. Publishing
// never blocks the caller; lines are dropped when the buffer is full.
type Hud struct {
	cfg        config.HudConfig
	hudChannel chan models.Hud
	out        io.Writer
	stats      ProcStats
	clock      clock.Clock
}

func NewHud(cfg config.HudConfig, out io.Writer, clk clock.Clock) *Hud {
	if clk == nil {
		clk = clock.New()
	}
	return &Hud{
		cfg:        cfg,
		hudChannel: make(chan models.Hud, hudBuffer),
		out:        out,
		stats:      SelfStats,
		clock:      clk,
	}
}

func SelfStats() (float64, int, error) {
	p, err := procfs.Self()
	if err != nil {
		return 0, 0, fmt.Errorf("failed getting process: %w", err)
	}
	stat, err := p.Stat()
	if err != nil {
		return 0, 0, fmt.Errorf("failed getting process stat: %w", err)
	}
	return stat.CPUTime(), stat.ResidentMemory(), nil
}

func (h *Hud) Notify(change control.Change) {
	h.publish(models.Hud{Lines: []string{FormatChange(change)}})
}

func (h *Hud) Stopped(reason string) {
	h.publish(models.Hud{Lines: []string{fmt.Sprintf("Stop: %s", reason)}})
}

func (h *Hud) publish(hud models.Hud) {
	select {
	case h.hudChannel <- hud:
	default:
		log.Println("hud channel full, skipping")
	}
}

// Start prints published lines until ctx is done. state feeds the status line.
func (h *Hud) Start(ctx context.Context, state StateReader) error {
	log.Println("starting hud")

	var statusC <-chan time.Time
	if h.cfg.StatusInterval > 0 {
		statusTicker := h.clock.Ticker(h.cfg.StatusInterval)
		defer statusTicker.Stop()
		statusC = statusTicker.C
	}

	for {
		select {
		case <-ctx.Done():
			h.drain()
			log.Println("stopping hud")
			return nil
		case hud := <-h.hudChannel:
			h.write(hud)
		case <-statusC:
			h.write(h.status(state.State()))
		}
	}
}

func (h *Hud) drain() {
	for {
		select {
		case hud := <-h.hudChannel:
			h.write(hud)
		default:
			return
		}
	}
}

func (h *Hud) write(hud models.Hud) {
	for _, line := range hud.Lines {
		_, err := fmt.Fprintln(h.out, line)
		if err != nil {
			log.Printf("error: failed writing hud: %s\n", err.Error())
			return
		}
	}
}

func (h *Hud) status(state control.State) models.Hud {
	lines := make([]string, 2)

	lines[0] = fmt.Sprintf("Pitch:%.2f | Yaw:%.2f | Lift:%.2f | Roll:%.2f | Mode:%d",
		state.Pitch,
		state.Yaw,
		state.Lift,
		state.Roll,
		int(state.Mode),
	)

	cpu, rss, err := h.stats()
	if err != nil {
		log.Debugf("no process stats: %s", err.Error())
	}
	lines[1] = fmt.Sprintf("P:%.1f | P1:%.1f | P2:%.1f | Cpu:%.2fs | Rss:%.1fMB",
		state.Aux[control.P],
		state.Aux[control.P1],
		state.Aux[control.P2],
		cpu,
		float64(rss)/(1024*1024),
	)

	return models.Hud{
		Lines: lines,
	}
}

// FormatChange renders a change as "Pitch: 0.3". Mode prints as an integer.
func FormatChange(change control.Change) string {
	if change.Field == "Mode" {
		return fmt.Sprintf("Mode: %d", int(change.Value))
	}
	return fmt.Sprintf("%s: %s", change.Field, strconv.FormatFloat(change.Value, 'f', -1, 64))
}
