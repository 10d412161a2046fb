package hud

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Speshl/gorrc_pilot/internal/config"
	"github.com/Speshl/gorrc_pilot/internal/control"
)

type syncBuffer struct {
	lock sync.Mutex
	buf  bytes.Buffer
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.buf.Write(p)
}

func (s *syncBuffer) String() string {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.buf.String()
}

func TestFormatChange(t *testing.T) {
	assert.Equal(t, "Pitch: 0.3", FormatChange(control.Change{Field: "Pitch", Value: 0.3}))
	assert.Equal(t, "Roll: -0.42", FormatChange(control.Change{Field: "Roll", Value: -0.42}))
	assert.Equal(t, "Lift: 0", FormatChange(control.Change{Field: "Lift", Value: 0}))
	assert.Equal(t, "P1: 5", FormatChange(control.Change{Field: "P1", Value: 5}))
	assert.Equal(t, "Mode: 1", FormatChange(control.Change{Field: "Mode", Value: 1}))
}

func TestLinesAreDrainedOnShutdown(t *testing.T) {
	out := &syncBuffer{}
	h := NewHud(config.HudConfig{Enabled: true}, out, clock.NewMock())

	h.Notify(control.Change{Field: "Pitch", Value: 0.1})
	h.Notify(control.Change{Field: "Mode", Value: 1})
	h.Stopped("keyboard esc")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, h.Start(ctx, control.NewVector()))

	assert.Equal(t, "Pitch: 0.1\nMode: 1\nStop: keyboard esc\n", out.String())
}

func TestStatusLine(t *testing.T) {
	vector := control.NewVector()
	_, err := vector.SetAxis(control.Pitch, 0.5)
	require.NoError(t, err)
	_, err = vector.IncrementAuxiliary(control.P2, -0.3)
	require.NoError(t, err)

	out := &syncBuffer{}
	mock := clock.NewMock()
	h := NewHud(config.HudConfig{Enabled: true, StatusInterval: time.Second}, out, mock)
	h.stats = func() (float64, int, error) { return 1.5, 2 * 1024 * 1024, nil }

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- h.Start(ctx, vector) }()

	assert.Eventually(t, func() bool {
		mock.Add(time.Second)
		return strings.Contains(out.String(), "Cpu:1.50s")
	}, time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-done)

	text := out.String()
	assert.Contains(t, text, "Pitch:0.50 | Yaw:0.00 | Lift:0.00 | Roll:0.00 | Mode:0")
	assert.Contains(t, text, "P:0.0 | P1:0.0 | P2:-0.3 | Cpu:1.50s | Rss:2.0MB")
}

func TestPublishNeverBlocks(t *testing.T) {
	h := NewHud(config.HudConfig{}, &syncBuffer{}, clock.NewMock())

	finished := make(chan struct{})
	go func() {
		for i := 0; i < hudBuffer*2; i++ {
			h.Notify(control.Change{Field: "Yaw", Value: 0.1})
		}
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a full hud channel")
	}
	assert.Len(t, h.hudChannel, hudBuffer)
}
