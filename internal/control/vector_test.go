package control

import (
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIncrementAxisNineStepsThenClamp(t *testing.T) {
	v := NewVector()
	for i := 0; i < 9; i++ {
		_, err := v.IncrementAxis(Pitch, 0.1)
		require.NoError(t, err)
	}
	assert.Equal(t, 0.9, v.Snapshot().Pitch)

	value, err := v.IncrementAxis(Pitch, 0.1)
	require.NoError(t, err)
	assert.Equal(t, 1.0, value)

	value, err = v.IncrementAxis(Pitch, 0.1)
	require.NoError(t, err)
	assert.Equal(t, 1.0, value)
}

func TestIncrementAxisNegativeClamp(t *testing.T) {
	v := NewVector()
	for i := 0; i < 15; i++ {
		_, err := v.IncrementAxis(Roll, -0.1)
		require.NoError(t, err)
	}
	assert.Equal(t, -1.0, v.Snapshot().Roll)
}

func TestIncrementAxisStaysInRange(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	v := NewVector()
	axes := []Axis{Pitch, Yaw, Lift, Roll}

	for i := 0; i < 5000; i++ {
		delta := 0.1
		if rng.Intn(2) == 0 {
			delta = -0.1
		}
		_, err := v.IncrementAxis(axes[rng.Intn(len(axes))], delta)
		require.NoError(t, err)

		snap := v.Snapshot()
		for _, value := range []float64{snap.Pitch, snap.Yaw, snap.Lift, snap.Roll} {
			assert.GreaterOrEqual(t, value, MinAxis)
			assert.LessOrEqual(t, value, MaxAxis)
		}
	}
}

func TestSetAxisDirect(t *testing.T) {
	v := NewVector()

	_, err := v.SetAxis(Roll, -0.42)
	require.NoError(t, err)
	assert.Equal(t, -0.42, v.Snapshot().Roll)

	_, err = v.SetAxis(Roll, -1.5)
	require.NoError(t, err)
	assert.Equal(t, -1.0, v.Snapshot().Roll)

	_, err = v.SetAxis(Yaw, 3)
	require.NoError(t, err)
	assert.Equal(t, 1.0, v.Snapshot().Yaw)
}

func TestSetAxisUnknown(t *testing.T) {
	v := NewVector()
	_, err := v.SetAxis(Axis(7), 0.5)
	assert.Error(t, err)
	assert.Equal(t, Axes{}, v.Snapshot())
}

func TestIncrementAuxiliaryUnbounded(t *testing.T) {
	v := NewVector()
	for i := 0; i < 50; i++ {
		_, err := v.IncrementAuxiliary(P, 0.1)
		require.NoError(t, err)
	}
	state := v.State()
	assert.Equal(t, 5.0, state.Aux[P])
	assert.Equal(t, 0.0, state.Aux[P1])
	assert.Equal(t, 0.0, state.Aux[P2])

	for i := 0; i < 30; i++ {
		_, err := v.IncrementAuxiliary(P2, -0.1)
		require.NoError(t, err)
	}
	assert.Equal(t, -3.0, v.State().Aux[P2])

	_, err := v.IncrementAuxiliary(Aux(AuxCount), 0.1)
	assert.Error(t, err)
}

func TestSnapshotIdempotent(t *testing.T) {
	v := NewVector()
	_, err := v.SetAxis(Lift, 0.37)
	require.NoError(t, err)
	_, err = v.IncrementAxis(Yaw, -0.1)
	require.NoError(t, err)

	assert.Equal(t, v.Snapshot(), v.Snapshot())
	assert.Equal(t, v.State(), v.State())
}

func TestModeDoesNotTouchAxes(t *testing.T) {
	v := NewVector()
	_, err := v.SetAxis(Pitch, 0.5)
	require.NoError(t, err)
	_, err = v.SetAxis(Roll, -0.25)
	require.NoError(t, err)
	before := v.Snapshot()

	v.SetMode(ModeAlternate)
	assert.Equal(t, before, v.Snapshot())
	assert.Equal(t, ModeAlternate, v.State().Mode)

	_, err = v.IncrementAxis(Pitch, 0.1)
	require.NoError(t, err)
	assert.Equal(t, ModeAlternate, v.State().Mode)
}

func TestApplyDispatch(t *testing.T) {
	v := NewVector()

	change, err := v.Apply(SetAxisUpdate(Yaw, 0.3))
	require.NoError(t, err)
	assert.Equal(t, Change{Field: "Yaw", Value: 0.3}, change)

	change, err = v.Apply(IncrementAxisUpdate(Lift, 0.1))
	require.NoError(t, err)
	assert.Equal(t, "Lift", change.Field)
	assert.Equal(t, 0.1, change.Value)

	change, err = v.Apply(IncrementAuxUpdate(P1, -0.1))
	require.NoError(t, err)
	assert.Equal(t, "P1", change.Field)
	assert.Equal(t, -0.1, change.Value)

	change, err = v.Apply(SetModeUpdate(ModeAlternate))
	require.NoError(t, err)
	assert.Equal(t, "Mode", change.Field)
	assert.Equal(t, 1.0, change.Value)

	_, err = v.Apply(Update{Kind: UpdateKind(99)})
	assert.Error(t, err)
}

// Two writers race on the same field. Whatever the interleaving, the final
// value must be the last write of one of them.
func TestConcurrentLastWriterWins(t *testing.T) {
	v := NewVector()
	writers := map[string][]float64{
		"joystick": {0.1, 0.2, 0.3, 0.4, 0.5},
		"keyboard": {-0.1, -0.2, -0.3, -0.4, -0.5},
	}

	var wg sync.WaitGroup
	for _, values := range writers {
		wg.Add(1)
		go func(values []float64) {
			defer wg.Done()
			for _, value := range values {
				_, err := v.SetAxis(Pitch, value)
				assert.NoError(t, err)
				_ = v.Snapshot()
			}
		}(values)
	}
	wg.Wait()

	assert.Contains(t, []float64{0.5, -0.5}, v.Snapshot().Pitch)
}

func TestConcurrentIncrementsCommitEveryStep(t *testing.T) {
	v := NewVector()

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				_, err := v.IncrementAuxiliary(P, 0.1)
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10.0, v.State().Aux[P])
}
