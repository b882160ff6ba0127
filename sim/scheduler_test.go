package sim_test

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/cutlass/sim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMovingWorld() *sim.World {
	w := sim.NewWorld()
	spinning := crate(0, 0, 0)
	spinning.Behavior = sim.Spinner{Rate: mgl32.Vec3{0, 90, 0}}
	w.Insert(spinning)

	drifting := crate(0, 0, 0)
	drifting.Behavior = sim.Drifter{Velocity: mgl32.Vec3{1, 0, 0}}
	w.Insert(drifting)

	w.Actions = sim.ActionMoveForward
	return w
}

func TestSchedulerTickDeterminism(t *testing.T) {
	run := func(dts ...float64) (*sim.Scheduler, int) {
		s := sim.NewScheduler(newMovingWorld())
		total := 0
		for _, dt := range dts {
			n, err := s.Advance(dt)
			require.NoError(t, err)
			total += n
		}
		return s, total
	}

	t.Run("one frame versus ten", func(t *testing.T) {
		single, singleTicks := run(0.1)

		split := make([]float64, 10)
		for i := range split {
			split[i] = 0.01
		}
		many, manyTicks := run(split...)

		assert.Equal(t, 6, singleTicks)
		assert.Equal(t, 6, manyTicks)
		assert.Equal(t, single.Current().Checksum(), many.Current().Checksum())
	})

	t.Run("one second split different ways", func(t *testing.T) {
		quarter, _ := run(0.25, 0.25, 0.25, 0.25)

		tenths := make([]float64, 10)
		for i := range tenths {
			tenths[i] = 0.1
		}
		tenth, _ := run(tenths...)

		perTick := make([]float64, 60)
		for i := range perTick {
			perTick[i] = fixedStep
		}
		ticked, _ := run(perTick...)

		assert.Equal(t, uint64(60), quarter.Ticks())
		assert.Equal(t, uint64(60), tenth.Ticks())
		assert.Equal(t, uint64(60), ticked.Ticks())
		assert.Equal(t, quarter.Current().Checksum(), tenth.Current().Checksum())
		assert.Equal(t, quarter.Current().Checksum(), ticked.Current().Checksum())
	})

	t.Run("random splits", func(t *testing.T) {
		rng := rand.New(rand.NewSource(7))
		s := sim.NewScheduler(newMovingWorld())

		total := 0.0
		for i := 0; i < 500; i++ {
			dt := rng.Float64() * 0.05
			total += dt
			_, err := s.Advance(dt)
			require.NoError(t, err)
		}

		want := uint64(math.Floor(total/fixedStep + 1e-9))
		assert.Equal(t, want, s.Ticks())
	})
}

func TestSchedulerAccumulatorBound(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	s := sim.NewScheduler(newMovingWorld())

	for i := 0; i < 1000; i++ {
		dt := rng.Float64() * 0.3
		if i%50 == 0 {
			dt = 0
		}
		_, err := s.Advance(dt)
		require.NoError(t, err)

		acc := s.Accumulator()
		require.GreaterOrEqual(t, acc, 0.0)
		require.Less(t, acc, s.FixedStep())

		alpha := s.Alpha()
		require.GreaterOrEqual(t, alpha, 0.0)
		require.Less(t, alpha, 1.0)
	}
}

func TestSchedulerForwardScenario(t *testing.T) {
	t.Run("advance", func(t *testing.T) {
		w := sim.NewWorld()
		w.Actions = sim.ActionMoveForward
		s := sim.NewScheduler(w)

		for i := 0; i < 60; i++ {
			_, err := s.Advance(fixedStep)
			require.NoError(t, err)
		}

		assert.Equal(t, uint64(60), s.Ticks())
		pos := s.Current().Player.Position
		assert.InDelta(t, 0, pos.X(), 1e-3)
		assert.InDelta(t, 0, pos.Y(), 1e-3)
		assert.InDelta(t, 400, pos.Z(), 1e-2)
	})

	t.Run("frames with a held key", func(t *testing.T) {
		s := sim.NewScheduler(nil)
		held := sim.DeviceState{Pressed: []sim.Key{sim.KeyW}}

		var snapshot *sim.World
		for i := 0; i < 4; i++ {
			var err error
			snapshot, err = s.Frame(0.25, held)
			require.NoError(t, err)
		}

		assert.Equal(t, uint64(60), s.Ticks())
		assert.InDelta(t, 400, s.Current().Player.Position.Z(), 1e-2)
		assert.InDelta(t, 65, s.Current().Player.Camera.Position.Y(), 1e-6)

		// The snapshot sits between the last two ticks.
		assert.LessOrEqual(t, snapshot.Player.Position.Z(), s.Current().Player.Position.Z())
		assert.GreaterOrEqual(t, snapshot.Player.Position.Z(), s.Previous().Player.Position.Z())
	})
}

func TestSchedulerPreviousIsCopyOfCurrent(t *testing.T) {
	s := sim.NewScheduler(newMovingWorld())

	before := s.Current().Checksum()
	n, err := s.Advance(fixedStep)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	assert.Equal(t, before, s.Previous().Checksum())
	assert.NotEqual(t, before, s.Current().Checksum())

	t.Run("no tick leaves the buffers untouched", func(t *testing.T) {
		prev, cur := s.Previous().Checksum(), s.Current().Checksum()
		n, err := s.Advance(0.001)
		require.NoError(t, err)
		assert.Equal(t, 0, n)
		assert.Equal(t, prev, s.Previous().Checksum())
		assert.Equal(t, cur, s.Current().Checksum())
	})

	t.Run("returned worlds are copies", func(t *testing.T) {
		c := s.Current()
		c.Player.Position = mgl32.Vec3{-1, -1, -1}
		c.Insert(crate(0, 0, 0))
		assert.NotEqual(t, c.Checksum(), s.Current().Checksum())
	})
}

func TestSchedulerInvalidDelta(t *testing.T) {
	for _, dt := range []float64{-0.01, math.NaN(), math.Inf(1), math.Inf(-1)} {
		s := sim.NewScheduler(newMovingWorld())
		_, _ = s.Advance(0.01)
		acc := s.Accumulator()

		n, err := s.Advance(dt)
		assert.ErrorIs(t, err, sim.ErrInvalidDelta)
		assert.Equal(t, 0, n)
		assert.Equal(t, acc, s.Accumulator())
		assert.Equal(t, uint64(1), s.Frames())

		_, err = s.Frame(dt, sim.DeviceState{})
		assert.ErrorIs(t, err, sim.ErrInvalidDelta)
	}

	t.Run("rejected frame leaves input untouched", func(t *testing.T) {
		s := sim.NewScheduler(nil)
		before := s.Current().CursorPos

		_, err := s.Frame(math.NaN(), sim.DeviceState{
			Pressed:   []sim.Key{sim.KeyW},
			CursorPos: mgl32.Vec2{320, 240},
		})
		assert.ErrorIs(t, err, sim.ErrInvalidDelta)
		assert.Equal(t, sim.ActionNone, s.Current().Actions)
		assert.Equal(t, sim.ActionNone, s.Current().OldActions)
		assert.Equal(t, before, s.Current().CursorPos)
		assert.Equal(t, uint64(0), s.Frames())

		_, err = s.Frame(0, sim.DeviceState{Pressed: []sim.Key{sim.KeyW}})
		require.NoError(t, err)
		assert.True(t, s.Current().Actions.Has(sim.ActionMoveForward))
	})

	t.Run("strict mode panics", func(t *testing.T) {
		s := sim.NewScheduler(nil, sim.WithStrict(true))
		assert.Panics(t, func() { _, _ = s.Advance(-1) })
	})
}

func TestSchedulerCatchUpGuards(t *testing.T) {
	t.Run("frame delta clamp", func(t *testing.T) {
		s := sim.NewScheduler(nil)
		n, err := s.Advance(10)
		require.NoError(t, err)

		assert.Equal(t, sim.DefaultMaxTicksPerFrame, n)
		stats := s.Stats()
		assert.InDelta(t, 9.75, stats.ClampedSeconds, 1e-9)
		assert.Equal(t, int64(0), stats.DroppedTicks)
		assert.Less(t, s.Accumulator(), s.FixedStep())
	})

	t.Run("tick cap", func(t *testing.T) {
		s := sim.NewScheduler(nil, sim.WithMaxFrameDelta(0), sim.WithMaxTicksPerFrame(3))
		n, err := s.Advance(0.11)
		require.NoError(t, err)

		assert.Equal(t, 3, n)
		assert.Equal(t, int64(3), s.Stats().DroppedTicks)
		assert.Less(t, s.Accumulator(), s.FixedStep())
		assert.GreaterOrEqual(t, s.Accumulator(), 0.0)
	})

	t.Run("unbounded", func(t *testing.T) {
		s := sim.NewScheduler(nil, sim.WithMaxFrameDelta(0), sim.WithMaxTicksPerFrame(0))
		n, err := s.Advance(2)
		require.NoError(t, err)
		assert.Equal(t, 120, n)
	})

	t.Run("tick rate option", func(t *testing.T) {
		s := sim.NewScheduler(nil, sim.WithTickRate(30))
		assert.InDelta(t, 1.0/30.0, s.FixedStep(), 1e-12)
		n, err := s.Advance(0.1)
		require.NoError(t, err)
		assert.Equal(t, 3, n)
	})
}

func TestSchedulerTickOrder(t *testing.T) {
	var order []string
	var seenPlayer []mgl32.Vec3

	w := sim.NewWorld()
	w.Actions = sim.ActionMoveForward
	for _, name := range []string{"a", "b", "c"} {
		e := crate(0, 0, 0)
		e.Behavior = orderProbe{Name: name, Log: &order}
		w.Insert(e)
	}
	probe := crate(0, 0, 0)
	probe.Behavior = playerProbe{Log: &seenPlayer}
	w.Insert(probe)

	s := sim.NewScheduler(w)
	system := &recordingSystem{}
	s.Register(system)

	_, err := s.Advance(2 * fixedStep)
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b", "c", "a", "b", "c"}, order)
	require.Len(t, seenPlayer, 2)
	assert.InDelta(t, 400.0/60.0, seenPlayer[0].Z(), 1e-4, "player moves before entity hooks")
	assert.Equal(t, []uint64{1, 2}, system.ticks)

	stats := s.Stats()
	require.Len(t, stats.Systems, 3)
	assert.Equal(t, "Player", stats.Systems[0].Name)
	assert.Equal(t, "Entities", stats.Systems[1].Name)
	assert.Equal(t, "recordingSystem", stats.Systems[2].Name)
	assert.Equal(t, 1, stats.SystemCount)
	assert.Equal(t, int64(6), stats.TotalExecutions)
	for _, st := range stats.Systems {
		assert.Equal(t, int64(2), st.ExecutionCount)
	}
}

type churnSystem struct {
	spawned sim.EntityId
}

func (c *churnSystem) Execute(frame *sim.TickFrame) {
	switch frame.Tick {
	case 1:
		frame.Commands.Spawn(crate(1, 1, 1), func(id sim.EntityId) { c.spawned = id })
	case 2:
		frame.Commands.Delete(1)
	}
}

func TestSchedulerCommands(t *testing.T) {
	w := sim.NewWorld()
	w.Insert(crate(0, 0, 0))
	s := sim.NewScheduler(w)
	churn := &churnSystem{}
	s.Register(churn)

	_, err := s.Advance(fixedStep)
	require.NoError(t, err)

	assert.Equal(t, sim.EntityId(2), churn.spawned)
	assert.True(t, s.Current().Has(2))
	assert.False(t, s.Interpolate().Has(2), "new entity is held back for one tick")

	_, err = s.Advance(fixedStep)
	require.NoError(t, err)

	assert.False(t, s.Current().Has(1))
	snapshot := s.Interpolate()
	assert.True(t, snapshot.Has(1), "removed entity is frozen for one tick")
	assert.True(t, snapshot.Has(2))

	_, err = s.Advance(fixedStep)
	require.NoError(t, err)
	assert.False(t, s.Interpolate().Has(1))
}

func TestSchedulerStop(t *testing.T) {
	s := sim.NewScheduler(nil)
	assert.Equal(t, sim.PhaseIdle, s.Phase())

	s.Stop()
	assert.True(t, s.Stopped())
	assert.Equal(t, sim.PhaseStopped, s.Phase())
	assert.Equal(t, "stopped", s.Phase().String())

	_, err := s.Advance(0.1)
	assert.ErrorIs(t, err, sim.ErrStopped)
	_, err = s.Frame(0.1, nil)
	assert.ErrorIs(t, err, sim.ErrStopped)
}

type scriptedSource struct {
	clock  *sim.ManualClock
	frames int
	limit  int
	keys   []sim.Key
}

func (s *scriptedSource) Poll() sim.Device {
	s.frames++
	return sim.DeviceState{Pressed: s.keys}
}

func (s *scriptedSource) ShouldClose() bool {
	return s.frames >= s.limit
}

type recordingPresenter struct {
	clock  *sim.ManualClock
	step   time.Duration
	frames []*sim.World
	err    error
}

func (p *recordingPresenter) Present(snapshot *sim.World) error {
	p.frames = append(p.frames, snapshot)
	p.clock.Advance(p.step)
	return p.err
}

func TestSchedulerRun(t *testing.T) {
	t.Run("runs until the source closes", func(t *testing.T) {
		clock := &sim.ManualClock{}
		source := &scriptedSource{clock: clock, limit: 30, keys: []sim.Key{sim.KeyW}}
		presenter := &recordingPresenter{clock: clock, step: 20 * time.Millisecond}

		s := sim.NewScheduler(nil)
		err := s.Run(context.Background(), source, presenter, clock, 0)
		require.NoError(t, err)

		assert.Len(t, presenter.frames, 30)
		assert.True(t, s.Stopped())
		// 29 frame gaps of 20ms follow the zero-length first frame.
		assert.Equal(t, uint64(34), s.Ticks())
		assert.Greater(t, presenter.frames[29].Player.Position.Z(), presenter.frames[0].Player.Position.Z())
	})

	t.Run("presenter failure ends the loop", func(t *testing.T) {
		clock := &sim.ManualClock{}
		source := &scriptedSource{clock: clock, limit: 100}
		boom := errors.New("device lost")
		presenter := &recordingPresenter{clock: clock, step: time.Millisecond, err: boom}

		s := sim.NewScheduler(nil)
		err := s.Run(context.Background(), source, presenter, clock, 0)
		assert.ErrorIs(t, err, boom)
		assert.Len(t, presenter.frames, 1)
		assert.True(t, s.Stopped())
	})

	t.Run("context cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		clock := &sim.ManualClock{}
		source := &scriptedSource{clock: clock, limit: 100}
		presenter := &recordingPresenter{clock: clock, step: time.Millisecond}

		s := sim.NewScheduler(nil)
		require.NoError(t, s.Run(ctx, source, presenter, clock, time.Millisecond))
		assert.Empty(t, presenter.frames)
	})
}
