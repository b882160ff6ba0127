package sim

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"reflect"
	"time"
)

const (
	DefaultTickRate         = 60
	DefaultMaxFrameDelta    = 0.25
	DefaultMaxTicksPerFrame = 15

	// stepTolerance absorbs float drift so that splitting the same elapsed
	// time into different frame deltas runs the same number of ticks.
	stepTolerance = 1e-9
)

var (
	ErrInvalidDelta = errors.New("sim: invalid frame delta")
	ErrStopped      = errors.New("sim: scheduler stopped")
)

// Phase is the scheduler's position within a presentation frame.
type Phase uint8

const (
	PhaseIdle Phase = iota
	PhaseAccumulating
	PhaseStepping
	PhaseInterpolating
	PhaseStopped
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseAccumulating:
		return "accumulating"
	case PhaseStepping:
		return "stepping"
	case PhaseInterpolating:
		return "interpolating"
	case PhaseStopped:
		return "stopped"
	default:
		return fmt.Sprintf("phase(%d)", uint8(p))
	}
}

// Presenter consumes one interpolated snapshot per frame. The snapshot is
// only valid for the duration of the call.
type Presenter interface {
	Present(snapshot *World) error
}

// SchedulerStats provides statistics about scheduler execution.
type SchedulerStats struct {
	Frames          uint64
	Ticks           uint64
	LastFrameTicks  int
	DroppedTicks    int64
	ClampedSeconds  float64
	Accumulator     float64
	Alpha           float64
	SystemCount     int
	TotalExecutions int64
	Systems         []SystemStats
}

// SystemStats provides execution statistics for a single tick stage.
type SystemStats struct {
	Name           string
	ExecutionCount int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

type systemStatsInternal struct {
	name           string
	executionCount int64
	minDuration    time.Duration
	maxDuration    time.Duration
	totalDuration  time.Duration
	lastDuration   time.Duration
}

func newSystemStats(name string) *systemStatsInternal {
	return &systemStatsInternal{
		name:        name,
		minDuration: time.Duration(1<<63 - 1),
	}
}

func (st *systemStatsInternal) record(duration time.Duration) {
	st.executionCount++
	st.lastDuration = duration
	st.totalDuration += duration

	if duration < st.minDuration {
		st.minDuration = duration
	}
	if duration > st.maxDuration {
		st.maxDuration = duration
	}
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithTickRate sets the fixed step to 1/hz seconds.
func WithTickRate(hz int) Option {
	return func(s *Scheduler) {
		if hz > 0 {
			s.fixedStep = 1 / float64(hz)
		}
	}
}

// WithFixedStep sets the fixed step in seconds.
func WithFixedStep(seconds float64) Option {
	return func(s *Scheduler) {
		if seconds > 0 {
			s.fixedStep = seconds
		}
	}
}

// WithMaxFrameDelta clamps each frame delta to seconds. Zero disables it.
func WithMaxFrameDelta(seconds float64) Option {
	return func(s *Scheduler) {
		s.maxFrameDelta = seconds
	}
}

// WithMaxTicksPerFrame caps ticks per frame. Zero disables the cap.
func WithMaxTicksPerFrame(n int) Option {
	return func(s *Scheduler) {
		s.maxTicksPerFrame = n
	}
}

// WithStrict makes contract violations panic instead of returning errors.
func WithStrict(strict bool) Option {
	return func(s *Scheduler) {
		s.strict = strict
	}
}

func WithLogger(log *slog.Logger) Option {
	return func(s *Scheduler) {
		if log != nil {
			s.log = log
		}
	}
}

func WithInputAggregator(input *InputAggregator) Option {
	return func(s *Scheduler) {
		if input != nil {
			s.input = input
		}
	}
}

// Scheduler advances a world in fixed ticks regardless of how often it is
// driven, keeping the last two tick results for interpolation.
type Scheduler struct {
	fixedStep        float64
	maxFrameDelta    float64
	maxTicksPerFrame int
	strict           bool
	log              *slog.Logger
	input            *InputAggregator

	current     *World
	previous    *World
	accumulator float64
	ticks       uint64
	frames      uint64
	phase       Phase

	commands    *Commands
	systems     []System
	systemStats []*systemStatsInternal

	lastFrameTicks int
	droppedTicks   int64
	clampedSeconds float64
}

// NewScheduler creates a scheduler that takes ownership of world. A nil
// world starts empty.
func NewScheduler(world *World, opts ...Option) *Scheduler {
	if world == nil {
		world = NewWorld()
	}

	s := &Scheduler{
		fixedStep:        1.0 / DefaultTickRate,
		maxFrameDelta:    DefaultMaxFrameDelta,
		maxTicksPerFrame: DefaultMaxTicksPerFrame,
		log:              slog.New(slog.DiscardHandler),
		current:          world,
		commands:         newCommands(),
		systemStats: []*systemStatsInternal{
			newSystemStats("Player"),
			newSystemStats("Entities"),
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.input == nil {
		s.input = NewInputAggregator(DefaultBindings())
	}
	s.previous = world.Clone()

	return s
}

// Register adds a system run once per tick after the entity hooks.
func (s *Scheduler) Register(system System) {
	s.systems = append(s.systems, system)

	systemType := reflect.TypeOf(system)
	if systemType.Kind() == reflect.Ptr {
		systemType = systemType.Elem()
	}
	s.systemStats = append(s.systemStats, newSystemStats(systemType.Name()))
}

// Insert adds an entity to the current world.
func (s *Scheduler) Insert(e Entity) EntityId {
	return s.current.Insert(e)
}

// Frame runs one presentation frame: it samples input into the current
// world, advances by dt and returns a freshly interpolated snapshot.
func (s *Scheduler) Frame(dt float64, device Device) (*World, error) {
	if s.phase == PhaseStopped {
		return nil, ErrStopped
	}

	if err := s.validateDelta(dt); err != nil {
		return nil, err
	}
	s.input.Apply(s.current, device)

	if _, err := s.Advance(dt); err != nil {
		return nil, err
	}
	return s.Interpolate(), nil
}

// Advance adds dt seconds to the accumulator and runs as many whole ticks
// as it now holds. It returns the number of ticks run.
func (s *Scheduler) Advance(dt float64) (int, error) {
	if s.phase == PhaseStopped {
		return 0, ErrStopped
	}
	if err := s.validateDelta(dt); err != nil {
		return 0, err
	}

	s.frames++
	s.phase = PhaseAccumulating

	if s.maxFrameDelta > 0 && dt > s.maxFrameDelta {
		s.clampedSeconds += dt - s.maxFrameDelta
		s.log.Debug("clamped frame delta", "dt", dt, "max", s.maxFrameDelta)
		dt = s.maxFrameDelta
	}
	s.accumulator += dt

	s.phase = PhaseStepping
	ticks := 0
	for s.accumulator+stepTolerance >= s.fixedStep {
		if s.maxTicksPerFrame > 0 && ticks >= s.maxTicksPerFrame {
			dropped := math.Floor((s.accumulator + stepTolerance) / s.fixedStep)
			s.accumulator -= dropped * s.fixedStep
			s.droppedTicks += int64(dropped)
			s.log.Debug("dropped ticks", "count", int64(dropped), "cap", s.maxTicksPerFrame)
			break
		}

		s.accumulator -= s.fixedStep
		s.step()
		ticks++
	}
	if s.accumulator < 0 {
		s.accumulator = 0
	}

	s.lastFrameTicks = ticks
	s.phase = PhaseIdle
	return ticks, nil
}

// validateDelta rejects NaN, infinite and negative deltas before any state
// is touched.
func (s *Scheduler) validateDelta(dt float64) error {
	if !math.IsNaN(dt) && !math.IsInf(dt, 0) && dt >= 0 {
		return nil
	}
	err := fmt.Errorf("%w: %v", ErrInvalidDelta, dt)
	if s.strict {
		panic(err)
	}
	s.log.Warn("rejected frame delta", "dt", dt)
	return err
}

func (s *Scheduler) step() {
	s.previous.CopyFrom(s.current)
	s.ticks++

	frame := &TickFrame{
		Tick:      s.ticks,
		Time:      float64(s.ticks-1) * s.fixedStep,
		DeltaTime: s.fixedStep,
		World:     s.current,
		Commands:  s.commands,
	}

	start := time.Now()
	s.current.Player.FixedUpdate(s.current.Actions, float32(s.fixedStep))
	s.systemStats[0].record(time.Since(start))

	start = time.Now()
	for _, e := range s.current.Entities() {
		if e.Behavior != nil {
			e.Behavior.FixedUpdate(frame, e)
		}
	}
	s.systemStats[1].record(time.Since(start))

	for i, system := range s.systems {
		start = time.Now()
		system.Execute(frame)
		s.systemStats[2+i].record(time.Since(start))
	}

	s.commands.Flush(s.current)
}

// Alpha returns how far the present lies between the previous and the
// current tick, in [0, 1).
func (s *Scheduler) Alpha() float64 {
	alpha := s.accumulator / s.fixedStep
	if alpha >= 1 {
		alpha = math.Nextafter(1, 0)
	}
	return alpha
}

// Interpolate returns a new snapshot between previous and current at Alpha.
func (s *Scheduler) Interpolate() *World {
	phase := s.phase
	s.phase = PhaseInterpolating
	out := Interpolate(s.previous, s.current, s.Alpha())
	s.phase = phase
	return out
}

// Run drives frames until ctx is done, the source asks to close, Stop is
// called or a frame fails. A positive interval paces frames with a ticker;
// zero runs them back to back.
func (s *Scheduler) Run(ctx context.Context, source DeviceSource, presenter Presenter, clock Clock, interval time.Duration) error {
	defer s.Stop()

	var tick <-chan time.Time
	if interval > 0 {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	timer := NewFrameTimer(clock)

	for {
		if ctx.Err() != nil || source.ShouldClose() || s.Stopped() {
			return nil
		}

		snapshot, err := s.Frame(timer.Delta(), source.Poll())
		if err != nil {
			return err
		}
		if presenter != nil {
			if err := presenter.Present(snapshot); err != nil {
				return fmt.Errorf("sim: present frame %d: %w", s.frames, err)
			}
		}

		if tick != nil {
			select {
			case <-ctx.Done():
				return nil
			case <-tick:
			}
		}
	}
}

// Stop moves the scheduler to its terminal phase.
func (s *Scheduler) Stop() {
	s.phase = PhaseStopped
}

func (s *Scheduler) Stopped() bool {
	return s.phase == PhaseStopped
}

func (s *Scheduler) Phase() Phase {
	return s.phase
}

// Current returns a copy of the latest tick result.
func (s *Scheduler) Current() *World {
	return s.current.Clone()
}

// Previous returns a copy of the tick result before Current.
func (s *Scheduler) Previous() *World {
	return s.previous.Clone()
}

func (s *Scheduler) Ticks() uint64 {
	return s.ticks
}

func (s *Scheduler) Frames() uint64 {
	return s.frames
}

func (s *Scheduler) Accumulator() float64 {
	return s.accumulator
}

func (s *Scheduler) FixedStep() float64 {
	return s.fixedStep
}

// Stats returns statistics about tick execution.
func (s *Scheduler) Stats() *SchedulerStats {
	stats := &SchedulerStats{
		Frames:         s.frames,
		Ticks:          s.ticks,
		LastFrameTicks: s.lastFrameTicks,
		DroppedTicks:   s.droppedTicks,
		ClampedSeconds: s.clampedSeconds,
		Accumulator:    s.accumulator,
		Alpha:          s.Alpha(),
		SystemCount:    len(s.systems),
		Systems:        make([]SystemStats, len(s.systemStats)),
	}

	var totalExecs int64
	for i, internal := range s.systemStats {
		avgDuration := time.Duration(0)
		minDuration := internal.minDuration
		if internal.executionCount > 0 {
			avgDuration = internal.totalDuration / time.Duration(internal.executionCount)
		} else {
			minDuration = 0
		}

		stats.Systems[i] = SystemStats{
			Name:           internal.name,
			ExecutionCount: internal.executionCount,
			MinDuration:    minDuration,
			MaxDuration:    internal.maxDuration,
			AvgDuration:    avgDuration,
			LastDuration:   internal.lastDuration,
			TotalDuration:  internal.totalDuration,
		}
		totalExecs += internal.executionCount
	}

	stats.TotalExecutions = totalExecs
	return stats
}
