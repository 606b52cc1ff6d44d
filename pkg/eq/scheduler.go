package eq

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// State is the scheduler run state.
type State int32

const (
	Stopped State = iota
	Running
)

func (s State) String() string {
	if s == Running {
		return "running"
	}
	return "stopped"
}

// DriftPolicy decides how the last accepted tick time moves forward.
type DriftPolicy int

const (
	// DriftAdvance moves the last tick time forward by exactly one interval, so the
	// long-run frame rate matches the target. If the scheduler is two or more intervals
	// behind it snaps to the current tick instead of bursting to catch up.
	DriftAdvance DriftPolicy = iota
	// DriftResync sets the last tick time to the current tick. Late ticks push every
	// following frame back, so the effective rate can drop under load.
	DriftResync
)

func (d DriftPolicy) String() string {
	if d == DriftResync {
		return "resync"
	}
	return "advance"
}

// ParseDriftPolicy accepts "advance" or "resync".
func ParseDriftPolicy(s string) (DriftPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "advance":
		return DriftAdvance, nil
	case "resync":
		return DriftResync, nil
	default:
		return DriftAdvance, fmt.Errorf("unknown drift policy %q (want advance or resync)", s)
	}
}

const (
	DefaultFPS      = 30.0
	DefaultHostRate = 60.0
)

// RenderFunc draws one frame. A returned error is reported but never stops the loop.
type RenderFunc func(Frame) error

// Stats counts scheduler activity since creation.
type Stats struct {
	Accepted     uint64
	Skipped      uint64
	RenderErrors uint64
}

// SchedulerOption configures a Scheduler.
type SchedulerOption func(*Scheduler)

// WithFPS sets the target frame rate.
func WithFPS(fps float64) SchedulerOption {
	return func(s *Scheduler) {
		if fps > 0 {
			s.interval = rateInterval(fps)
		}
	}
}

// WithHostRate sets how often Run re-arms the clock, the equivalent of a display's
// native frame callback rate.
func WithHostRate(hz float64) SchedulerOption {
	return func(s *Scheduler) {
		if hz > 0 {
			s.hostInterval = rateInterval(hz)
		}
	}
}

// WithDrift selects the drift policy.
func WithDrift(d DriftPolicy) SchedulerOption {
	return func(s *Scheduler) { s.drift = d }
}

// WithClock replaces the real clock, mostly for tests.
func WithClock(c Clock) SchedulerOption {
	return func(s *Scheduler) { s.clock = c }
}

// WithErrorHandler receives compute and render errors.
func WithErrorHandler(fn func(error)) SchedulerOption {
	return func(s *Scheduler) { s.onError = fn }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) SchedulerOption {
	return func(s *Scheduler) {
		if l != nil {
			s.logger = l
		}
	}
}

// Scheduler paces the pipeline independently of the host tick rate.
//
// Start and Pause may be called from any goroutine; they are observed at the top of the
// next tick. Everything else runs on the goroutine calling Run (or Tick).
type Scheduler struct {
	pipeline *Pipeline
	source   Source
	render   RenderFunc

	clock        Clock
	interval     time.Duration
	hostInterval time.Duration
	drift        DriftPolicy
	onError      func(error)
	logger       *zap.Logger

	state   atomic.Int32
	resumed atomic.Bool
	last    time.Time

	// cause of the last failed frame, cleared by a good one
	lastFailure string

	accepted     atomic.Uint64
	skipped      atomic.Uint64
	renderErrors atomic.Uint64
}

// NewScheduler creates a stopped scheduler.
func NewScheduler(p *Pipeline, src Source, render RenderFunc, opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		pipeline:     p,
		source:       src,
		render:       render,
		clock:        RealClock(),
		interval:     rateInterval(DefaultFPS),
		hostInterval: rateInterval(DefaultHostRate),
		drift:        DriftAdvance,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.resumed.Store(true)
	return s
}

func rateInterval(hz float64) time.Duration {
	return time.Duration(math.Round(float64(time.Second) / hz))
}

// Interval returns the target frame interval.
func (s *Scheduler) Interval() time.Duration { return s.interval }

// Drift returns the drift policy in use.
func (s *Scheduler) Drift() DriftPolicy { return s.drift }

// State returns the current run state.
func (s *Scheduler) State() State { return State(s.state.Load()) }

// Start resumes frame production. The first tick after a resume is always accepted.
func (s *Scheduler) Start() {
	if s.State() == Running {
		return
	}
	// resumed must be visible before any tick can observe Running
	s.resumed.Store(true)
	if State(s.state.Swap(int32(Running))) != Running {
		s.logger.Debug("scheduler started")
	}
}

// Pause stops frame production at the next tick. A frame already being drawn completes.
func (s *Scheduler) Pause() {
	if State(s.state.Swap(int32(Stopped))) != Stopped {
		s.logger.Debug("scheduler paused")
	}
}

// Stats returns a snapshot of the counters.
func (s *Scheduler) Stats() Stats {
	return Stats{
		Accepted:     s.accepted.Load(),
		Skipped:      s.skipped.Load(),
		RenderErrors: s.renderErrors.Load(),
	}
}

// Run re-arms the clock at the host rate until ctx is done. The clock keeps being
// re-armed while stopped so that Start resumes without any re-registration.
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info("scheduler loop started",
		zap.Duration("interval", s.interval),
		zap.Duration("host_interval", s.hostInterval),
		zap.Stringer("drift", s.drift))
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-s.clock.After(s.hostInterval):
			// errors already went to the error handler
			_, _ = s.Tick(now)
		}
	}
}

// Tick handles one host tick at time now and reports whether a frame was produced.
func (s *Scheduler) Tick(now time.Time) (bool, error) {
	if s.State() != Running {
		return false, nil
	}

	if s.resumed.Swap(false) {
		s.last = now
	} else {
		if now.Sub(s.last) < s.interval {
			s.skipped.Add(1)
			return false, nil
		}
		switch s.drift {
		case DriftResync:
			s.last = now
		default:
			s.last = s.last.Add(s.interval)
			if now.Sub(s.last) >= s.interval {
				s.last = now
			}
		}
	}

	s.accepted.Add(1)
	return true, s.frame()
}

func (s *Scheduler) frame() error {
	f, err := s.pipeline.Compute(s.source)
	if err != nil {
		err = fmt.Errorf("compute frame %d: %w", f.Seq, err)
		s.report(err)
		return err
	}
	if s.render != nil {
		if err := s.render(f); err != nil {
			s.renderErrors.Add(1)
			err = fmt.Errorf("render frame %d: %w", f.Seq, err)
			s.report(err)
			return err
		}
	}
	s.pipeline.Commit(f)
	if s.lastFailure != "" {
		s.logger.Info("frames recovered")
		s.lastFailure = ""
	}
	return nil
}

// report warns once per distinct cause and logs repeats at Debug.
func (s *Scheduler) report(err error) {
	cause := err
	if inner := errors.Unwrap(err); inner != nil {
		cause = inner
	}
	if msg := cause.Error(); msg != s.lastFailure {
		s.lastFailure = msg
		s.logger.Warn("frame failed", zap.Error(err))
	} else {
		s.logger.Debug("frame failed", zap.Error(err))
	}
	if s.onError != nil {
		s.onError(err)
	}
}
