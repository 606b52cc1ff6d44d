// Package app wires the loader, player, analyzer, frame scheduler and renderers to the
// terminal UI.
package app

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"goeq/internal/audio"
	"goeq/internal/config"
	"goeq/internal/ui"
	"goeq/pkg/eq"
	"goeq/pkg/viz"
)

// Sender delivers messages to the UI. *ui.TUI implements it.
type Sender interface {
	Send(msg tea.Msg)
}

// Option configures an App.
type Option func(*App)

// WithOutput replaces the audio device.
func WithOutput(f audio.OutputFactory) Option {
	return func(a *App) { a.output = f }
}

// WithClock replaces the scheduler's clock.
func WithClock(c eq.Clock) Option {
	return func(a *App) { a.clock = c }
}

// WithHTTPClient sets the client used for URL sources.
func WithHTTPClient(c *http.Client) Option {
	return func(a *App) { a.client = c }
}

// App is one equalizer session for a single source.
type App struct {
	cfg    config.Config
	logger *zap.Logger
	output audio.OutputFactory
	clock  eq.Clock
	client *http.Client

	loader  *audio.Loader
	tap     *audio.Tap
	player  *audio.Player
	manager *viz.Manager

	mu        sync.Mutex
	send      Sender
	analyzer  *audio.Analyzer
	pipeline  *eq.Pipeline
	scheduler *eq.Scheduler
	volume    float64
	cancel    context.CancelFunc
}

// New validates cfg and builds the parts that do not depend on the track.
func New(cfg config.Config, logger *zap.Logger, opts ...Option) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	a := &App{
		cfg:    cfg,
		logger: logger,
		output: audio.NewOtoOutput,
		clock:  eq.RealClock(),
		volume: cfg.Volume,
		cancel: func() {},
	}
	for _, opt := range opts {
		opt(a)
	}

	a.loader = audio.NewLoader(a.client, logger.Named("loader"))
	a.tap = audio.NewTap(cfg.FFTSize)
	a.player = audio.NewPlayer(a.tap,
		audio.WithOutput(a.output),
		audio.WithPlayerLogger(logger.Named("player")))
	a.player.SetVolume(cfg.Volume)

	a.manager = viz.NewManager()
	if err := a.manager.SetMode(cfg.RenderMode()); err != nil {
		return nil, err
	}
	palette, name := cfg.Palette(logger)
	a.manager.SetPalette(palette, name)
	a.manager.SetDebug(cfg.Debug)

	return a, nil
}

// Run loads src in the background and blocks in the TUI until the user quits.
func (a *App) Run(ctx context.Context, src string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	tui := ui.New(ui.NewModel(a))

	a.mu.Lock()
	a.send = tui
	a.cancel = cancel
	a.mu.Unlock()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := a.Start(ctx, src); err != nil {
			a.logger.Error("session failed", zap.String("source", src), zap.Error(err))
			tui.Send(ui.LoadFailedMsg{Err: err})
		}
	}()

	err := tui.Start()
	cancel()
	wg.Wait()
	if cerr := a.player.Close(); cerr != nil {
		a.logger.Warn("closing audio output", zap.Error(cerr))
	}
	return err
}

// Start loads src, wires it up and runs the frame scheduler until ctx ends.
func (a *App) Start(ctx context.Context, src string) error {
	track, err := a.loader.LoadTrack(ctx, src, func(p audio.Progress) {
		a.sender().Send(ui.LoadProgressMsg(p))
	})
	if err != nil {
		return err
	}

	sched, err := a.Attach(track)
	if err != nil {
		return err
	}

	err = sched.Run(ctx)
	if ctx.Err() != nil {
		return nil
	}
	return err
}

// Attach hands track to the player and builds the frame pipeline for it. The scheduler
// starts running at once so the idle grid is drawn before playback begins.
func (a *App) Attach(track *audio.Track) (*eq.Scheduler, error) {
	if err := a.player.Load(track.PCM); err != nil {
		return nil, err
	}

	analyzer := audio.NewAnalyzer(a.tap, track.PCM.SampleRate, audio.WithFFTSize(a.cfg.FFTSize))
	pipeline, err := eq.NewPipeline(a.cfg.Bands, a.cfg.Rows, a.cfg.Cols)
	if err != nil {
		return nil, err
	}
	sched := eq.NewScheduler(pipeline, analyzer, a.renderFrame,
		eq.WithFPS(a.cfg.FPS),
		eq.WithHostRate(a.cfg.HostRate),
		eq.WithDrift(a.cfg.DriftPolicy()),
		eq.WithClock(a.clock),
		eq.WithErrorHandler(func(err error) {
			a.sender().Send(ui.FrameErrMsg{Err: err})
		}),
		eq.WithLogger(a.logger.Named("scheduler")))

	a.mu.Lock()
	a.analyzer = analyzer
	a.pipeline = pipeline
	a.scheduler = sched
	a.mu.Unlock()

	a.manager.SetStatsSource(sched.Stats)
	a.player.OnStateChange(a.onPlaybackState)

	sched.Start()
	a.sender().Send(ui.LoadedMsg{Metadata: track.Metadata})
	return sched, nil
}

func (a *App) onPlaybackState(s audio.PlaybackState) {
	a.mu.Lock()
	analyzer, sched := a.analyzer, a.scheduler
	a.mu.Unlock()

	a.logger.Debug("playback state", zap.Stringer("state", s))
	if s == audio.StatePlaying {
		analyzer.Attach()
		sched.Start()
	} else {
		sched.Pause()
	}
	a.sender().Send(ui.StateMsg(s))
}

func (a *App) renderFrame(f eq.Frame) error {
	view, err := a.manager.Render(f)
	if err != nil {
		return err
	}
	a.sender().Send(ui.FrameMsg{View: view})
	return nil
}

func (a *App) sender() Sender {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.send == nil {
		return discard{}
	}
	return a.send
}

// SetSender directs UI messages somewhere other than a TUI.
func (a *App) SetSender(s Sender) {
	a.mu.Lock()
	a.send = s
	a.mu.Unlock()
}

type discard struct{}

func (discard) Send(tea.Msg) {}

// TogglePlayback implements ui.Controller.
func (a *App) TogglePlayback() error {
	return a.player.Toggle()
}

// AdjustVolume implements ui.Controller.
func (a *App) AdjustVolume(delta float64) float64 {
	a.mu.Lock()
	a.volume += delta
	if a.volume < 0 {
		a.volume = 0
	}
	if a.volume > 1 {
		a.volume = 1
	}
	v := a.volume
	a.mu.Unlock()

	a.player.SetVolume(v)
	return v
}

// Status implements ui.Controller.
func (a *App) Status() ui.Status {
	a.mu.Lock()
	vol := a.volume
	a.mu.Unlock()
	return ui.Status{
		State:    a.player.State(),
		Position: a.player.Position(),
		Duration: a.player.Duration(),
		Progress: a.player.Progress(),
		Volume:   vol,
	}
}

// CycleRenderer implements ui.Controller.
func (a *App) CycleRenderer() string {
	name := a.manager.CycleMode(1)
	a.logger.Info("renderer changed", zap.String("renderer", name))
	return name
}

// CycleTheme implements ui.Controller.
func (a *App) CycleTheme() string {
	name := a.manager.CycleTheme(1)
	a.logger.Info("theme changed", zap.String("theme", name))
	return name
}

// ToggleDebug implements ui.Controller.
func (a *App) ToggleDebug() bool {
	return a.manager.ToggleDebug()
}

// Resize implements ui.Controller.
func (a *App) Resize(width, height int) {
	a.manager.SetDimensions(width, height)
}

// Cancel implements ui.Controller.
func (a *App) Cancel() {
	a.mu.Lock()
	cancel := a.cancel
	a.mu.Unlock()
	cancel()
}

// Player exposes the audio player.
func (a *App) Player() *audio.Player { return a.player }

// Manager exposes the renderer manager.
func (a *App) Manager() *viz.Manager { return a.manager }
