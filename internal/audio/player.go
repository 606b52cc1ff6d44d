package audio

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/hajimehoshi/oto"
	"go.uber.org/zap"
)

// PlaybackState enumerates whether the track is playing, paused, or stopped.
type PlaybackState int

const (
	StateStopped PlaybackState = iota
	StatePlaying
	StatePaused
)

func (s PlaybackState) String() string {
	switch s {
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	default:
		return "stopped"
	}
}

// ErrNoTrack is returned by Play before a track was loaded.
var ErrNoTrack = errors.New("no track loaded")

// Output receives PCM bytes. Write blocks while the device buffer is full.
type Output interface {
	io.Writer
	Close() error
}

// OutputFactory opens an output for 16-bit stereo at sampleRate.
type OutputFactory func(sampleRate int) (Output, error)

// otoOutput owns the oto context and its single player.
type otoOutput struct {
	context *oto.Context
	player  *oto.Player
}

func (o *otoOutput) Write(p []byte) (int, error) { return o.player.Write(p) }

func (o *otoOutput) Close() error {
	perr := o.player.Close()
	if err := o.context.Close(); err != nil {
		return err
	}
	return perr
}

// NewOtoOutput opens the system audio device.
func NewOtoOutput(sampleRate int) (Output, error) {
	ctx, err := oto.NewContext(sampleRate, numChannels, bytesPerSample, 4096)
	if err != nil {
		return nil, fmt.Errorf("failed to create audio context: %w", err)
	}
	return &otoOutput{context: ctx, player: ctx.NewPlayer()}, nil
}

// PlayerOption configures a Player.
type PlayerOption func(*Player)

// WithOutput replaces the audio device.
func WithOutput(f OutputFactory) PlayerOption {
	return func(p *Player) { p.newOutput = f }
}

// WithPlayerLogger sets the logger.
func WithPlayerLogger(l *zap.Logger) PlayerOption {
	return func(p *Player) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithChunk sets how many bytes are written to the output per step.
func WithChunk(n int) PlayerOption {
	return func(p *Player) {
		if n >= frameSize {
			p.chunk = n - n%frameSize
		}
	}
}

const defaultChunk = 2048

// Player feeds PCM to an Output from its own goroutine, copies every chunk into a Tap,
// and reports state transitions to listeners.
type Player struct {
	mutex sync.Mutex
	cond  *sync.Cond

	newOutput OutputFactory
	output    Output
	outRate   int
	logger    *zap.Logger
	chunk     int

	tap       *Tap
	pcm       *PCM
	offset    int
	state     PlaybackState
	volume    float64
	gen       uint64
	listeners []func(PlaybackState)
	wg        sync.WaitGroup
}

// NewPlayer writes everything it plays into tap.
func NewPlayer(tap *Tap, opts ...PlayerOption) *Player {
	p := &Player{
		newOutput: NewOtoOutput,
		logger:    zap.NewNop(),
		chunk:     defaultChunk,
		tap:       tap,
		state:     StateStopped,
		volume:    1,
	}
	p.cond = sync.NewCond(&p.mutex)
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// OnStateChange registers fn for every playback transition. fn runs without the
// player lock held.
func (p *Player) OnStateChange(fn func(PlaybackState)) {
	p.mutex.Lock()
	p.listeners = append(p.listeners, fn)
	p.mutex.Unlock()
}

// Load stops playback and replaces the track.
func (p *Player) Load(pcm *PCM) error {
	if pcm == nil || pcm.SampleRate <= 0 {
		return fmt.Errorf("load: invalid pcm")
	}
	p.Stop()

	p.mutex.Lock()
	p.pcm = pcm
	p.offset = 0
	p.mutex.Unlock()
	return nil
}

// Play starts or resumes playback. If already playing, does nothing.
func (p *Player) Play() error {
	p.mutex.Lock()
	if p.pcm == nil {
		p.mutex.Unlock()
		return ErrNoTrack
	}

	switch p.state {
	case StatePlaying:
		p.mutex.Unlock()
		return nil
	case StatePaused:
		p.state = StatePlaying
		p.cond.Broadcast()
	default:
		if p.output == nil || p.outRate != p.pcm.SampleRate {
			if p.output != nil {
				if err := p.output.Close(); err != nil {
					p.logger.Warn("closing audio output", zap.Error(err), zap.Int("sample_rate", p.outRate))
				}
				p.output = nil
			}
			out, err := p.newOutput(p.pcm.SampleRate)
			if err != nil {
				p.mutex.Unlock()
				return err
			}
			p.output = out
			p.outRate = p.pcm.SampleRate
		}
		if p.offset >= len(p.pcm.Data) {
			p.offset = 0
		}
		p.state = StatePlaying
		p.gen++
		p.wg.Add(1)
		go func(gen uint64) {
			final, changed := p.feed(gen)
			p.wg.Done()
			if changed {
				p.notify(final)
			}
		}(p.gen)
	}
	p.mutex.Unlock()

	p.logger.Debug("playback started")
	p.notify(StatePlaying)
	return nil
}

// Pause halts feeding but keeps the position for resume.
func (p *Player) Pause() {
	p.mutex.Lock()
	if p.state != StatePlaying {
		p.mutex.Unlock()
		return
	}
	p.state = StatePaused
	p.mutex.Unlock()

	p.notify(StatePaused)
}

// Toggle switches between playing and paused.
func (p *Player) Toggle() error {
	if p.State() == StatePlaying {
		p.Pause()
		return nil
	}
	return p.Play()
}

// Stop fully resets playback and position.
func (p *Player) Stop() {
	p.mutex.Lock()
	wasStopped := p.state == StateStopped
	p.state = StateStopped
	p.offset = 0
	p.gen++
	p.cond.Broadcast()
	p.mutex.Unlock()

	p.wg.Wait()
	if !wasStopped {
		p.notify(StateStopped)
	}
}

// Close stops playback and releases the output device.
func (p *Player) Close() error {
	p.Stop()
	p.mutex.Lock()
	defer p.mutex.Unlock()
	if p.output == nil {
		return nil
	}
	err := p.output.Close()
	p.output = nil
	return err
}

// SetVolume scales samples by v, clamped to 0..1.
func (p *Player) SetVolume(v float64) {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	p.mutex.Lock()
	p.volume = v
	p.mutex.Unlock()
}

// State returns whether the player is playing, paused, or stopped.
func (p *Player) State() PlaybackState {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return p.state
}

// Position is the amount of audio handed to the output so far.
func (p *Player) Position() time.Duration {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	if p.pcm == nil {
		return 0
	}
	return bytesToDuration(p.offset, p.pcm.BytesPerSecond())
}

// Duration returns the total duration of the loaded track.
func (p *Player) Duration() time.Duration {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	if p.pcm == nil {
		return 0
	}
	return p.pcm.Duration()
}

// Progress is Position over Duration in 0..1.
func (p *Player) Progress() float64 {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	if p.pcm == nil || len(p.pcm.Data) == 0 {
		return 0
	}
	return float64(p.offset) / float64(len(p.pcm.Data))
}

// feed runs until the track ends, the output fails, or gen is superseded. It reports
// a state change the caller still has to announce.
func (p *Player) feed(gen uint64) (PlaybackState, bool) {
	buf := make([]byte, p.chunk)

	for {
		p.mutex.Lock()
		for p.state == StatePaused && p.gen == gen {
			p.cond.Wait()
		}
		if p.state != StatePlaying || p.gen != gen {
			p.mutex.Unlock()
			return p.state, false
		}
		if p.offset >= len(p.pcm.Data) {
			p.state = StateStopped
			p.offset = 0
			p.mutex.Unlock()
			p.logger.Debug("playback finished")
			return StateStopped, true
		}

		end := p.offset + p.chunk
		if end > len(p.pcm.Data) {
			end = len(p.pcm.Data)
		}
		n := copy(buf, p.pcm.Data[p.offset:end])
		p.offset = end
		out := p.output
		vol := p.volume
		p.mutex.Unlock()

		applyVolume(buf[:n], vol)
		p.tap.WriteStereo16(buf[:n])
		if _, err := out.Write(buf[:n]); err != nil {
			p.logger.Warn("audio output failed", zap.Error(err))
			p.mutex.Lock()
			defer p.mutex.Unlock()
			if p.gen != gen {
				return p.state, false
			}
			p.state = StateStopped
			return StateStopped, true
		}
	}
}

func (p *Player) notify(s PlaybackState) {
	p.mutex.Lock()
	listeners := make([]func(PlaybackState), len(p.listeners))
	copy(listeners, p.listeners)
	p.mutex.Unlock()

	for _, fn := range listeners {
		fn(s)
	}
}

func applyVolume(data []byte, vol float64) {
	if vol >= 1 {
		return
	}
	for i := 0; i+1 < len(data); i += 2 {
		s := int16(data[i]) | int16(data[i+1])<<8
		s = int16(float64(s) * vol)
		data[i] = byte(s)
		data[i+1] = byte(s >> 8)
	}
}

func bytesToDuration(n, bytesPerSecond int) time.Duration {
	if bytesPerSecond <= 0 {
		return 0
	}
	return time.Duration(float64(n) / float64(bytesPerSecond) * float64(time.Second))
}
