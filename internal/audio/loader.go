package audio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"

	"goeq/pkg/utils"
)

// ErrNotAudio is returned for local files that do not look like mp3 audio.
var ErrNotAudio = errors.New("not an audio file")

// Progress describes an in-flight load.
type Progress struct {
	Message     string
	BytesLoaded int64
	TotalBytes  int64
	StartTime   time.Time
}

// Fraction is BytesLoaded over TotalBytes, or 0 when the size is unknown.
func (p Progress) Fraction() float64 {
	if p.TotalBytes <= 0 {
		return 0
	}
	return float64(p.BytesLoaded) / float64(p.TotalBytes)
}

// ETA extrapolates the remaining time from the rate so far.
func (p Progress) ETA() string {
	if p.BytesLoaded == 0 || p.TotalBytes <= 0 {
		return ""
	}
	elapsed := time.Since(p.StartTime)
	if elapsed <= 0 {
		return ""
	}
	rate := float64(p.BytesLoaded) / elapsed.Seconds()
	if rate <= 0 {
		return ""
	}
	remaining := float64(p.TotalBytes-p.BytesLoaded) / rate
	return utils.FormatETA(time.Duration(remaining * float64(time.Second)))
}

// ProgressFunc receives load progress; it may be nil.
type ProgressFunc func(Progress)

// Track is a decoded source ready to play.
type Track struct {
	Source   string
	Metadata *Metadata
	PCM      *PCM
}

// Loader reads a source path or URL into memory and decodes it.
type Loader struct {
	client *http.Client
	logger *zap.Logger
}

// NewLoader uses client for URL sources; nil means a client with a 30s timeout.
func NewLoader(client *http.Client, logger *zap.Logger) *Loader {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{client: client, logger: logger}
}

// LoadTrack fetches, decodes and tags src.
func (l *Loader) LoadTrack(ctx context.Context, src string, progress ProgressFunc) (*Track, error) {
	data, err := l.Load(ctx, src, progress)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	pcm, err := DecodeMP3(ctx, data, func(f float64) {
		if progress != nil {
			progress(Progress{
				Message:     "Decoding...",
				BytesLoaded: int64(f * float64(len(data))),
				TotalBytes:  int64(len(data)),
				StartTime:   start,
			})
		}
	})
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", src, err)
	}

	meta := ExtractMetadata(data, pcm)
	l.logger.Info("track loaded",
		zap.String("source", src),
		zap.String("title", meta.Title),
		zap.Duration("duration", meta.Duration),
		zap.Int("sample_rate", pcm.SampleRate))

	return &Track{Source: src, Metadata: meta, PCM: pcm}, nil
}

// Load returns the raw bytes of src.
func (l *Loader) Load(ctx context.Context, src string, progress ProgressFunc) ([]byte, error) {
	if utils.IsURL(src) {
		return l.loadFromURL(ctx, src, progress)
	}
	return l.loadFromFile(ctx, utils.ExpandPath(src), progress)
}

func (l *Loader) loadFromFile(ctx context.Context, path string, progress ProgressFunc) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open error: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat error: %w", err)
	}
	if !utils.IsAudioFile(path) {
		return nil, fmt.Errorf("%s: %w", path, ErrNotAudio)
	}

	return readAll(ctx, file, info.Size(), "Loading file...", progress)
}

func (l *Loader) loadFromURL(ctx context.Context, url string, progress ProgressFunc) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("server returned %d", resp.StatusCode)
	}

	return readAll(ctx, resp.Body, resp.ContentLength, "Downloading...", progress)
}

func readAll(ctx context.Context, r io.Reader, size int64, msg string, progress ProgressFunc) ([]byte, error) {
	var data []byte
	if size > 0 {
		data = make([]byte, 0, size)
	}
	buf := make([]byte, 32*1024)
	var totalRead int64
	readStart := time.Now()

	for {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("cancelled: %w", err)
		}

		n, err := r.Read(buf)
		if n > 0 {
			data = append(data, buf[:n]...)
			totalRead += int64(n)
			if progress != nil {
				progress(Progress{
					Message:     msg,
					BytesLoaded: totalRead,
					TotalBytes:  size,
					StartTime:   readStart,
				})
			}
		}

		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read error: %w", err)
		}
	}

	return data, nil
}
