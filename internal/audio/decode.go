package audio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/hajimehoshi/go-mp3"
)

const (
	bytesPerSample = 2
	numChannels    = 2
	frameSize      = bytesPerSample * numChannels
)

// PCM is decoded audio: interleaved 16-bit little-endian stereo.
type PCM struct {
	Data       []byte
	SampleRate int
}

// Frames returns the number of stereo frames.
func (p *PCM) Frames() int {
	return len(p.Data) / frameSize
}

// Duration returns the playing time of the whole buffer.
func (p *PCM) Duration() time.Duration {
	if p.SampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(p.Frames()) / float64(p.SampleRate) * float64(time.Second))
}

// BytesPerSecond is the playback data rate.
func (p *PCM) BytesPerSecond() int {
	return p.SampleRate * frameSize
}

// FrameAt converts a time offset to a frame index clamped to the buffer.
func (p *PCM) FrameAt(t time.Duration) int {
	i := int(t.Seconds() * float64(p.SampleRate))
	if i < 0 {
		return 0
	}
	if i > p.Frames() {
		return p.Frames()
	}
	return i
}

// Mono mixes frames [from, to) down to mono samples in [-1, 1].
func (p *PCM) Mono(from, to int) []float64 {
	if from < 0 {
		from = 0
	}
	if to > p.Frames() {
		to = p.Frames()
	}
	if to <= from {
		return nil
	}
	out := make([]float64, 0, to-from)
	return appendMono(out, p.Data[from*frameSize:to*frameSize])
}

// appendMono converts interleaved 16-bit stereo bytes to mono floats.
func appendMono(dst []float64, data []byte) []float64 {
	frames := len(data) / frameSize
	for i := 0; i < frames; i++ {
		left := int16(data[i*4+0]) | (int16(data[i*4+1]) << 8)
		right := int16(data[i*4+2]) | (int16(data[i*4+3]) << 8)
		dst = append(dst, (float64(left)+float64(right))*0.5/32768.0)
	}
	return dst
}

// DecodeMP3 converts MP3 bytes to PCM. progressFn, when set, receives the fraction of
// input consumed.
func DecodeMP3(ctx context.Context, mp3Bytes []byte, progressFn func(float64)) (*PCM, error) {
	reader := bytes.NewReader(mp3Bytes)
	dec, err := mp3.NewDecoder(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to init mp3 decoder: %w", err)
	}

	var data []byte
	if n := dec.Length(); n > 0 {
		data = make([]byte, 0, n)
	}
	totalSize := int64(len(mp3Bytes))

	buf := make([]byte, 8192)
	for {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("decode cancelled: %w", err)
		}

		n, readErr := dec.Read(buf)
		if n > 0 {
			data = append(data, buf[:n]...)
			if progressFn != nil && totalSize > 0 {
				consumed := totalSize - int64(reader.Len())
				progressFn(float64(consumed) / float64(totalSize))
			}
		}

		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return nil, fmt.Errorf("decode mp3 read error: %w", readErr)
		}
	}

	return &PCM{Data: data[:len(data)-len(data)%frameSize], SampleRate: dec.SampleRate()}, nil
}
