package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"goeq/internal/audio"
	"goeq/pkg/eq"
	"goeq/pkg/utils"
	"goeq/pkg/viz"
)

// snapshotLead is how much audio before the requested offset is replayed so that the
// smoothing and the previous-frame state look as they would during playback.
const snapshotLead = 500 * time.Millisecond

// SnapshotResult is the last frame computed for a snapshot and its rendering.
type SnapshotResult struct {
	Frame  eq.Frame
	View   string
	Frames int
}

// Snapshot loads src and prints the grid as it would look at offset at.
func (a *App) Snapshot(ctx context.Context, src string, at time.Duration, w io.Writer) error {
	track, err := a.loader.LoadTrack(ctx, src, nil)
	if err != nil {
		return err
	}

	res, err := a.SnapshotTrack(track, at)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "%s  [%s / %s]\n", track.Metadata.Header(),
		utils.FormatDuration(at), utils.FormatDuration(track.Metadata.Duration))
	fmt.Fprintln(w, res.View)
	fmt.Fprintf(w, "bands: %s\n", viz.FormatBands(res.Frame.Bands))
	return nil
}

// SnapshotTrack replays the frames leading up to at without playing any audio.
func (a *App) SnapshotTrack(track *audio.Track, at time.Duration) (SnapshotResult, error) {
	if dur := track.PCM.Duration(); at > dur {
		return SnapshotResult{}, fmt.Errorf("offset %v past end of track (%v)", at, dur)
	}
	if at < 0 {
		return SnapshotResult{}, fmt.Errorf("negative offset %v", at)
	}

	src := audio.NewOfflineSource(track.PCM, audio.WithFFTSize(a.cfg.FFTSize))
	pipeline, err := eq.NewPipeline(a.cfg.Bands, a.cfg.Rows, a.cfg.Cols)
	if err != nil {
		return SnapshotResult{}, err
	}

	interval := time.Duration(float64(time.Second) / a.cfg.FPS)
	start := at - snapshotLead
	if start < 0 {
		start = 0
	}

	var res SnapshotResult
	var steps []time.Duration
	for t := at; t >= start; t -= interval {
		steps = append(steps, t)
	}
	for i := len(steps) - 1; i >= 0; i-- {
		src.Seek(steps[i])
		f, err := pipeline.Compute(src)
		if err != nil {
			return SnapshotResult{}, err
		}
		pipeline.Commit(f)
		res.Frame = f
		res.Frames++
	}

	view, err := a.manager.Render(res.Frame)
	if err != nil {
		return SnapshotResult{}, fmt.Errorf("render snapshot: %w", err)
	}
	res.View = view

	a.logger.Debug("snapshot rendered",
		zap.Duration("at", at),
		zap.Int("frames", res.Frames),
		zap.String("bands", viz.FormatBands(res.Frame.Bands)))
	return res, nil
}
