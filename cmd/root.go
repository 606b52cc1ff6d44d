package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"goeq/internal/config"
	"goeq/internal/logging"
)

var (
	cfg       = config.Default()
	bandsFlag string
	logger    = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "goeq",
	Short: "A terminal audio equalizer",
	Long: `goeq plays an mp3 file or URL and draws a bar-grid equalizer from its spectrum.

Frequency bins are averaged into bands, the bands are stretched across the grid's
columns, and every cell is colored by how the current and previous frame compare
with its row threshold. Frames are produced at a fixed rate regardless of how often
the terminal refreshes.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(*cobra.Command, []string) {
		_ = logger.Sync()
	},
}

func init() {
	bindFlags(rootCmd.PersistentFlags())
}

// bindFlags exposes every Config field as a flag.
func bindFlags(fs *pflag.FlagSet) {
	d := config.Default()
	fs.IntVar(&cfg.Rows, "rows", d.Rows, "grid rows")
	fs.IntVar(&cfg.Cols, "cols", d.Cols, "grid columns")
	fs.StringVar(&bandsFlag, "bands", formatBandSet(d.Bands), "comma separated band edges in Hz, k suffix for kHz")
	fs.Float64Var(&cfg.FPS, "fps", d.FPS, "target frames per second")
	fs.Float64Var(&cfg.HostRate, "host-rate", d.HostRate, "host tick rate in Hz")
	fs.StringVar(&cfg.Drift, "drift", d.Drift, "frame timing drift policy: advance or resync")
	fs.StringVar(&cfg.Renderer, "renderer", d.Renderer, "renderer: blocks or glyphs")
	fs.StringVar(&cfg.Theme, "theme", d.Theme, "color theme (see 'goeq themes')")
	fs.StringVar(&cfg.Colors, "colors", d.Colors, `JSON palette, e.g. {"barColor":"#ff0000"}; overrides --theme`)
	fs.BoolVar(&cfg.Debug, "debug", d.Debug, "show the band readout and frame counters")
	fs.IntVar(&cfg.FFTSize, "fft-size", d.FFTSize, "analyser FFT size")
	fs.Float64Var(&cfg.Volume, "volume", d.Volume, "playback volume 0..1")
	fs.StringVar(&cfg.LogLevel, "log-level", d.LogLevel, "log level: debug, info, warn, error")
	fs.StringVar(&cfg.LogFile, "log-file", d.LogFile, "log file (default ~/.goeq/logs/goeq_<time>.log)")
}

func setup(*cobra.Command, []string) error {
	bands, err := config.ParseBands(bandsFlag)
	if err != nil {
		return fmt.Errorf("--bands: %w", err)
	}
	cfg.Bands = bands
	if err := cfg.Validate(); err != nil {
		return err
	}

	opts := []logging.Option{
		logging.WithLevel(cfg.LogLevel),
		logging.WithDevelopment(cfg.LogLevel == "debug"),
	}
	if cfg.LogFile != "" {
		opts = append(opts, logging.WithFile(cfg.LogFile))
	}
	l, err := logging.New(opts...)
	if err != nil {
		return err
	}
	logger = l.Named("goeq")
	logger.Debug("config", zap.Any("config", cfg))
	return nil
}

func formatBandSet(bands []float64) string {
	parts := make([]string, len(bands))
	for i, b := range bands {
		parts[i] = fmt.Sprintf("%g", b)
	}
	return strings.Join(parts, ",")
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
