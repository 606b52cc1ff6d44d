package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"goeq/internal/app"
)

var playCmd = &cobra.Command{
	Use:   "play <file|url>",
	Short: "Play a track with the live equalizer",
	Long: `Load an mp3 file or http(s) URL and play it with the equalizer drawn in the terminal.

Keys: space play/pause, t theme, r renderer, d debug readout, +/- volume, q quit.

Example:
  goeq play ~/music/song.mp3 --rows 20 --cols 16 --theme nord
`,
	Args: cobra.ExactArgs(1),
	RunE: runPlay,
}

func init() {
	rootCmd.AddCommand(playCmd)
}

func runPlay(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(cfg, logger)
	if err != nil {
		return err
	}

	logger.Info("starting playback", zap.String("source", args[0]))
	if err := a.Run(ctx, args[0]); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
