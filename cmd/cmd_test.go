package cmd

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

// execute runs the root command with args and fresh flag values.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	rootCmd.PersistentFlags().VisitAll(func(f *pflag.Flag) {
		if err := f.Value.Set(f.DefValue); err != nil {
			t.Fatalf("reset --%s: %v", f.Name, err)
		}
		f.Changed = false
	})

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append(args, "--log-file", filepath.Join(t.TempDir(), "goeq.log")))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestThemesListsBuiltins(t *testing.T) {
	out, err := execute(t, "themes")
	if err != nil {
		t.Fatalf("themes: %v", err)
	}
	for _, name := range []string{"classic", "monokai", "solarized", "nord", "dracula"} {
		if !strings.Contains(out, name) {
			t.Errorf("output missing %q:\n%s", name, out)
		}
	}
	if !strings.Contains(out, "* classic") {
		t.Errorf("default theme not marked:\n%s", out)
	}
}

func TestInvalidFlagsRejected(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"one column", []string{"themes", "--cols", "1"}, "cols"},
		{"zero rows", []string{"themes", "--rows", "0"}, "rows"},
		{"zero fps", []string{"themes", "--fps", "0"}, "fps"},
		{"bad drift", []string{"themes", "--drift", "sideways"}, "drift"},
		{"bad renderer", []string{"themes", "--renderer", "svg"}, "renderer"},
		{"descending bands", []string{"themes", "--bands", "100,50"}, "bands"},
		{"single band", []string{"themes", "--bands", "100"}, "bands"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestBandsFlag(t *testing.T) {
	if _, err := execute(t, "themes", "--bands", "60, 250, 1k, 4k, 16k"); err != nil {
		t.Fatalf("themes: %v", err)
	}
	want := []float64{60, 250, 1000, 4000, 16000}
	if len(cfg.Bands) != len(want) {
		t.Fatalf("bands = %v", cfg.Bands)
	}
	for i := range want {
		if cfg.Bands[i] != want[i] {
			t.Fatalf("bands = %v, want %v", cfg.Bands, want)
		}
	}
}

func TestPlayRequiresSource(t *testing.T) {
	if _, err := execute(t, "play"); err == nil {
		t.Fatal("expected an error without a source")
	}
}

func TestSnapshotMissingFile(t *testing.T) {
	_, err := execute(t, "snapshot", filepath.Join(t.TempDir(), "missing.mp3"), "--at", "1s")
	if err == nil || !strings.Contains(err.Error(), "open error") {
		t.Fatalf("err = %v, want open error", err)
	}
}

func TestFormatBandSet(t *testing.T) {
	if got := formatBandSet([]float64{32, 60, 1000}); got != "32,60,1000" {
		t.Errorf("formatBandSet = %q", got)
	}
}
