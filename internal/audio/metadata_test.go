package audio

import (
	"strings"
	"testing"
	"time"

	"golang.org/x/text/encoding/charmap"
)

func TestExtractMetadataUntagged(t *testing.T) {
	pcm := makePCM(8000, 440, 0.5, 8000)
	data := make([]byte, 4000)

	m := ExtractMetadata(data, pcm)
	if m.Tagged {
		t.Error("expected untagged")
	}
	if m.Title != "Unknown Title" || m.Artist != "Unknown Artist" {
		t.Errorf("placeholders = %q / %q", m.Title, m.Artist)
	}
	if m.Duration != time.Second || m.SampleRate != 8000 {
		t.Errorf("duration %v rate %d", m.Duration, m.SampleRate)
	}
	if m.BitRate != 32 {
		t.Errorf("BitRate = %d, want 32", m.BitRate)
	}
	if m.Header() != "Unknown Artist - Unknown Title" {
		t.Errorf("Header = %q", m.Header())
	}
	if !strings.Contains(m.String(), "Sample Rate    : 8000 Hz") {
		t.Errorf("String() missing sample rate:\n%s", m.String())
	}
}

func TestTryDecode(t *testing.T) {
	if got := tryDecode("Plain Title"); got != "Plain Title" {
		t.Errorf("ascii = %q", got)
	}
	if got := tryDecode(""); got != "" {
		t.Errorf("empty = %q", got)
	}

	raw, err := charmap.Windows1251.NewEncoder().String("Кино")
	if err != nil {
		t.Fatal(err)
	}
	if got := tryDecode(raw); got != "Кино" {
		t.Errorf("cp1251 = %q, want Кино", got)
	}
}

func TestCleanString(t *testing.T) {
	if got := cleanString("a\x01b"); got != "a?b" {
		t.Errorf("cleanString = %q", got)
	}
}
