package audio

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/dhowden/tag"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/encoding/unicode"

	"goeq/pkg/utils"
)

// Metadata is what the header line and the snapshot summary show about a track.
type Metadata struct {
	Title      string
	Artist     string
	Album      string
	Year       int
	Genre      string
	Duration   time.Duration
	BitRate    int
	SampleRate int
	Channels   int
	Format     string
	FileSize   int64
	Tagged     bool
}

// ExtractMetadata reads tags from data when present. Audio properties come from pcm.
// Untagged files get placeholder names rather than an error.
func ExtractMetadata(data []byte, pcm *PCM) *Metadata {
	metadata := &Metadata{
		FileSize: int64(len(data)),
		Channels: numChannels,
		Format:   "MP3",
	}

	if m, err := tag.ReadFrom(bytes.NewReader(data)); err == nil {
		metadata.Tagged = true
		metadata.Title = tryDecode(m.Title())
		metadata.Artist = tryDecode(m.Artist())
		metadata.Album = tryDecode(m.Album())
		metadata.Genre = tryDecode(m.Genre())
		metadata.Year = m.Year()
		if f := string(m.FileType()); f != "" {
			metadata.Format = f
		}
	}

	if pcm != nil {
		metadata.SampleRate = pcm.SampleRate
		metadata.Duration = pcm.Duration()
		if secs := metadata.Duration.Seconds(); secs > 0 {
			metadata.BitRate = int(float64(len(data)*8) / secs / 1000)
		}
	}

	if metadata.Title == "" {
		metadata.Title = "Unknown Title"
	}
	if metadata.Artist == "" {
		metadata.Artist = "Unknown Artist"
	}
	if metadata.Album == "" {
		metadata.Album = "Unknown Album"
	}

	return metadata
}

// Header is the one-line "Artist - Title" label.
func (m *Metadata) Header() string {
	return fmt.Sprintf("%s - %s", m.Artist, m.Title)
}

func tryDecode(text string) string {
	if text == "" {
		return ""
	}

	// List of encodings to try
	decoders := []struct {
		name    string
		decoder func([]byte) (string, error)
	}{
		{"UTF-8", func(b []byte) (string, error) { return string(b), nil }},
		{"Windows-1251", func(b []byte) (string, error) {
			decoder := charmap.Windows1251.NewDecoder()
			return decoder.String(string(b))
		}},
		{"KOI8-R", func(b []byte) (string, error) {
			decoder := charmap.KOI8R.NewDecoder()
			return decoder.String(string(b))
		}},
		{"ISO-8859-5", func(b []byte) (string, error) {
			decoder := charmap.ISO8859_5.NewDecoder()
			return decoder.String(string(b))
		}},
		{"CP866", func(b []byte) (string, error) {
			decoder := charmap.CodePage866.NewDecoder()
			return decoder.String(string(b))
		}},
		{"GB18030", func(b []byte) (string, error) {
			decoder := simplifiedchinese.GB18030.NewDecoder()
			return decoder.String(string(b))
		}},
		{"Big5", func(b []byte) (string, error) {
			decoder := traditionalchinese.Big5.NewDecoder()
			return decoder.String(string(b))
		}},
		{"EUC-JP", func(b []byte) (string, error) {
			decoder := japanese.EUCJP.NewDecoder()
			return decoder.String(string(b))
		}},
		{"EUC-KR", func(b []byte) (string, error) {
			decoder := korean.EUCKR.NewDecoder()
			return decoder.String(string(b))
		}},
	}

	// Try each decoder
	input := []byte(text)
	for _, dec := range decoders {
		decoded, err := dec.decoder(input)
		if err == nil && isReadable(decoded) {
			return decoded
		}
	}

	// If nothing worked, try UTF-16
	decoder := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
	if decoded, err := decoder.String(text); err == nil && isReadable(decoded) {
		return decoded
	}

	// As a last resort, try to clean up the string
	return cleanString(text)
}

// isReadable checks if the string contains readable characters
func isReadable(s string) bool {
	if s == "" {
		return false
	}

	readable := 0
	for _, r := range s {
		if r >= 32 && r < 127 || r >= 0x400 && r <= 0x4FF || r >= 0x3040 && r <= 0x30FF || r >= 0x4E00 && r <= 0x9FFF {
			readable++
		}
	}
	return float64(readable)/float64(len([]rune(s))) > 0.5
}

// cleanString removes or replaces problematic characters
func cleanString(s string) string {
	var result strings.Builder
	for _, r := range s {
		if r >= 32 && r < 127 || r >= 0x400 && r <= 0x4FF || r >= 0x3040 && r <= 0x30FF || r >= 0x4E00 && r <= 0x9FFF {
			result.WriteRune(r)
		} else {
			result.WriteRune('?')
		}
	}
	return result.String()
}

func (m *Metadata) String() string {
	var b strings.Builder

	b.WriteString("┌─── Track Information ──────────────────────────────\n")
	fmt.Fprintf(&b, "│ %-15s: %s\n", "Title", m.Title)
	fmt.Fprintf(&b, "│ %-15s: %s\n", "Artist", m.Artist)
	fmt.Fprintf(&b, "│ %-15s: %s\n", "Album", m.Album)
	if m.Year != 0 {
		fmt.Fprintf(&b, "│ %-15s: %d\n", "Year", m.Year)
	}
	if m.Genre != "" {
		fmt.Fprintf(&b, "│ %-15s: %s\n", "Genre", m.Genre)
	}
	b.WriteString("├─── Audio ─────────────────────────────────────────\n")
	fmt.Fprintf(&b, "│ %-15s: %s\n", "Format", m.Format)
	fmt.Fprintf(&b, "│ %-15s: %s\n", "Duration", utils.FormatDuration(m.Duration))
	fmt.Fprintf(&b, "│ %-15s: %d kbps\n", "Bit Rate", m.BitRate)
	fmt.Fprintf(&b, "│ %-15s: %d Hz\n", "Sample Rate", m.SampleRate)
	fmt.Fprintf(&b, "│ %-15s: %d bytes\n", "File Size", m.FileSize)
	b.WriteString("└──────────────────────────────────────────────────\n")

	return b.String()
}
