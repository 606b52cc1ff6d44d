package utils

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// AudioExtensions lists the file types the decoder can play.
var AudioExtensions = map[string]bool{
	".mp3": true,
}

// Magic numbers for mp3 streams
var MagicNumbers = map[string][]byte{
	"id3":     {0x49, 0x44, 0x33}, // ID3
	"mpeg1l3": {0xFF, 0xFB},
	"mpeg2l3": {0xFF, 0xF3},
	"mpeg25":  {0xFF, 0xE3},
}

// IsURL reports whether src names an http(s) resource.
func IsURL(src string) bool {
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}

// ExpandPath resolves a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// IsAudioFile checks the extension and the leading bytes of path.
func IsAudioFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if !AudioExtensions[ext] {
		return false
	}

	file, err := os.Open(path)
	if err != nil {
		return false
	}
	defer file.Close()

	header := make([]byte, 8)
	n, err := file.Read(header)
	if err != nil || n < 3 {
		return false
	}
	return IsAudioHeader(header[:n])
}

// IsAudioHeader sniffs the first bytes of a stream.
func IsAudioHeader(header []byte) bool {
	if strings.HasPrefix(http.DetectContentType(header), "audio/") {
		return true
	}

	for _, magic := range MagicNumbers {
		if len(magic) <= len(header) {
			matches := true
			for i, b := range magic {
				if header[i] != b {
					matches = false
					break
				}
			}
			if matches {
				return true
			}
		}
	}
	return false
}

// FormatDuration renders d as m:ss.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Seconds())
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// FormatETA renders a remaining time in the largest sensible unit.
func FormatETA(eta time.Duration) string {
	if eta > 1*time.Hour {
		return fmt.Sprintf("%.1f hours", eta.Hours())
	} else if eta > 1*time.Minute {
		return fmt.Sprintf("%.1f minutes", eta.Minutes())
	}
	return fmt.Sprintf("%.0f seconds", eta.Seconds())
}
