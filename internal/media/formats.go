package media

import (
	"path/filepath"
	"strings"
)

var audioExtensions = map[string]struct{}{
	".mp3":  {},
	".wav":  {},
	".m4a":  {},
	".flac": {},
	".ogg":  {},
	".wma":  {},
	".aac":  {},
}

var videoExtensions = map[string]struct{}{
	".mp4":  {},
	".mkv":  {},
	".avi":  {},
	".mov":  {},
	".wmv":  {},
	".flv":  {},
	".webm": {},
}

// IsAudioFile reports whether the path carries a supported audio extension.
func IsAudioFile(path string) bool {
	_, ok := audioExtensions[normalizeExt(path)]
	return ok
}

// IsVideoFile reports whether the path carries a supported video extension.
func IsVideoFile(path string) bool {
	_, ok := videoExtensions[normalizeExt(path)]
	return ok
}

// IsSupportedFile reports whether the path is a supported audio or video source.
func IsSupportedFile(path string) bool {
	return IsAudioFile(path) || IsVideoFile(path)
}

// SupportedExtensions returns the full set of recognized extensions sorted
// audio first, useful for help text and ingest filters.
func SupportedExtensions() []string {
	exts := make([]string, 0, len(audioExtensions)+len(videoExtensions))
	for ext := range audioExtensions {
		exts = append(exts, ext)
	}
	for ext := range videoExtensions {
		exts = append(exts, ext)
	}
	sortStrings(exts)
	return exts
}

func sortStrings(values []string) {
	for i := 1; i < len(values); i++ {
		for j := i; j > 0 && values[j] < values[j-1]; j-- {
			values[j], values[j-1] = values[j-1], values[j]
		}
	}
}

func normalizeExt(path string) string {
	return strings.ToLower(filepath.Ext(strings.TrimSpace(path)))
}
