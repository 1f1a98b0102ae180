package media

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// ExtractAudio extracts the audio stream from a source file into a mono
// 16kHz signed 16-bit WAV suitable for speech recognition. Video,
// subtitle and data streams are discarded.
func ExtractAudio(ctx context.Context, ffmpegBinary, source, dest string) error {
	source = strings.TrimSpace(source)
	dest = strings.TrimSpace(dest)
	if source == "" || dest == "" {
		return fmt.Errorf("extract audio: source and destination are required")
	}
	args := []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", source,
		"-vn",
		"-sn",
		"-dn",
		"-ac", "1",
		"-ar", "16000",
		"-c:a", "pcm_s16le",
		dest,
	}
	cmd := exec.CommandContext(ctx, ffmpegBinary, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg extract: %w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}
