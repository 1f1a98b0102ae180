package subtitles

import (
	"fmt"
	"os"
	"strings"
)

// WriteTranscript writes the plain-text transcript to path. Sentence
// timings are dropped; each sentence lands on its own line so the file
// reads cleanly without a player.
func WriteTranscript(path string, text string, sentences []Sentence) error {
	content := strings.TrimSpace(text)
	if len(sentences) > 0 {
		lines := make([]string, 0, len(sentences))
		for _, sentence := range sentences {
			if trimmed := strings.TrimSpace(sentence.Text); trimmed != "" {
				lines = append(lines, trimmed)
			}
		}
		if len(lines) > 0 {
			content = strings.Join(lines, "\n")
		}
	}
	if content == "" {
		return fmt.Errorf("write transcript: no text to write")
	}
	if err := os.WriteFile(path, []byte(content+"\n"), 0o644); err != nil {
		return fmt.Errorf("write transcript: %w", err)
	}
	return nil
}
