package funasr

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Sentence is one recognized sentence with timing in seconds.
type Sentence struct {
	Text  string
	Start float64
	End   float64
}

// Result contains the output of a recognition run.
type Result struct {
	// Text is the full punctuated transcript.
	Text string
	// Sentences carry per-sentence timing when the recognizer produced it.
	Sentences []Sentence
	// JSONPath is the raw result file written by the runner.
	JSONPath string
}

type payloadSentence struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// resultPayload is the JSON structure emitted by the runner. Sentence
// times are in milliseconds, matching FunASR sentence_info.
type resultPayload struct {
	Text      string            `json:"text"`
	Sentences []payloadSentence `json:"sentences"`
}

// LoadResult reads and parses a runner result file.
func LoadResult(jsonPath string) (Result, error) {
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return Result{}, err
	}
	var payload resultPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return Result{}, fmt.Errorf("parse recognition result: %w", err)
	}

	result := Result{Text: strings.TrimSpace(payload.Text)}
	for _, sentence := range payload.Sentences {
		text := strings.TrimSpace(sentence.Text)
		if text == "" {
			continue
		}
		result.Sentences = append(result.Sentences, Sentence{
			Text:  text,
			Start: sentence.Start / 1000,
			End:   sentence.End / 1000,
		})
	}
	return result, nil
}
