package subtitles

import (
	"strings"
)

var sentenceEnders = map[rune]struct{}{
	'。': {},
	'！': {},
	'？': {},
	'.': {},
	'!': {},
	'?': {},
}

// FromSentences builds cues directly from recognizer sentence timestamps.
// Sentences longer than the cue character budget are chunked with timing
// spread proportionally inside the sentence window.
func FromSentences(sentences []Sentence, duration float64, opts Options) []Cue {
	opts = opts.normalized()
	var cues []Cue
	for _, sentence := range sentences {
		text := strings.TrimSpace(sentence.Text)
		if text == "" {
			continue
		}
		start, end := sentence.Start, sentence.End
		if end <= start {
			end = start + opts.MinCueSeconds
		}
		if duration > 0 && end > duration {
			end = duration
		}
		runes := []rune(text)
		if len(runes) <= opts.MaxCharsPerCue {
			cues = append(cues, Cue{Start: start, End: end, Text: text})
			continue
		}
		chunks := chunkRunes(runes, opts.MaxCharsPerCue)
		total := 0
		for _, chunk := range chunks {
			total += len(chunk)
		}
		window := end - start
		cursor := start
		for i, chunk := range chunks {
			share := window * float64(len(chunk)) / float64(total)
			chunkEnd := cursor + share
			if i == len(chunks)-1 {
				chunkEnd = end
			}
			cues = append(cues, Cue{Start: cursor, End: chunkEnd, Text: strings.TrimSpace(string(chunk))})
			cursor = chunkEnd
		}
	}
	return cues
}

// SplitTranscript splits a flat transcript into cues by sentence-ending
// punctuation and assigns timing proportional to character count. It is
// the fallback when the recognizer produced no sentence timestamps.
func SplitTranscript(text string, duration float64, opts Options) []Cue {
	opts = opts.normalized()
	text = strings.TrimSpace(text)
	if text == "" || duration <= 0 {
		return nil
	}

	pieces := splitSentences(text)
	if len(pieces) == 0 {
		pieces = chunkText(text, opts.MaxCharsPerCue)
	}
	if len(pieces) == 0 {
		return []Cue{{Start: 0, End: duration, Text: text}}
	}

	totalChars := 0
	for _, piece := range pieces {
		totalChars += len([]rune(piece))
	}
	if totalChars == 0 {
		return []Cue{{Start: 0, End: duration, Text: text}}
	}
	charSeconds := duration / float64(totalChars)

	var cues []Cue
	cursor := 0.0
	for _, piece := range pieces {
		span := float64(len([]rune(piece))) * charSeconds
		if span < opts.MinCueSeconds {
			span = opts.MinCueSeconds
		}
		if span > opts.MaxCueSeconds {
			span = opts.MaxCueSeconds
		}
		end := cursor + span
		if end > duration {
			end = duration
		}
		cues = append(cues, Cue{Start: cursor, End: end, Text: piece})
		cursor = end
		if cursor >= duration {
			break
		}
	}

	// Stretch the final cue to cover any remaining audio.
	if len(cues) > 0 && cues[len(cues)-1].End < duration {
		cues[len(cues)-1].End = duration
	}
	return cues
}

func splitSentences(text string) []string {
	var sentences []string
	var current []rune
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		current = append(current, runes[i])
		if _, ok := sentenceEnders[runes[i]]; !ok {
			continue
		}
		// Absorb consecutive enders such as "!?" or "。。。".
		for i+1 < len(runes) {
			if _, ok := sentenceEnders[runes[i+1]]; !ok {
				break
			}
			i++
			current = append(current, runes[i])
		}
		if trimmed := strings.TrimSpace(string(current)); trimmed != "" {
			sentences = append(sentences, trimmed)
		}
		current = current[:0]
	}
	if trimmed := strings.TrimSpace(string(current)); trimmed != "" {
		sentences = append(sentences, trimmed)
	}
	// A single unterminated run means no sentence boundary was found.
	if len(sentences) == 1 && sentences[0] == strings.TrimSpace(text) {
		if _, ok := sentenceEnders[lastRune(sentences[0])]; !ok {
			return nil
		}
	}
	return sentences
}

func chunkText(text string, size int) []string {
	var chunks []string
	for _, chunk := range chunkRunes([]rune(strings.TrimSpace(text)), size) {
		if trimmed := strings.TrimSpace(string(chunk)); trimmed != "" {
			chunks = append(chunks, trimmed)
		}
	}
	return chunks
}

func chunkRunes(runes []rune, size int) [][]rune {
	if size <= 0 {
		return [][]rune{runes}
	}
	var chunks [][]rune
	for start := 0; start < len(runes); start += size {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, runes[start:end])
	}
	return chunks
}

func lastRune(s string) rune {
	runes := []rune(s)
	if len(runes) == 0 {
		return 0
	}
	return runes[len(runes)-1]
}
