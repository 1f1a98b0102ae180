package subtitles

import (
	"fmt"
	"math"
)

// Cue is a single subtitle entry with start and end times in seconds.
type Cue struct {
	Start float64
	End   float64
	Text  string
}

// Sentence is one recognized sentence with its timing in seconds.
type Sentence struct {
	Text  string
	Start float64
	End   float64
}

// Options controls cue sizing during generation.
type Options struct {
	MaxCharsPerCue int
	MinCueSeconds  float64
	MaxCueSeconds  float64
}

// DefaultOptions returns the cue sizing used when the configuration does
// not override it.
func DefaultOptions() Options {
	return Options{
		MaxCharsPerCue: 40,
		MinCueSeconds:  1.5,
		MaxCueSeconds:  5.0,
	}
}

func (o Options) normalized() Options {
	if o.MaxCharsPerCue <= 0 {
		o.MaxCharsPerCue = 40
	}
	if o.MinCueSeconds <= 0 {
		o.MinCueSeconds = 1.5
	}
	if o.MaxCueSeconds <= o.MinCueSeconds {
		o.MaxCueSeconds = o.MinCueSeconds + 3.5
	}
	return o
}

// FormatTimestamp renders seconds as an SRT timestamp (HH:MM:SS,mmm).
func FormatTimestamp(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		seconds = 0
	}
	total := int(seconds)
	hours := total / 3600
	minutes := (total % 3600) / 60
	secs := total % 60
	millis := int(math.Round((seconds - float64(total)) * 1000))
	if millis >= 1000 {
		millis -= 1000
		secs++
		if secs >= 60 {
			secs -= 60
			minutes++
			if minutes >= 60 {
				minutes -= 60
				hours++
			}
		}
	}
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, secs, millis)
}
