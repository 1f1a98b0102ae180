package media

import (
	"fmt"
	"os"

	"github.com/go-audio/wav"
)

// WAVInfo summarizes the header of a decoded WAV file.
type WAVInfo struct {
	SampleRate int
	Channels   int
	BitDepth   int
}

// VerifyWAV checks that the file at path is a readable WAV with the
// sample rate and channel layout the recognizer expects. It returns the
// decoded header so callers can log what was actually produced.
func VerifyWAV(path string, wantSampleRate, wantChannels int) (WAVInfo, error) {
	file, err := os.Open(path)
	if err != nil {
		return WAVInfo{}, fmt.Errorf("verify wav: %w", err)
	}
	defer file.Close()

	decoder := wav.NewDecoder(file)
	if !decoder.IsValidFile() {
		return WAVInfo{}, fmt.Errorf("verify wav: %s is not a valid wav file", path)
	}
	decoder.ReadInfo()

	info := WAVInfo{
		SampleRate: int(decoder.SampleRate),
		Channels:   int(decoder.NumChans),
		BitDepth:   int(decoder.BitDepth),
	}
	if wantSampleRate > 0 && info.SampleRate != wantSampleRate {
		return info, fmt.Errorf("verify wav: expected %d Hz, got %d Hz", wantSampleRate, info.SampleRate)
	}
	if wantChannels > 0 && info.Channels != wantChannels {
		return info, fmt.Errorf("verify wav: expected %d channel(s), got %d", wantChannels, info.Channels)
	}
	return info, nil
}
