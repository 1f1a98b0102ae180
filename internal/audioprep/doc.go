// Package audioprep implements the extraction stage: it turns any
// supported audio or video source into the mono 16kHz WAV the
// recognizer consumes, and records the audio duration on the item.
package audioprep
