// Package subtitles turns recognized speech into SRT subtitle files.
// Cues are built from recognizer sentence timestamps when available and
// fall back to a proportional split of the full transcript otherwise.
package subtitles
