// Package media identifies supported audio and video sources, probes
// container metadata with ffprobe, and extracts normalized mono 16kHz
// WAV audio with ffmpeg for downstream transcription.
package media
