// Package transcription implements the recognition stage: it runs the
// FunASR runtime against the extracted audio and records the transcript
// result on the queue item.
package transcription
