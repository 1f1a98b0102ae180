// Command soundshield is the CLI entry point for the SoundShield
// transcription pipeline. It talks to a running daemon over a unix
// socket when one is available and falls back to direct queue access
// for offline inspection.
package main
