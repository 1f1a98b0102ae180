// Package organizer moves finished transcripts and subtitles into the
// output directory and cleans up per-item staging space.
package organizer
