// Package queue persists transcription work items in SQLite and exposes
// the lifecycle operations the workflow manager drives: claiming the next
// item, recording progress and heartbeats, and recovering items that were
// interrupted mid-stage.
package queue
