// Package daemon hosts the long-running SoundShield process.
//
// It enforces single-instance execution with a lock file, owns the workflow
// manager lifecycle, watches removable media mounts for new recordings, and
// exposes queue operations consumed by the IPC layer.
package daemon
