// Package preflight validates the host before the pipeline runs:
// directory permissions, free disk space, external binaries, and the
// readiness of the managed recognition runtime.
package preflight
