// Package setup bootstraps the managed Python runtime the recognizer
// runs in: it creates the virtual environment when absent, selects the
// GPU or CPU build of the numerical backend based on an nvidia-smi
// probe, installs the recognition packages in a fixed order, and drops
// the runner script into the environment.
package setup
