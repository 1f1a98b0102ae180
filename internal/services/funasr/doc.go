// Package funasr wraps the FunASR speech recognizer. Recognition runs in
// the managed Python runtime through a small runner script; this package
// builds the invocation and parses the JSON result it writes.
package funasr
