// Package services provides shared error classification and context helpers
// used by workflow stages and the external tool wrappers.
package services
