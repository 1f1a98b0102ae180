// Package textutil holds small text helpers shared by the pipeline stages.
package textutil
