// Package workflow advances queue items through the configured processing
// stages.
//
// The Manager polls the queue, reclaims stale work via heartbeats, and feeds
// items into registered stage handlers (extractor, transcriber, subtitles,
// organizer) while capturing progress and failure metadata. It also aggregates
// queue stats, calls stage health checks, and emits queue-level notifications
// when processing starts or completes.
//
// Processing is deliberately single lane: speech recognition saturates the
// GPU or CPU on its own, so items move through the pipeline one at a time in
// submission order.
package workflow
