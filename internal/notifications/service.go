package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"soundshield/internal/config"
)

const userAgent = "SoundShield-Go/0.1.0"

// Service defines the notification surface exposed to workflow components.
type Service interface {
	NotifyFileDetected(ctx context.Context, title string) error
	NotifyTranscriptionCompleted(ctx context.Context, title, language string) error
	NotifySubtitlesGenerated(ctx context.Context, title string, cueCount int) error
	NotifyProcessingCompleted(ctx context.Context, title, transcriptPath string) error
	NotifyQueueCompleted(ctx context.Context, processed, failed int, duration time.Duration) error
	NotifyError(ctx context.Context, err error, context string) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint:         topic,
		client:           &http.Client{Timeout: timeout},
		transcriptEvents: cfg.Notifications.Transcript,
		queueEvents:      cfg.Notifications.Queue,
		errorEvents:      cfg.Notifications.Errors,
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint         string
	client           *http.Client
	transcriptEvents bool
	queueEvents      bool
	errorEvents      bool
}

func (n *ntfyService) NotifyFileDetected(ctx context.Context, title string) error {
	if !n.queueEvents {
		return nil
	}
	data := payload{
		title:   "SoundShield - File Queued",
		message: fmt.Sprintf("New recording queued: %s", strings.TrimSpace(title)),
		tags:    []string{"soundshield", "queue", "detected"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyTranscriptionCompleted(ctx context.Context, title, language string) error {
	if !n.transcriptEvents {
		return nil
	}
	title = strings.TrimSpace(title)
	message := fmt.Sprintf("Transcription complete: %s", title)
	if language = strings.TrimSpace(language); language != "" {
		message = fmt.Sprintf("%s (%s)", message, language)
	}
	data := payload{
		title:   "SoundShield - Transcribed",
		message: message,
		tags:    []string{"soundshield", "transcribe", "completed"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifySubtitlesGenerated(ctx context.Context, title string, cueCount int) error {
	if !n.transcriptEvents {
		return nil
	}
	data := payload{
		title:   "SoundShield - Subtitles Ready",
		message: fmt.Sprintf("Generated %d subtitle cues for %s", cueCount, strings.TrimSpace(title)),
		tags:    []string{"soundshield", "subtitles", "completed"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyProcessingCompleted(ctx context.Context, title, transcriptPath string) error {
	if !n.transcriptEvents {
		return nil
	}
	title = strings.TrimSpace(title)
	message := fmt.Sprintf("Ready: %s", title)
	if transcriptPath = strings.TrimSpace(transcriptPath); transcriptPath != "" {
		message = fmt.Sprintf("%s\nFile: %s", message, transcriptPath)
	}
	data := payload{
		title:    "SoundShield - Complete",
		message:  message,
		tags:     []string{"soundshield", "workflow", "completed"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyQueueCompleted(ctx context.Context, processed, failed int, duration time.Duration) error {
	if !n.queueEvents {
		return nil
	}
	duration = duration.Round(time.Second)
	if duration < 0 {
		duration = 0
	}
	durationText := duration.String()
	if duration == 0 {
		durationText = "0s"
	}

	var title, message string
	if failed == 0 {
		title = "SoundShield - Queue Complete"
		message = fmt.Sprintf("Queue processing complete: %d items processed in %s", processed, durationText)
	} else {
		title = "SoundShield - Queue Complete (with errors)"
		message = fmt.Sprintf("Queue processing complete: %d succeeded, %d failed in %s", processed, failed, durationText)
	}

	data := payload{
		title:   title,
		message: message,
		tags:    []string{"soundshield", "queue", "completed"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyError(ctx context.Context, err error, contextLabel string) error {
	if !n.errorEvents {
		return nil
	}
	var builder strings.Builder
	builder.WriteString("Error")
	if contextLabel = strings.TrimSpace(contextLabel); contextLabel != "" {
		builder.WriteString(" with ")
		builder.WriteString(contextLabel)
	}
	builder.WriteString(": ")
	if err != nil {
		builder.WriteString(strings.TrimSpace(err.Error()))
	} else {
		builder.WriteString("unknown")
	}

	data := payload{
		title:    "SoundShield - Error",
		message:  builder.String(),
		tags:     []string{"soundshield", "error", "alert"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "SoundShield - Test",
		message:  "Notification system test",
		tags:     []string{"soundshield", "test"},
		priority: "low",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyFileDetected(context.Context, string) error                    { return nil }
func (noopService) NotifyTranscriptionCompleted(context.Context, string, string) error  { return nil }
func (noopService) NotifySubtitlesGenerated(context.Context, string, int) error         { return nil }
func (noopService) NotifyProcessingCompleted(context.Context, string, string) error     { return nil }
func (noopService) NotifyQueueCompleted(context.Context, int, int, time.Duration) error { return nil }
func (noopService) NotifyError(context.Context, error, string) error                    { return nil }
func (noopService) TestNotification(context.Context) error                              { return nil }
