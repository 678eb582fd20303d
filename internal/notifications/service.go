package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/nzbgetcom/Extension-RemoveSamples/internal/config"
)

const userAgent = "RemoveSamples-Go/1.0"

// Service defines the notification surface exposed to the hook.
type Service interface {
	NotifyCleanupCompleted(ctx context.Context, nzbName string, removedFiles, removedDirs int, reclaimedMB float64) error
	NotifyGateBlocked(ctx context.Context, nzbName string, candidates int) error
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
		endpoint:      topic,
		client:        &http.Client{Timeout: timeout},
		notifyCleanup: cfg.Notifications.Cleanup,
		notifyErrors:  cfg.Notifications.Errors,
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint      string
	client        *http.Client
	notifyCleanup bool
	notifyErrors  bool
}

func (n *ntfyService) NotifyCleanupCompleted(ctx context.Context, nzbName string, removedFiles, removedDirs int, reclaimedMB float64) error {
	if !n.notifyCleanup {
		return nil
	}
	nzbName = strings.TrimSpace(nzbName)
	if nzbName == "" {
		nzbName = "unnamed download"
	}
	data := payload{
		title:   "RemoveSamples - Cleaned",
		message: fmt.Sprintf("%s: removed %d files / %d dirs (%.1f MB)", nzbName, removedFiles, removedDirs, reclaimedMB),
		tags:    []string{"removesamples", "cleanup", "completed"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyGateBlocked(ctx context.Context, nzbName string, candidates int) error {
	if !n.notifyErrors {
		return nil
	}
	nzbName = strings.TrimSpace(nzbName)
	data := payload{
		title:    "RemoveSamples - Import Blocked",
		message:  fmt.Sprintf("Test gate held back %s: %d sample candidates present", nzbName, candidates),
		tags:     []string{"removesamples", "gate", "blocked"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyError(ctx context.Context, err error, contextLabel string) error {
	if !n.notifyErrors {
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
		title:    "RemoveSamples - Error",
		message:  builder.String(),
		tags:     []string{"removesamples", "error", "alert"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "RemoveSamples - Test",
		message:  "Notification system test",
		tags:     []string{"removesamples", "test"},
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

func (noopService) NotifyCleanupCompleted(context.Context, string, int, int, float64) error {
	return nil
}
func (noopService) NotifyGateBlocked(context.Context, string, int) error { return nil }
func (noopService) NotifyError(context.Context, error, string) error     { return nil }
func (noopService) TestNotification(context.Context) error               { return nil }
