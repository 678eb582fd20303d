package notifications_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nzbgetcom/Extension-RemoveSamples/internal/config"
	"github.com/nzbgetcom/Extension-RemoveSamples/internal/notifications"
)

type captured struct {
	title    string
	priority string
	tags     string
	body     string
}

func newCapturingServer(t *testing.T) (*httptest.Server, *[]captured) {
	t.Helper()
	var requests []captured
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		requests = append(requests, captured{
			title:    r.Header.Get("Title"),
			priority: r.Header.Get("Priority"),
			tags:     r.Header.Get("Tags"),
			body:     string(body),
		})
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(server.Close)
	return server, &requests
}

func serviceFor(topic string, cleanup, errs bool) notifications.Service {
	cfg := config.Default()
	cfg.Notifications.NtfyTopic = topic
	cfg.Notifications.Cleanup = cleanup
	cfg.Notifications.Errors = errs
	return notifications.NewService(&cfg)
}

func TestUnconfiguredServiceIsNoop(t *testing.T) {
	service := serviceFor("", true, true)
	if err := service.NotifyCleanupCompleted(context.Background(), "x", 1, 0, 1.0); err != nil {
		t.Fatalf("noop should never fail: %v", err)
	}
	if err := service.TestNotification(context.Background()); err != nil {
		t.Fatalf("noop should never fail: %v", err)
	}
}

func TestCleanupNotification(t *testing.T) {
	server, requests := newCapturingServer(t)
	service := serviceFor(server.URL, true, false)

	err := service.NotifyCleanupCompleted(context.Background(), "Movie.2024", 3, 1, 42.5)
	if err != nil {
		t.Fatalf("NotifyCleanupCompleted: %v", err)
	}
	if len(*requests) != 1 {
		t.Fatalf("expected 1 request, got %d", len(*requests))
	}
	got := (*requests)[0]
	if got.title != "RemoveSamples - Cleaned" {
		t.Fatalf("unexpected title %q", got.title)
	}
	if got.body != "Movie.2024: removed 3 files / 1 dirs (42.5 MB)" {
		t.Fatalf("unexpected body %q", got.body)
	}
}

func TestCleanupNotificationDisabledByToggle(t *testing.T) {
	server, requests := newCapturingServer(t)
	service := serviceFor(server.URL, false, false)

	if err := service.NotifyCleanupCompleted(context.Background(), "x", 1, 0, 1.0); err != nil {
		t.Fatalf("disabled toggle should be silent: %v", err)
	}
	if len(*requests) != 0 {
		t.Fatalf("no request expected, got %d", len(*requests))
	}
}

func TestErrorNotificationPriorityAndToggle(t *testing.T) {
	server, requests := newCapturingServer(t)

	silent := serviceFor(server.URL, false, false)
	if err := silent.NotifyError(context.Background(), errors.New("boom"), "sweep"); err != nil {
		t.Fatalf("disabled errors toggle should be silent: %v", err)
	}
	if len(*requests) != 0 {
		t.Fatalf("no request expected, got %d", len(*requests))
	}

	loud := serviceFor(server.URL, false, true)
	if err := loud.NotifyError(context.Background(), errors.New("boom"), "sweep"); err != nil {
		t.Fatalf("NotifyError: %v", err)
	}
	got := (*requests)[0]
	if got.priority != "high" {
		t.Fatalf("expected high priority, got %q", got.priority)
	}
	if got.body != "Error with sweep: boom" {
		t.Fatalf("unexpected body %q", got.body)
	}
}

func TestTestNotificationBypassesToggles(t *testing.T) {
	server, requests := newCapturingServer(t)
	service := serviceFor(server.URL, false, false)

	if err := service.TestNotification(context.Background()); err != nil {
		t.Fatalf("TestNotification: %v", err)
	}
	if len(*requests) != 1 {
		t.Fatalf("expected 1 request, got %d", len(*requests))
	}
}

func TestServerErrorSurfaces(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "topic quota exceeded", http.StatusTooManyRequests)
	}))
	t.Cleanup(server.Close)

	service := serviceFor(server.URL, true, true)
	err := service.NotifyCleanupCompleted(context.Background(), "x", 1, 0, 1.0)
	if err == nil {
		t.Fatal("expected error from 429 response")
	}
}
