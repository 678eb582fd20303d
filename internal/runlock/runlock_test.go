package runlock_test

import (
	"errors"
	"testing"

	"github.com/nzbgetcom/Extension-RemoveSamples/internal/runlock"
)

func TestAcquireAndRelease(t *testing.T) {
	stateDir := t.TempDir()
	lock := runlock.New(stateDir, "/downloads/Movie.2024")

	if err := lock.Acquire(); err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if err := lock.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
}

func TestContentionOnSameDestination(t *testing.T) {
	stateDir := t.TempDir()
	first := runlock.New(stateDir, "/downloads/Movie.2024")
	second := runlock.New(stateDir, "/downloads/Movie.2024")

	if err := first.Acquire(); err != nil {
		t.Fatalf("first Acquire: %v", err)
	}
	defer func() { _ = first.Release() }()

	err := second.Acquire()
	if !errors.Is(err, runlock.ErrHeld) {
		t.Fatalf("expected ErrHeld, got %v", err)
	}
}

func TestDifferentDestinationsDoNotContend(t *testing.T) {
	stateDir := t.TempDir()
	first := runlock.New(stateDir, "/downloads/Movie.2024")
	second := runlock.New(stateDir, "/downloads/Show.S01")

	if first.Path() == second.Path() {
		t.Fatalf("lock paths should differ: %s", first.Path())
	}

	if err := first.Acquire(); err != nil {
		t.Fatalf("first Acquire: %v", err)
	}
	defer func() { _ = first.Release() }()

	if err := second.Acquire(); err != nil {
		t.Fatalf("second Acquire: %v", err)
	}
	defer func() { _ = second.Release() }()
}

func TestReacquireAfterRelease(t *testing.T) {
	stateDir := t.TempDir()
	lock := runlock.New(stateDir, "/downloads/Movie.2024")

	if err := lock.Acquire(); err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if err := lock.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}

	again := runlock.New(stateDir, "/downloads/Movie.2024")
	if err := again.Acquire(); err != nil {
		t.Fatalf("reacquire: %v", err)
	}
	_ = again.Release()
}
