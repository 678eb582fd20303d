package nzbget_test

import (
	"errors"
	"testing"

	"github.com/nzbgetcom/Extension-RemoveSamples/internal/nzbget"
)

func TestStatusSucceeded(t *testing.T) {
	cases := []struct {
		status string
		want   bool
	}{
		{"SUCCESS", true},
		{"SUCCESS/ALL", true},
		{"success/unpack", true},
		{"  Success/All  ", true},
		{"FAILURE/PAR", false},
		{"WARNING/REPAIRABLE", false},
		{"", false},
		{"UNSUCCESSFUL", false},
	}
	for _, tc := range cases {
		if got := nzbget.StatusSucceeded(tc.status); got != tc.want {
			t.Errorf("StatusSucceeded(%q) = %v, want %v", tc.status, got, tc.want)
		}
	}
}

func TestSignalCodes(t *testing.T) {
	if nzbget.SignalSuccess.Code() != 93 {
		t.Fatalf("SUCCESS code = %d", nzbget.SignalSuccess.Code())
	}
	if nzbget.SignalError.Code() != 94 {
		t.Fatalf("ERROR code = %d", nzbget.SignalError.Code())
	}
	if nzbget.SignalNone.Code() != 95 {
		t.Fatalf("NONE code = %d", nzbget.SignalNone.Code())
	}
}

func TestExitErrorUnwrapsToSignal(t *testing.T) {
	err := nzbget.Exit(nzbget.SignalNone)
	var exitErr *nzbget.ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected ExitError, got %T", err)
	}
	if exitErr.Signal != nzbget.SignalNone {
		t.Fatalf("unexpected signal: %v", exitErr.Signal)
	}
}
