package nzbget

import (
	"fmt"
	"strings"
)

// Signal is a post-processing result reported to NZBGet through the process
// exit code. The numeric values are fixed by the host and must never change.
type Signal int

const (
	// SignalSuccess reports that at least one item was removed without errors.
	SignalSuccess Signal = 93
	// SignalError reports a configuration failure, filesystem errors during
	// the run, or a test-mode gate block.
	SignalError Signal = 94
	// SignalNone reports a completed run that performed no destructive action.
	SignalNone Signal = 95
)

func (s Signal) String() string {
	switch s {
	case SignalSuccess:
		return "SUCCESS"
	case SignalError:
		return "ERROR"
	case SignalNone:
		return "NONE"
	default:
		return fmt.Sprintf("Signal(%d)", int(s))
	}
}

// Code returns the process exit code for the signal.
func (s Signal) Code() int { return int(s) }

// ExitError carries a host signal out of a cobra command so main can exit
// with the contract code instead of cobra's generic failure code.
type ExitError struct {
	Signal Signal
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("post-processing result %s (exit %d)", e.Signal, e.Signal.Code())
}

// Exit wraps a signal in an ExitError.
func Exit(signal Signal) error {
	return &ExitError{Signal: signal}
}

// StatusSucceeded reports whether a download status string indicates a
// successful download. NZBGet uses values like "SUCCESS/ALL" and
// "SUCCESS/UNPACK"; anything not starting with SUCCESS means the download
// should be left untouched.
func StatusSucceeded(status string) bool {
	return strings.HasPrefix(strings.ToUpper(strings.TrimSpace(status)), "SUCCESS")
}
