package sweep

import (
	"fmt"
	"strconv"

	"github.com/nzbgetcom/Extension-RemoveSamples/internal/classify"
	"github.com/nzbgetcom/Extension-RemoveSamples/internal/nzbget"
)

// Mode names the action policy of a run.
type Mode string

const (
	ModeTest           Mode = "TEST"
	ModeLive           Mode = "LIVE"
	ModeLiveQuarantine Mode = "LIVE+QUARANTINE"
)

// EntryKind distinguishes file and directory candidates.
type EntryKind string

const (
	KindFile EntryKind = "file"
	KindDir  EntryKind = "dir"
)

// Action names what was done to a candidate.
type Action string

const (
	ActionDeleted     Action = "deleted"
	ActionQuarantined Action = "quarantined"
)

// Candidate is an entry the classification engine marked as a sample.
type Candidate struct {
	RelPath string
	Kind    EntryKind
	SizeMB  float64
	Reasons []classify.Reason
}

// Removal is a candidate that was acted on.
type Removal struct {
	Candidate
	Action Action
}

// Outcome aggregates one run. Invariant: removed counts <= candidate counts
// <= scanned counts.
type Outcome struct {
	FilesScanned int
	DirsScanned  int

	Candidates []Candidate
	Removed    []Removal

	RemovedFiles int
	RemovedDirs  int
	ReclaimedMB  float64
	Errors       int
	GateBlocked  bool

	Mode Mode
	// RelativePercent is the effective relative-size threshold; negative
	// means the rule was disabled.
	RelativePercent int
}

// Signal maps the outcome onto the host exit contract. Any error or a gate
// block reports ERROR; a pass that removed nothing reports NONE.
func (o Outcome) Signal() nzbget.Signal {
	switch {
	case o.Errors > 0 || o.GateBlocked:
		return nzbget.SignalError
	case o.RemovedFiles == 0 && o.RemovedDirs == 0:
		return nzbget.SignalNone
	default:
		return nzbget.SignalSuccess
	}
}

// RelativePercentLabel renders the effective threshold for the summary line.
func (o Outcome) RelativePercentLabel() string {
	if o.RelativePercent < 0 {
		return "disabled"
	}
	return strconv.Itoa(o.RelativePercent)
}

// Summary renders the single human-readable result line the host log shows.
func (o Outcome) Summary() string {
	return fmt.Sprintf(
		"Summary: removed %d files / %d dirs (%.1f MB). Mode: %s. FilesChecked=%d DirsChecked=%d Candidates=%d Rel%%=%s",
		o.RemovedFiles, o.RemovedDirs, o.ReclaimedMB, o.Mode,
		o.FilesScanned, o.DirsScanned, len(o.Candidates), o.RelativePercentLabel(),
	)
}
