package history

import (
	"strings"
	"time"
)

// Run is one recorded cleaning pass.
type Run struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time

	Directory string
	NZBName   string
	Category  string

	Mode   string
	Signal int

	FilesScanned int
	DirsScanned  int
	Candidates   int
	RemovedFiles int
	RemovedDirs  int
	ReclaimedMB  float64
	Errors       int
}

// Removal is one entry a run deleted or quarantined.
type Removal struct {
	RelPath string
	Kind    string
	Action  string
	SizeMB  float64
	Reasons []string
}

func joinReasons(reasons []string) string {
	return strings.Join(reasons, ",")
}

func splitReasons(joined string) []string {
	if joined == "" {
		return nil
	}
	return strings.Split(joined, ",")
}
