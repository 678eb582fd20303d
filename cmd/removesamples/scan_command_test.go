package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nzbgetcom/Extension-RemoveSamples/internal/testsupport"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestScanReportsCandidatesWithoutMutating(t *testing.T) {
	dir := t.TempDir()
	testsupport.WriteFile(t, filepath.Join(dir, "movie.sample.mkv"), 1<<20)
	testsupport.WriteFile(t, filepath.Join(dir, "movie.mkv"), 500<<20)

	out, err := execute(t, "scan", dir)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if !strings.Contains(out, "movie.sample.mkv") {
		t.Fatalf("candidate missing from output:\n%s", out)
	}
	if !strings.Contains(out, "1 candidates") {
		t.Fatalf("summary missing from output:\n%s", out)
	}
	if _, statErr := os.Stat(filepath.Join(dir, "movie.sample.mkv")); statErr != nil {
		t.Fatal("scan must never mutate the tree")
	}
}

func TestScanEmptyDirectory(t *testing.T) {
	out, err := execute(t, "scan", t.TempDir())
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if !strings.Contains(out, "No sample candidates found.") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestScanRejectsMissingDirectory(t *testing.T) {
	_, err := execute(t, "scan", filepath.Join(t.TempDir(), "nope"))
	if err == nil {
		t.Fatal("expected an error for a missing directory")
	}
}

func TestScanRelativePercentFlag(t *testing.T) {
	dir := t.TempDir()
	testsupport.WriteFile(t, filepath.Join(dir, "feature.mkv"), 2000<<20)
	testsupport.WriteFile(t, filepath.Join(dir, "preview.mkv"), 40<<20)

	out, err := execute(t, "scan", dir, "--relative-percent", "5")
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if !strings.Contains(out, "preview.mkv") {
		t.Fatalf("relative-size candidate missing:\n%s", out)
	}
	if !strings.Contains(out, "relative-size") {
		t.Fatalf("reason missing:\n%s", out)
	}
}
