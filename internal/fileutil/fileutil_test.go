package fileutil_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nzbgetcom/Extension-RemoveSamples/internal/fileutil"
	"github.com/nzbgetcom/Extension-RemoveSamples/internal/testsupport"
)

func TestMoveFileCreatesParents(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "a", "sample.mkv")
	dst := filepath.Join(root, "quarantine", "a", "sample.mkv")
	testsupport.WriteFile(t, src, 2048)

	if err := fileutil.MoveFile(src, dst); err != nil {
		t.Fatalf("MoveFile: %v", err)
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Fatal("source should be gone")
	}
	info, err := os.Stat(dst)
	if err != nil {
		t.Fatalf("stat destination: %v", err)
	}
	if info.Size() != 2048 {
		t.Fatalf("size changed: %d", info.Size())
	}
}

func TestCopyFilePreservesContent(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "src.bin")
	dst := filepath.Join(root, "dst.bin")
	if err := os.WriteFile(src, []byte("sample-bytes"), 0o600); err != nil {
		t.Fatalf("write source: %v", err)
	}

	if err := fileutil.CopyFile(src, dst); err != nil {
		t.Fatalf("CopyFile: %v", err)
	}
	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("read destination: %v", err)
	}
	if string(data) != "sample-bytes" {
		t.Fatalf("content mismatch: %q", data)
	}
}

func TestDirSize(t *testing.T) {
	root := t.TempDir()
	testsupport.WriteFile(t, filepath.Join(root, "a.bin"), 100)
	testsupport.WriteFile(t, filepath.Join(root, "sub", "b.bin"), 200)

	if got := fileutil.DirSize(root); got != 300 {
		t.Fatalf("DirSize = %d, want 300", got)
	}
}
