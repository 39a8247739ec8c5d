package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func TestOSReadAndStat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	if err := os.WriteFile(path, []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}

	p := NewOS()

	info, err := p.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if !info.Mode().IsRegular() {
		t.Error("expected a regular file")
	}
	if info.Size() != 5 {
		t.Errorf("size = %d, want 5", info.Size())
	}

	data, err := p.Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(data) != "hello" {
		t.Errorf("data = %q, want %q", data, "hello")
	}
}

func TestOSMissingFile(t *testing.T) {
	p := NewOS()
	if _, err := p.Stat(filepath.Join(t.TempDir(), "nope.txt")); err == nil {
		t.Error("Stat of missing file should fail")
	}
	if _, err := p.Read(filepath.Join(t.TempDir(), "nope.txt")); err == nil {
		t.Error("Read of missing file should fail")
	}
}
