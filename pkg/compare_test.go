package fileutils

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func TestCompareDirs_Classification(t *testing.T) {
	left := t.TempDir()
	right := t.TempDir()

	writeFile(t, filepath.Join(left, "same.txt"), "identical content")
	writeFile(t, filepath.Join(right, "same.txt"), "identical content")

	writeFile(t, filepath.Join(left, "diff.txt"), "left version")
	writeFile(t, filepath.Join(right, "diff.txt"), "right version")

	writeFile(t, filepath.Join(left, "only-left.txt"), "l")
	writeFile(t, filepath.Join(right, "only-right.txt"), "r")

	writeFile(t, filepath.Join(left, "sub", "nested.txt"), "shared")
	writeFile(t, filepath.Join(right, "sub", "nested.txt"), "shared")

	sink := NewErrorSink()
	result, err := CompareDirs(context.Background(), left, right, "sha256", DefaultWalkConfig(), DupeOptions{}, sink)
	if err != nil {
		t.Fatalf("CompareDirs failed: %v", err)
	}

	assertStrings(t, "LeftOnly", result.LeftOnly, []string{"only-left.txt"})
	assertStrings(t, "RightOnly", result.RightOnly, []string{"only-right.txt"})
	assertStrings(t, "Same", result.Same, []string{"same.txt", filepath.Join("sub", "nested.txt")})
	assertStrings(t, "Different", result.Different, []string{"diff.txt"})

	if sink.Len() != 0 {
		t.Errorf("Expected no recoverable errors, got %v", sink.Errors())
	}
}

func TestCompareDirs_EmptyTrees(t *testing.T) {
	result, err := CompareDirs(context.Background(), t.TempDir(), t.TempDir(), "sha256", DefaultWalkConfig(), DupeOptions{}, nil)
	if err != nil {
		t.Fatalf("CompareDirs failed: %v", err)
	}
	if len(result.LeftOnly)+len(result.RightOnly)+len(result.Same)+len(result.Different) != 0 {
		t.Errorf("Expected empty result, got %+v", result)
	}
}

func TestCompareDirs_InvalidAlgorithm(t *testing.T) {
	_, err := CompareDirs(context.Background(), t.TempDir(), t.TempDir(), "crc1337", DefaultWalkConfig(), DupeOptions{}, nil)
	var cerr *ConfigError
	if !errors.As(err, &cerr) {
		t.Fatalf("Expected ConfigError, got %v", err)
	}
}

func TestCompareDirs_MissingRoot(t *testing.T) {
	_, err := CompareDirs(context.Background(), filepath.Join(t.TempDir(), "missing"), t.TempDir(), "sha256", DefaultWalkConfig(), DupeOptions{}, nil)
	if err == nil {
		t.Fatal("Expected an error for a missing left root")
	}
}

func assertStrings(t *testing.T, label string, got, expected []string) {
	t.Helper()
	if len(got) != len(expected) {
		t.Errorf("%s: expected %v, got %v", label, expected, got)
		return
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("%s: expected %v, got %v", label, expected, got)
			return
		}
	}
}
