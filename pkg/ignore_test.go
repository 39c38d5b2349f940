package fileutils

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadIgnoreFile_Patterns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ignore")
	content := `# build output
\.o$
^vendor/

.*~$
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write ignore file: %v", err)
	}

	patterns, err := LoadIgnoreFile(path)
	if err != nil {
		t.Fatalf("LoadIgnoreFile failed: %v", err)
	}
	if len(patterns) != 3 {
		t.Fatalf("Expected 3 patterns, got %d", len(patterns))
	}
	if !patterns[0].MatchString("main.o") {
		t.Error("Expected first pattern to match main.o")
	}
	if !patterns[1].MatchString("vendor/lib/x.go") {
		t.Error("Expected second pattern to match vendor paths")
	}
}

func TestLoadIgnoreFile_Missing(t *testing.T) {
	patterns, err := LoadIgnoreFile(filepath.Join(t.TempDir(), "missing"))
	if err != nil {
		t.Fatalf("Missing ignore file must not be an error, got %v", err)
	}
	if patterns != nil {
		t.Errorf("Expected no patterns, got %v", patterns)
	}
}

func TestLoadIgnoreFile_InvalidPattern(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ignore")
	if err := os.WriteFile(path, []byte("ok\n[unclosed\n"), 0644); err != nil {
		t.Fatalf("Failed to write ignore file: %v", err)
	}

	_, err := LoadIgnoreFile(path)
	var cerr *ConfigError
	if !errors.As(err, &cerr) {
		t.Fatalf("Expected ConfigError, got %v", err)
	}
	if !strings.Contains(cerr.Reason, "line 2") {
		t.Errorf("Expected the error to name line 2, got %q", cerr.Reason)
	}
}

func TestWalk_IgnorePatternsApplied(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "keep.txt"), "k")
	writeFile(t, filepath.Join(dir, "skip.o"), "s")
	writeFile(t, filepath.Join(dir, "build", "out.txt"), "o")

	ignorePath := filepath.Join(t.TempDir(), "ignore")
	if err := os.WriteFile(ignorePath, []byte("\\.o$\n/build/\n"), 0644); err != nil {
		t.Fatalf("Failed to write ignore file: %v", err)
	}
	patterns, err := LoadIgnoreFile(ignorePath)
	if err != nil {
		t.Fatalf("LoadIgnoreFile failed: %v", err)
	}

	cfg := DefaultWalkConfig()
	cfg.IgnorePatterns = patterns

	paths := collectPaths(t, dir, cfg, NewErrorSink())
	if len(paths) != 1 || filepath.Base(paths[0]) != "keep.txt" {
		t.Errorf("Expected only keep.txt, got %v", paths)
	}
}
