package fileutils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteDuplicateReport_Format(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.txt")
	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create report file: %v", err)
	}

	groups := []DuplicateGroup{
		{
			Digest: "aaaa1111",
			Files:  []string{"/data/a.txt", "/data/b.txt"},
			Count:  2,
		},
		{
			Digest: "bbbb2222",
			Files:  []string{"/data/c.txt", "/data/d.txt", "/data/e.txt"},
			Count:  3,
		},
	}

	if err := WriteDuplicateReport(file, "sha256", groups); err != nil {
		t.Fatalf("WriteDuplicateReport failed: %v", err)
	}
	if err := file.Close(); err != nil {
		t.Fatalf("Failed to close report file: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read report back: %v", err)
	}

	expected := "\nsha256: aaaa1111\n\n" +
		"  /data/a.txt\n" +
		"  /data/b.txt\n" +
		"\nsha256: bbbb2222\n\n" +
		"  /data/c.txt\n" +
		"  /data/d.txt\n" +
		"  /data/e.txt\n"
	if string(data) != expected {
		t.Errorf("Report mismatch.\nExpected:\n%q\nGot:\n%q", expected, string(data))
	}
}

func TestWriteDuplicateReport_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.txt")
	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create report file: %v", err)
	}
	defer file.Close()

	if err := WriteDuplicateReport(file, "sha256", nil); err != nil {
		t.Fatalf("WriteDuplicateReport failed on empty groups: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read report back: %v", err)
	}
	if len(data) != 0 {
		t.Errorf("Expected empty report, got %q", string(data))
	}
}

func TestWriteDuplicateReport_ManyGroups(t *testing.T) {
	// Enough buffers to force chunking past any plausible IOV_MAX.
	path := filepath.Join(t.TempDir(), "report.txt")
	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create report file: %v", err)
	}

	var groups []DuplicateGroup
	for i := 0; i < 900; i++ {
		groups = append(groups, DuplicateGroup{
			Digest: strings.Repeat("ab", 8),
			Files:  []string{"/x/one", "/x/two"},
			Count:  2,
		})
	}

	if err := WriteDuplicateReport(file, "md5", groups); err != nil {
		t.Fatalf("WriteDuplicateReport failed: %v", err)
	}
	if err := file.Close(); err != nil {
		t.Fatalf("Failed to close report file: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Failed to stat report: %v", err)
	}
	perGroup := len("\nmd5: abababababababab\n\n") + 2*len("  /x/one\n")
	if info.Size() != int64(900*perGroup) {
		t.Errorf("Expected %d bytes, got %d", 900*perGroup, info.Size())
	}
}
