package fileutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_CreatesDefaultFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fileutils", "config")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	// A default file must now exist on disk.
	_, err = os.Stat(path)
	require.NoError(t, err)

	assert.Equal(t, DefaultAlgorithm, cfg.Algorithm())
	assert.Equal(t, DefaultHashWorkers, cfg.HashWorkers())
	assert.Equal(t, "human", cfg.OutputFormat())

	size, err := cfg.ChunkSize()
	require.NoError(t, err)
	assert.Equal(t, DefaultChunkSize, size)

	walk := cfg.WalkDefaults()
	assert.False(t, walk.Dotfiles)
	assert.False(t, walk.FollowSymlinks)
	assert.True(t, walk.Recursive)
}

func TestLoadConfig_ReadsExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config")
	content := `[filehash]
default = sha512

[performance]
hash_workers = 8
hash_buffer = 2M

[symlink]
follow = true

[walk]
dotfiles = true
excludes = node_modules, .git

[output]
format = json
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "sha512", cfg.Algorithm())
	assert.Equal(t, 8, cfg.HashWorkers())
	assert.Equal(t, "json", cfg.OutputFormat())

	size, err := cfg.ChunkSize()
	require.NoError(t, err)
	assert.Equal(t, 2*1024*1024, size)

	walk := cfg.WalkDefaults()
	assert.True(t, walk.Dotfiles)
	assert.True(t, walk.FollowSymlinks)
	assert.Contains(t, walk.Excludes, "node_modules")
	assert.Contains(t, walk.Excludes, ".git")
}

func TestConfig_InvalidHashBuffer(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config")
	content := `[performance]
hash_buffer = lots
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	_, err = cfg.ChunkSize()
	var cerr *ConfigError
	require.ErrorAs(t, err, &cerr)
}

func TestConfig_InvalidWorkerCountFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config")
	content := `[performance]
hash_workers = -3
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultHashWorkers, cfg.HashWorkers())
}

func TestParseHumanSize(t *testing.T) {
	tests := []struct {
		input    string
		expected int
		wantErr  bool
	}{
		{"0", 0, false},
		{"512", 512, false},
		{"64K", 64 * 1024, false},
		{"64KB", 64 * 1024, false},
		{"2M", 2 * 1024 * 1024, false},
		{"1.5G", int(1.5 * 1024 * 1024 * 1024), false},
		{" 8k ", 8 * 1024, false},
		{"", 0, true},
		{"M", 0, true},
		{"12Q", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseHumanSize(tt.input)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.input)
			continue
		}
		require.NoError(t, err, "input %q", tt.input)
		assert.Equal(t, tt.expected, got, "input %q", tt.input)
	}
}

func TestSafeDisplayPath(t *testing.T) {
	assert.Equal(t, "/tmp/plain.txt", SafeDisplayPath("/tmp/plain.txt"))
	assert.Equal(t, "/tmp/é.txt", SafeDisplayPath("/tmp/é.txt"))

	mangled := string([]byte{'/', 't', 'm', 'p', '/', 0xff, 0xfe})
	quoted := SafeDisplayPath(mangled)
	assert.NotEqual(t, mangled, quoted)
	assert.Contains(t, quoted, "\\x")
}
