package fileutils

import (
	"context"
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"
	"sort"
	"strings"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/blake2s"
	"golang.org/x/crypto/sha3"
)

// DefaultAlgorithm is used when no algorithm is specified.
const DefaultAlgorithm = "sha3-256"

// DefaultChunkSize is the read size used when streaming a file into the
// digest accumulator. The chunk size affects throughput only, never the
// resulting digest.
const DefaultChunkSize = 64 * 1024

// algorithms maps the normalised algorithm name to an incremental digest
// constructor. Built once at process start; configuration validation
// checks names against this capability set.
var algorithms = map[string]func() hash.Hash{
	"md5":        md5.New,
	"sha1":       sha1.New,
	"sha224":     sha256.New224,
	"sha256":     sha256.New,
	"sha384":     sha512.New384,
	"sha512":     sha512.New,
	"sha512-224": sha512.New512_224,
	"sha512-256": sha512.New512_256,
	"sha3-224":   func() hash.Hash { return sha3.New224() },
	"sha3-256":   func() hash.Hash { return sha3.New256() },
	"sha3-384":   func() hash.Hash { return sha3.New384() },
	"sha3-512":   func() hash.Hash { return sha3.New512() },
	"blake2b":    func() hash.Hash { h, _ := blake2b.New512(nil); return h },
	"blake2s":    func() hash.Hash { h, _ := blake2s.New256(nil); return h },
}

// DigestResult pairs a file path with its computed digest.
type DigestResult struct {
	Path      string `json:"path"`
	Algorithm string `json:"algorithm"`
	Digest    string `json:"digest"`
}

// NormaliseAlgorithm lowercases an algorithm name and maps the
// underscore spelling ("sha3_256") onto the canonical dashed form.
func NormaliseAlgorithm(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "_", "-")
}

// NewHasher returns a fresh digest accumulator for the named algorithm.
// The name is case-insensitive; an unknown name is a configuration error.
func NewHasher(algorithm string) (hash.Hash, error) {
	newFunc, ok := algorithms[NormaliseAlgorithm(algorithm)]
	if !ok {
		return nil, &ConfigError{Reason: fmt.Sprintf("unsupported hash algorithm: %s", algorithm)}
	}
	return newFunc(), nil
}

// SupportedAlgorithms returns the sorted names of every supported
// algorithm.
func SupportedAlgorithms() []string {
	names := make([]string, 0, len(algorithms))
	for name := range algorithms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HashFile computes the hex-encoded digest of the file's full content,
// reading it in chunkSize sequential chunks so the whole file is never
// held in memory. A non-positive chunkSize selects DefaultChunkSize. An
// empty file yields the algorithm's digest of zero bytes.
//
// Cancellation is checked between chunk reads; a cancelled computation
// returns the context error, not a HashError. Read failures return a
// HashError carrying the path.
func HashFile(ctx context.Context, path, algorithm string, chunkSize int) (string, error) {
	hasher, err := NewHasher(algorithm)
	if err != nil {
		return "", err
	}
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}

	file, err := os.Open(path)
	if err != nil {
		return "", &HashError{Path: path, Err: err}
	}
	defer file.Close()

	buf := make([]byte, chunkSize)
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		n, err := file.Read(buf)
		if n > 0 {
			hasher.Write(buf[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", &HashError{Path: path, Err: err}
		}
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}
