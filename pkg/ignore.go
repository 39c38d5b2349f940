package fileutils

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strings"
)

// LoadIgnoreFile reads regular expression patterns from path, one per
// line, skipping blank lines and '#' comments. The returned patterns are
// intended for WalkConfig.IgnorePatterns. A missing file yields no
// patterns; an invalid pattern is a configuration error naming the line.
func LoadIgnoreFile(path string) ([]*regexp.Regexp, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open ignore file: %w", err)
	}
	defer file.Close()

	var patterns []*regexp.Regexp
	scanner := bufio.NewScanner(file)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		pattern, err := regexp.Compile(line)
		if err != nil {
			return nil, &ConfigError{
				Reason: fmt.Sprintf("invalid ignore pattern at line %d: %s", lineNum, line),
				Err:    err,
			}
		}
		patterns = append(patterns, pattern)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading ignore file: %w", err)
	}

	return patterns, nil
}
