package wordlist

import (
	"fmt"
	"os"
	"strings"
)

// Load reads a newline-delimited wordlist and returns its entries in file
// order. Lines are trimmed; blank lines, comments and repeated entries are
// dropped so each candidate is probed once per target.
func Load(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading wordlist %s: %w", path, err)
	}
	return Parse(string(data)), nil
}

// Parse splits raw wordlist content into entries using the same rules as Load.
func Parse(raw string) []string {
	lines := strings.Split(raw, "\n")
	seen := make(map[string]struct{}, len(lines))
	var result []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if _, ok := seen[line]; !ok {
			seen[line] = struct{}{}
			result = append(result, line)
		}
	}
	return result
}
