package shell

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// DefaultHistoryFile is created in the working directory.
const DefaultHistoryFile = ".goforce_history"

// History is an append-only command log on disk.
type History struct {
	path string
}

// NewHistory returns a history backed by path.
func NewHistory(path string) *History {
	return &History{path: path}
}

// Append adds one line to the history file.
func (h *History) Append(line string) error {
	f, err := os.OpenFile(h.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("opening history: %w", err)
	}
	if _, err := fmt.Fprintln(f, line); err != nil {
		f.Close()
		return fmt.Errorf("writing history: %w", err)
	}
	return f.Close()
}

// Lines returns the recorded commands, oldest first. A missing file is
// an empty history.
func (h *History) Lines() ([]string, error) {
	f, err := os.Open(h.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading history: %w", err)
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, sc.Err()
}
