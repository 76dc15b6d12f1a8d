package output

import (
	"encoding/json"
	"fmt"
	"os"
)

// WriteJSON writes ids to path as an indented JSON array of strings. An
// empty set is written as [] rather than null.
func WriteJSON(path string, ids []string) error {
	if ids == nil {
		ids = []string{}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating report %s: %w", path, err)
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(ids); err != nil {
		f.Close()
		return fmt.Errorf("writing report %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing report %s: %w", path, err)
	}
	return nil
}
