package output

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"
)

func WriteTextFile(path string, contents string) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// WriteJSONFile writes v as indented JSON.
func WriteJSONFile(path string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return WriteTextFile(path, string(b)+"\n")
}

func ensureDir(path string) error {
	if err := os.MkdirAll(filepath.Dir(filepath.Clean(path)), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	return nil
}
