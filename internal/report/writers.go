package report

import (
	"os"
	"path/filepath"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

// WriteJSON writes v indented, creating parent directories.
func WriteJSON(path string, v any) error {
	b, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return errors.Wrapf(err, "marshal %s", path)
	}
	return WriteText(path, string(b)+"\n")
}

func WriteText(path, s string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "mkdir %s", filepath.Dir(path))
	}
	if err := os.WriteFile(path, []byte(s), 0o644); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	return nil
}
