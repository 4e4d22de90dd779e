package persona

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// DefaultOutput is the file name used when no output path is configured.
const DefaultOutput = "config.json"

// Encode writes cfg as JSON indented with four spaces.
func Encode(w io.Writer, cfg *Config) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	enc.SetEscapeHTML(false)
	return enc.Encode(cfg)
}

// Save validates cfg and writes it to path, replacing any existing file.
// cfg itself is left untouched.
func Save(cfg *Config, path string) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid persona config: %w", err)
	}
	out := *cfg
	if out.PathRestriction.List == nil {
		out.PathRestriction.List = []string{}
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	if err := Encode(f, &out); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}
