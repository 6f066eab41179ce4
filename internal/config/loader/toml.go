// Package loader reads configuration sources — TOML files and prefixed
// environment variables — into the nested maps the layer stack consumes.
package loader

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// TOML reads and parses the TOML file at path. A missing file is not an
// error: it returns (nil, nil) so callers can treat absent config files
// as empty layers.
func TOML(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("loader: read %s: %w", path, err)
	}

	var out map[string]any
	if err := toml.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("loader: parse %s: %w", path, err)
	}
	return out, nil
}
