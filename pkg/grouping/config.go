package grouping

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-fieldsets/pkg/naming"
)

// LoadConfigFS walks the provided filesystem for a grouping config document
// (JSON or YAML) and returns the parsed Config merged over the defaults.
// When fsys is nil or holds no config file, the defaults are returned.
// Multiple config documents in one filesystem are an error: thresholds must
// have a single source of truth.
func LoadConfigFS(fsys fs.FS) (Config, error) {
	cfg := DefaultConfig()
	if fsys == nil {
		return cfg, nil
	}

	found := ""
	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isConfigFile(path) {
			return nil
		}
		if found != "" {
			return fmt.Errorf("grouping: multiple config documents (%s and %s)", found, path)
		}
		found = path

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("grouping: read %s: %w", path, err)
		}
		parsed, err := parseConfig(data, path)
		if err != nil {
			return err
		}
		cfg = mergeConfig(cfg, parsed)
		return nil
	})
	if err != nil {
		return Config{}, err
	}

	if err := validateConfig(cfg, found); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func parseConfig(data []byte, source string) (Config, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return Config{}, fmt.Errorf("grouping: file %s is empty", source)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err == nil {
		return cfg, nil
	}
	if err := yaml.Unmarshal(data, &cfg); err == nil {
		return cfg, nil
	}
	return Config{}, fmt.Errorf("grouping: parse %s: invalid JSON or YAML", source)
}

func mergeConfig(base, overrides Config) Config {
	if overrides.MinPrefixSegments > 0 {
		base.MinPrefixSegments = overrides.MinPrefixSegments
	}
	if overrides.MinClusterSize > 0 {
		base.MinClusterSize = overrides.MinClusterSize
	}
	if strings.TrimSpace(overrides.FallbackName) != "" {
		base.FallbackName = naming.Normalize(overrides.FallbackName)
	}
	if len(overrides.Presets) > 0 {
		base.Presets = append([]Preset(nil), overrides.Presets...)
	}
	return base
}

func validateConfig(cfg Config, source string) error {
	if source == "" {
		source = "defaults"
	}
	seen := make(map[string]struct{}, len(cfg.Presets))
	for idx, preset := range cfg.Presets {
		name := naming.Normalize(preset.Name)
		if name == "" {
			return fmt.Errorf("grouping: %s preset %d has an empty name", source, idx)
		}
		if _, exists := seen[name]; exists {
			return fmt.Errorf("grouping: %s defines duplicate preset %q", source, name)
		}
		seen[name] = struct{}{}
		if len(preset.Members) == 0 {
			return fmt.Errorf("grouping: %s preset %q has no members", source, name)
		}
	}
	return nil
}

func isConfigFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
