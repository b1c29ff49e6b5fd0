package utils

import (
	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
)

// LoadTOMLFile decodes configPath into config. Keys that match no field
// are logged so typos in config.toml do not pass silently.
func LoadTOMLFile(configPath string, config any) error {
	md, err := toml.DecodeFile(configPath, config)
	if err != nil {
		log.Warnf("TOML parsing error in config file %s: %v. Attempting partial recovery...", configPath, err)
		return err
	}
	for _, key := range md.Undecoded() {
		log.Warnf("Unknown config key %q in %s", key.String(), configPath)
	}
	return nil
}

// ParseTOMLWithRecovery decodes configPath into a generic table for
// section-by-section recovery.
func ParseTOMLWithRecovery(configPath string) (map[string]any, error) {
	table := make(map[string]any)
	if _, err := toml.DecodeFile(configPath, &table); err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v", configPath, err)
		return nil, err
	}
	return table, nil
}

// ExtractSection extracts a specific section from parsed TOML data
func ExtractSection(data map[string]any, sectionName string) (map[string]any, bool) {
	section, ok := data[sectionName].(map[string]any)
	return section, ok
}

// ExtractInt64 safely extracts an int64 value from a map
func ExtractInt64(data map[string]any, key string) (int, bool) {
	if val, ok := data[key].(int64); ok {
		return int(val), true
	}
	return 0, false
}

// ExtractBool safely extracts a bool value from a map
func ExtractBool(data map[string]any, key string) (bool, bool) {
	if val, ok := data[key].(bool); ok {
		return val, true
	}
	return false, false
}

// ExtractFloat64 safely extracts a float value from a map. Integers are
// accepted too.
func ExtractFloat64(data map[string]any, key string) (float64, bool) {
	switch val := data[key].(type) {
	case float64:
		return val, true
	case int64:
		return float64(val), true
	}
	return 0, false
}

// ExtractStringSlice extracts an array of strings, skipping other elements.
func ExtractStringSlice(data map[string]any, key string) ([]string, bool) {
	raw, ok := data[key].([]any)
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out, true
}

// ExtractFloatMap extracts a table of numbers, skipping non-numeric values.
func ExtractFloatMap(data map[string]any, key string) (map[string]float64, bool) {
	table, ok := data[key].(map[string]any)
	if !ok {
		return nil, false
	}
	out := make(map[string]float64, len(table))
	for k := range table {
		if f, ok := ExtractFloat64(table, k); ok {
			out[k] = f
		}
	}
	return out, true
}
