package config

import (
	"encoding/json"
	"fmt"
)

// CurrentVersion is the current config schema version
const CurrentVersion = 2

// Migration represents a config migration function
type Migration struct {
	FromVersion int
	ToVersion   int
	Migrate     func(data map[string]interface{}) (map[string]interface{}, error)
}

// migrations is the list of migrations in order
var migrations = []Migration{
	// 0 -> 1: add version field, no structural changes
	{
		FromVersion: 0,
		ToVersion:   1,
		Migrate: func(data map[string]interface{}) (map[string]interface{}, error) {
			data["version"] = 1
			return data, nil
		},
	},
	// 1 -> 2: top-level apiUrl/timeout move under "api",
	// display.rotationInterval becomes display.rotationSeconds
	{
		FromVersion: 1,
		ToVersion:   2,
		Migrate: func(data map[string]interface{}) (map[string]interface{}, error) {
			api, err := section(data, "api")
			if err != nil {
				return nil, err
			}
			if v, ok := data["apiUrl"]; ok {
				if _, set := api["baseURL"]; !set {
					api["baseURL"] = v
				}
				delete(data, "apiUrl")
			}
			if v, ok := data["timeout"]; ok {
				if _, set := api["timeoutSeconds"]; !set {
					api["timeoutSeconds"] = v
				}
				delete(data, "timeout")
			}
			if len(api) > 0 {
				data["api"] = api
			}

			display, err := section(data, "display")
			if err != nil {
				return nil, err
			}
			if v, ok := display["rotationInterval"]; ok {
				if _, set := display["rotationSeconds"]; !set {
					display["rotationSeconds"] = v
				}
				delete(display, "rotationInterval")
			}
			if len(display) > 0 {
				data["display"] = display
			}

			data["version"] = 2
			return data, nil
		},
	},
}

// section returns data[key] as an object, creating an empty one when absent
func section(data map[string]interface{}, key string) (map[string]interface{}, error) {
	raw, ok := data[key]
	if !ok || raw == nil {
		return map[string]interface{}{}, nil
	}
	m, ok := raw.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("%q must be an object", key)
	}
	return m, nil
}

// ParseVersionedConfig parses config data with version migration support
func ParseVersionedConfig(data []byte) (*Config, error) {
	var rawConfig map[string]interface{}
	if err := json.Unmarshal(data, &rawConfig); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	// Detect version (0 if not present = legacy config)
	version := 0
	if v, ok := rawConfig["version"].(float64); ok {
		version = int(v)
	}

	if version > CurrentVersion {
		return nil, fmt.Errorf("config version %d is newer than supported version %d", version, CurrentVersion)
	}

	if version < CurrentVersion {
		var err error
		rawConfig, err = ApplyMigrations(rawConfig, version)
		if err != nil {
			return nil, fmt.Errorf("failed to migrate config: %w", err)
		}
	}

	// Re-marshal to get proper types
	migratedData, err := json.Marshal(rawConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal migrated config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(migratedData, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}

// ApplyMigrations applies all migrations from the given version to CurrentVersion
func ApplyMigrations(data map[string]interface{}, fromVersion int) (map[string]interface{}, error) {
	for _, migration := range migrations {
		if migration.FromVersion == fromVersion {
			var err error
			data, err = migration.Migrate(data)
			if err != nil {
				return nil, fmt.Errorf("migration %d -> %d failed: %w",
					migration.FromVersion, migration.ToVersion, err)
			}
			fromVersion = migration.ToVersion
		}
	}

	if fromVersion < CurrentVersion {
		return nil, fmt.Errorf("no migration path from version %d to %d", fromVersion, CurrentVersion)
	}

	return data, nil
}

// MarshalVersionedConfig serializes a config as a flat object with a version field
func MarshalVersionedConfig(cfg *Config) ([]byte, error) {
	cfgData, err := json.Marshal(cfg)
	if err != nil {
		return nil, err
	}

	var cfgMap map[string]interface{}
	if err := json.Unmarshal(cfgData, &cfgMap); err != nil {
		return nil, err
	}

	cfgMap["version"] = CurrentVersion
	return json.MarshalIndent(cfgMap, "", "  ")
}
