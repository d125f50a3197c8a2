package config

import (
	"fmt"
	"strconv"
)

// Config represents the persistent specgraph configuration stored as
// config.toml in the .specgraph/ directory. The TOML layout uses sections for
// logical grouping.
type Config struct {
	Version  int            `toml:"version"`
	Storage  StorageConfig  `toml:"storage"`
	Validate ValidateConfig `toml:"validate"`
	Impact   ImpactConfig   `toml:"impact"`
	Export   ExportConfig   `toml:"export"`
	API      APIConfig      `toml:"api"`
	Events   EventsConfig   `toml:"events"`
}

// StorageConfig holds record store settings.
type StorageConfig struct {
	// Root is the directory holding specs/ and evidence/. Empty means the
	// resolved .specgraph/ directory itself.
	Root string `toml:"root,omitempty"`
}

// ValidateConfig holds validator settings.
type ValidateConfig struct {
	Strict        bool `toml:"strict,omitempty"`
	MinConditions uint `toml:"min_conditions,omitempty"`
}

// ImpactConfig holds impact analysis settings.
type ImpactConfig struct {
	MaxDepth uint `toml:"max_depth,omitempty"`
}

// ExportConfig holds graph export settings.
type ExportConfig struct {
	// Path is where "specgraph graph --export" and the watcher write the
	// graph snapshot. Relative paths resolve against the store root.
	Path string `toml:"path,omitempty"`
}

// APIConfig holds HTTP API server settings.
type APIConfig struct {
	Listen string `toml:"listen,omitempty"`
}

// EventsConfig holds node event publishing settings.
type EventsConfig struct {
	// Provider is "none" or "kafka".
	Provider string `toml:"provider,omitempty"`

	// Brokers is a comma separated list of Kafka bootstrap addresses.
	Brokers string `toml:"brokers,omitempty"`
	Topic   string `toml:"topic,omitempty"`
}

// configKeyInfo maps a user-facing dotted key name to a getter and setter on *Config.
type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

func parseUint(key, v string) (uint, error) {
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: %w", key, err)
	}
	return uint(n), nil
}

func formatUint(n uint) string {
	if n == 0 {
		return ""
	}
	return strconv.FormatUint(uint64(n), 10)
}

// configKeys is the authoritative map of all supported config keys.
// Keys use dotted notation matching the TOML section structure.
var configKeys = map[string]configKeyInfo{
	"storage.root": {
		get: func(c *Config) string { return c.Storage.Root },
		set: func(c *Config, v string) error { c.Storage.Root = v; return nil },
	},
	"validate.strict": {
		get: func(c *Config) string { return strconv.FormatBool(c.Validate.Strict) },
		set: func(c *Config, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("invalid value for validate.strict: %w", err)
			}
			c.Validate.Strict = b
			return nil
		},
	},
	"validate.min_conditions": {
		get: func(c *Config) string { return formatUint(c.Validate.MinConditions) },
		set: func(c *Config, v string) error {
			n, err := parseUint("validate.min_conditions", v)
			if err != nil {
				return err
			}
			c.Validate.MinConditions = n
			return nil
		},
	},
	"impact.max_depth": {
		get: func(c *Config) string { return formatUint(c.Impact.MaxDepth) },
		set: func(c *Config, v string) error {
			n, err := parseUint("impact.max_depth", v)
			if err != nil {
				return err
			}
			c.Impact.MaxDepth = n
			return nil
		},
	},
	"export.path": {
		get: func(c *Config) string { return c.Export.Path },
		set: func(c *Config, v string) error { c.Export.Path = v; return nil },
	},
	"api.listen": {
		get: func(c *Config) string { return c.API.Listen },
		set: func(c *Config, v string) error { c.API.Listen = v; return nil },
	},
	"events.provider": {
		get: func(c *Config) string { return c.Events.Provider },
		set: func(c *Config, v string) error {
			switch v {
			case "none", "kafka":
				c.Events.Provider = v
				return nil
			}
			return fmt.Errorf("invalid value for events.provider: %q (valid: none, kafka)", v)
		},
	},
	"events.brokers": {
		get: func(c *Config) string { return c.Events.Brokers },
		set: func(c *Config, v string) error { c.Events.Brokers = v; return nil },
	},
	"events.topic": {
		get: func(c *Config) string { return c.Events.Topic },
		set: func(c *Config, v string) error { c.Events.Topic = v; return nil },
	},
}
