package config

const (
	defaultMinConditions = 3
	defaultMaxDepth      = 10
	defaultExportPath    = "graph.json"
	defaultAPIListen     = ":8081"
	defaultEventProvider = "none"
	defaultEventTopic    = "specgraph.nodes"
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		Validate: ValidateConfig{
			MinConditions: defaultMinConditions,
		},
		Impact: ImpactConfig{
			MaxDepth: defaultMaxDepth,
		},
		Export: ExportConfig{
			Path: defaultExportPath,
		},
		API: APIConfig{
			Listen: defaultAPIListen,
		},
		Events: EventsConfig{
			Provider: defaultEventProvider,
			Topic:    defaultEventTopic,
		},
	}
}
