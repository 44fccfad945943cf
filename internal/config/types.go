package config

// Config is the top-level klemmenplan configuration, corresponding to
// .klemmenplan.yml.
type Config struct {
	// AnalyzeAssistantID is the OpenAI assistant used by the analyze
	// endpoint. It is fixed server-side and never taken from a request.
	AnalyzeAssistantID string `yaml:"analyze_assistant_id" koanf:"analyze_assistant_id"`

	// ChatAssistantID is the default assistant for the chat endpoint.
	ChatAssistantID string `yaml:"chat_assistant_id" koanf:"chat_assistant_id"`

	// MaxFiles bounds how many documents one analyze request may carry.
	MaxFiles int `yaml:"max_files" koanf:"max_files"`

	// PollIntervalMS is the wait between run status polls.
	PollIntervalMS int `yaml:"poll_interval_ms" koanf:"poll_interval_ms"`

	// MaxPollAttempts bounds the number of status polls per run.
	MaxPollAttempts int `yaml:"max_poll_attempts" koanf:"max_poll_attempts"`

	// StrictTable enables full field/enum validation of extracted
	// tables instead of the shallow shape check.
	StrictTable bool `yaml:"strict_table" koanf:"strict_table"`

	// DataDir is the directory for the SQLite database.
	DataDir string `yaml:"data_dir" koanf:"data_dir"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		MaxFiles:        50,
		PollIntervalMS:  1000,
		MaxPollAttempts: 120,
		StrictTable:     false,
		DataDir:         "data",
	}
}
