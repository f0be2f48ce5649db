package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// SearchConfig holds settings for the web search stage.
type SearchConfig struct {
	HTTPConfig `yaml:",inline"`

	// Provider selects the search backend: "serpapi" or "duckduckgo".
	Provider string `json:"provider" yaml:"provider"`

	// MaxResults is the default number of results to request (1-10, default 3).
	MaxResults int `json:"max_results" yaml:"max_results"`

	// APIKey authenticates against the provider. Required for serpapi,
	// unused by duckduckgo.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
}

// FetchConfig holds settings for the article fetch stage.
type FetchConfig struct {
	HTTPConfig `yaml:",inline"`

	// Workers bounds concurrent fetches. 1 fetches sequentially.
	Workers int `json:"workers" yaml:"workers"`

	// Delay is the pause between consecutive fetches in sequential mode.
	// Ignored when Workers > 1.
	Delay time.Duration `json:"delay" yaml:"delay"`
}

// AIConfig holds settings for stages that call the text-organizing model.
type AIConfig struct {
	// Model is the model identifier (e.g. "gemini-2.0-flash").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the model API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxRetries is the number of retry attempts for throttled API calls (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// TreeTemperature is the sampling temperature for tree generation and
	// subtopic expansion (default 0.2, biasing toward literal output).
	TreeTemperature float64 `json:"tree_temperature" yaml:"tree_temperature"`

	// SummaryTemperature is the sampling temperature for prose summaries (default 0.3).
	SummaryTemperature float64 `json:"summary_temperature" yaml:"summary_temperature"`
}

// StoreConfig holds settings for the session store.
type StoreConfig struct {
	// Path is the SQLite database file (default "$HOME/.knowtree/sessions.db").
	Path string `json:"path" yaml:"path"`
}

// Config groups all stage configurations for the pipeline.
type Config struct {
	Search SearchConfig `json:"search" yaml:"search"`
	Fetch  FetchConfig  `json:"fetch" yaml:"fetch"`
	AI     AIConfig     `json:"ai" yaml:"ai"`
	Store  StoreConfig  `json:"store" yaml:"store"`
}
