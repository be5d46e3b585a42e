package config

import "time"

// Config holds runtime settings for the secdesk console.
type Config struct {
	APIBaseURL         string
	RequestTimeout     time.Duration
	DataDir            string
	PageSize           int
	LoginRedirectDelay time.Duration
	LogLevel           string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://127.0.0.1:8000/api"
	c.RequestTimeout = 10 * time.Second
	c.DataDir = ".secdesk"
	c.PageSize = 20
	c.LoginRedirectDelay = 1500 * time.Millisecond
	c.LogLevel = "info"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
