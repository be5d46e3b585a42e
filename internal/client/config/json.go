package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/secdesk/internal/flagx"
	"github.com/dmitrijs2005/secdesk/internal/timex"
)

// JsonConfig is the on-disk shape of the client config file.
type JsonConfig struct {
	APIBaseURL         string          `json:"api_base_url"`
	RequestTimeout     *timex.Duration `json:"request_timeout"`
	DataDir            string          `json:"data_dir"`
	PageSize           int             `json:"page_size"`
	LoginRedirectDelay *timex.Duration `json:"login_redirect_delay"`
	LogLevel           string          `json:"log_level"`
}

// parseJson overlays cfg with the JSON file named by -c/-config. Without the
// flag it does nothing. Read or decode failures panic.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	jc.apply(cfg)
}

func (jc *JsonConfig) apply(cfg *Config) {
	if jc.APIBaseURL != "" {
		cfg.APIBaseURL = jc.APIBaseURL
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.DataDir != "" {
		cfg.DataDir = jc.DataDir
	}
	if jc.PageSize > 0 {
		cfg.PageSize = jc.PageSize
	}
	if jc.LoginRedirectDelay != nil {
		cfg.LoginRedirectDelay = jc.LoginRedirectDelay.Duration
	}
	if jc.LogLevel != "" {
		cfg.LogLevel = jc.LogLevel
	}
}
