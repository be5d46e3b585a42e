package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/secdesk/internal/flagx"
	"github.com/dmitrijs2005/secdesk/internal/timex"
)

// JsonConfig is the on-disk shape of the server config file. Durations
// accept both "90s" strings and integer nanoseconds.
type JsonConfig struct {
	EndpointAddr               string          `json:"endpoint_addr"`
	DatabaseDSN                string          `json:"database_dsn"`
	SecretKey                  string          `json:"secret_key"`
	TokenValidityDuration      *timex.Duration `json:"token_ttl"`
	RememberMeValidityDuration *timex.Duration `json:"remember_me_ttl"`
	S3RootUser                 string          `json:"s3_root_user"`
	S3RootPassword             string          `json:"s3_root_password"`
	S3Bucket                   string          `json:"s3_bucket"`
	S3Region                   string          `json:"s3_region"`
	S3BaseEndpoint             string          `json:"s3_base_endpoint"`
	MaxUploadBytes             int64           `json:"max_upload_bytes"`
	LogLevel                   string          `json:"log_level"`
	AdminUsername              string          `json:"admin_username"`
	AdminPassword              string          `json:"admin_password"`
}

// parseJson overlays config with the JSON file named by -c/-config.
// Without the flag it does nothing; unset keys keep their current value.
// If the file cannot be read or contains invalid JSON, the function panics.
func parseJson(config *Config) {

	// try flags
	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	c.apply(config)
}

func (c *JsonConfig) apply(config *Config) {
	setString(&config.EndpointAddr, c.EndpointAddr)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	if c.TokenValidityDuration != nil {
		config.TokenValidityDuration = c.TokenValidityDuration.Duration
	}
	if c.RememberMeValidityDuration != nil {
		config.RememberMeValidityDuration = c.RememberMeValidityDuration.Duration
	}
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	if c.MaxUploadBytes > 0 {
		config.MaxUploadBytes = c.MaxUploadBytes
	}
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.AdminUsername, c.AdminUsername)
	setString(&config.AdminPassword, c.AdminPassword)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
