// Package config loads runtime configuration for the secdesk console.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-u string   base URL of the REST API, e.g. http://host:8000/api
//	-t int      request timeout (seconds)
//	-d string   local data directory (session and column preferences)
//	-p int      default page size for listings
//	-l string   log level: debug, info, warn, error
//
// # JSON schema
//
// Durations use timex.Duration, so values can be strings like "10s" or
// integer nanoseconds:
//
//	{
//	  "api_base_url": "http://127.0.0.1:8000/api",
//	  "request_timeout": "10s",
//	  "data_dir": ".secdesk",
//	  "page_size": 20,
//	  "login_redirect_delay": "1.5s",
//	  "log_level": "info"
//	}
//
// Keys missing from the file keep their current value.
package config
