// Package config loads xfer configuration files.
//
// It uses Viper to read a YAML (or JSON, TOML) file and godotenv to read an
// optional .env file. Environment variables prefixed with XFER_ override file
// values using underscore-separated paths (XFER_PROFILE_TIMEOUT=5s sets
// profile.timeout).
//
// # Usage
//
//	cfg, err := config.Load(config.WithConfigFile("xfer.yml"))
//	p, err := cfg.Select("api")
//
// A file looks like:
//
//	library: engine
//	logging:
//	  level: debug
//	profile:
//	  user_agent: my-tool/1.0
//	  timeout: 30s
//	profiles:
//	  api:
//	    headers: ["Accept: application/json"]
//	    tls:
//	      min_version: "1.2"
package config
