// Package config handles configuration loading for stashd.
//
// # Overview
//
// Configuration is loaded from YAML files with environment variable expansion.
// The package provides validation and sensible defaults.
//
// # Configuration File
//
// Default locations (in order):
//
//  1. Path from STASHD_CONFIG environment variable
//  2. $XDG_CONFIG_HOME/stashd/stashd.yaml
//  3. ~/.config/stashd/stashd.yaml
//
// # Environment Variable Expansion
//
// Configuration values can reference environment variables:
//
//	auth:
//	  jwt_secret: "${STASHD_JWT_SECRET}"
//
// Syntax: ${VAR_NAME}
//
// # Duration Parsing
//
// Duration values use Go's time.ParseDuration syntax:
//
//	auth:
//	  token_ttl: "720h"
//
// Supported units: ns, us, ms, s, m, h
//
// # Configuration Sections
//
// Server settings:
//
//	server:
//	  http_addr: "localhost:8080"
//
// Database:
//
//	database:
//	  path: "/var/lib/stashd/stashd.db"
//
// Uploads:
//
//	uploads:
//	  dir: "/var/lib/stashd/uploads"
//
// Authentication:
//
//	auth:
//	  jwt_secret: "${STASHD_JWT_SECRET}"  # Required
//	  token_ttl: "720h"                   # Defaults to 30 days
//
// Logging:
//
//	logging:
//	  level: "info"   # debug, info, warn, error
//	  format: "text"  # text, json
//
// # Validation
//
// Load() validates:
//
//   - server.http_addr present
//   - database.path present
//   - uploads.dir present
//   - auth.jwt_secret present
//   - Duration format validity
//
// # Usage
//
// Load configuration:
//
//	cfg, err := config.Load("/etc/stashd/stashd.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
