// Package config loads runtime configuration for the cloud drive CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the identity provider
//	-s string   base endpoint of the S3-compatible storage
//	-b string   storage bucket name
//	-t int      temporary link TTL (seconds)
//	-l int      listing limit
//	-w int      concurrent link-generation requests
//
// # JSON schema
//
// The JSON loader uses timex.Duration for durations, so values can be either
// strings like "1h" or integer nanoseconds:
//
//	{
//	  "auth_base_url": "https://auth.example.com",
//	  "s3_base_endpoint": "http://127.0.0.1:9000/",
//	  "s3_bucket": "user-files",
//	  "link_ttl": "1h",
//	  "list_limit": 100
//	}
//
// Note: This package does not read environment variables directly; use the
// JSON file or flags to configure values.
package config
