package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/clouddrive/internal/flagx"
	"github.com/dmitrijs2005/clouddrive/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify durations either as
// strings like "3s" or as integer nanoseconds. After parsing, values
// are copied into the runtime Config (which uses time.Duration).
type JsonConfig struct {
	AuthBaseURL    string         `json:"auth_base_url"`
	AuthTimeout    timex.Duration `json:"auth_timeout"`
	S3BaseEndpoint string         `json:"s3_base_endpoint"`
	S3Region       string         `json:"s3_region"`
	S3Bucket       string         `json:"s3_bucket"`
	S3RootUser     string         `json:"s3_root_user"`
	S3RootPassword string         `json:"s3_root_password"`
	LinkTTL        timex.Duration `json:"link_ttl"`
	ListLimit      int            `json:"list_limit"`
	LinkWorkers    int            `json:"link_workers"`
}

// parseJson overlays Config with values loaded from a JSON file.
//
// Lookup order for the JSON file path:
//  1. Command-line flags (-c or -config) via flagx.JsonConfigFlags().
//  2. If empty, no JSON is loaded and the function returns.
//
// Behavior:
//   - Reads and unmarshals the JSON into JsonConfig.
//   - Copies set fields into the provided Config.
//   - Panics on read or unmarshal errors (caller should recover if desired).
//
// Intended usage is: defaults -> parseJson -> parseFlags, where later stages
// override earlier ones.
func parseJson(cfg *Config) {
	// Resolve file path from flags.
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

	if jc.AuthBaseURL != "" {
		cfg.AuthBaseURL = jc.AuthBaseURL
	}
	if jc.AuthTimeout.Duration != 0 {
		cfg.AuthTimeout = time.Duration(jc.AuthTimeout.Duration)
	}
	if jc.S3BaseEndpoint != "" {
		cfg.S3BaseEndpoint = jc.S3BaseEndpoint
	}
	if jc.S3Region != "" {
		cfg.S3Region = jc.S3Region
	}
	if jc.S3Bucket != "" {
		cfg.S3Bucket = jc.S3Bucket
	}
	if jc.S3RootUser != "" {
		cfg.S3RootUser = jc.S3RootUser
	}
	if jc.S3RootPassword != "" {
		cfg.S3RootPassword = jc.S3RootPassword
	}
	if jc.LinkTTL.Duration != 0 {
		cfg.LinkTTL = time.Duration(jc.LinkTTL.Duration)
	}
	if jc.ListLimit != 0 {
		cfg.ListLimit = jc.ListLimit
	}
	if jc.LinkWorkers != 0 {
		cfg.LinkWorkers = jc.LinkWorkers
	}
}
