package config

import "time"

// Config holds runtime settings for the cloud drive CLI.
//
// Fields:
//   - AuthBaseURL: base URL of the identity provider's token endpoint.
//   - AuthTimeout: per-call timeout for identity provider requests.
//   - S3BaseEndpoint / S3Region / S3Bucket: object storage settings.
//   - S3RootUser / S3RootPassword: credentials for the S3-compatible backend
//     (MINIO_ROOT_USER / MINIO_ROOT_PASSWORD in a MinIO deployment).
//   - LinkTTL: validity window requested for temporary share links.
//   - ListLimit: maximum number of objects fetched per listing.
//   - LinkWorkers: upper bound on concurrent link-generation requests
//     issued during one refresh.
type Config struct {
	AuthBaseURL    string
	AuthTimeout    time.Duration
	S3BaseEndpoint string
	S3Region       string
	S3Bucket       string
	S3RootUser     string
	S3RootPassword string
	LinkTTL        time.Duration
	ListLimit      int
	LinkWorkers    int
}

// LoadDefaults populates c with sensible development defaults.
// NOTE: The storage credentials are insecure and must be overridden
// outside local development.
func (c *Config) LoadDefaults() {
	c.AuthBaseURL = "http://127.0.0.1:9998"
	c.AuthTimeout = 12 * time.Second
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
	c.S3Region = "us-east-1"
	c.S3Bucket = "user-files"
	c.S3RootUser = "admin"
	c.S3RootPassword = "secretpassword"
	c.LinkTTL = 3600 * time.Second
	c.ListLimit = 100
	c.LinkWorkers = 8
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
