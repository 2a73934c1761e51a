package config

import "time"

// Config is the root application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Blob     BlobConfig     `yaml:"blob"`
	Log      LogConfig      `yaml:"log"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr            string        `yaml:"addr"             env:"OMARA_ADDR"             env-default:":8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"OMARA_READ_TIMEOUT"     env-default:"30s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"OMARA_WRITE_TIMEOUT"    env-default:"60s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"OMARA_IDLE_TIMEOUT"     env-default:"120s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"OMARA_SHUTDOWN_TIMEOUT" env-default:"5s"`
}

// DatabaseConfig holds SQLite settings.
type DatabaseConfig struct {
	Path string `yaml:"path" env:"OMARA_DB" env-default:"omara.sqlite3"`
}

// AuthConfig holds account and token settings.
type AuthConfig struct {
	AllowSignup bool          `yaml:"allow_signup" env:"OMARA_ALLOW_SIGNUP" env-default:"true"`
	TokenTTL    time.Duration `yaml:"token_ttl"    env:"OMARA_TOKEN_TTL"    env-default:"168h"`
	InitialUser string        `yaml:"initial_user" env:"OMARA_USER"         env-default:"admin"`
}

// BlobConfig selects and configures the image blob store.
type BlobConfig struct {
	Driver         string        `yaml:"driver"           env:"OMARA_BLOB_DRIVER"     env-default:"fs"`
	Dir            string        `yaml:"dir"              env:"OMARA_BLOB_DIR"        env-default:"images"`
	ImageURLExpiry time.Duration `yaml:"image_url_expiry" env:"OMARA_IMAGE_URL_EXPIRY" env-default:"15m"`
	S3             S3Config      `yaml:"s3"`
}

// S3Config holds settings for the S3 blob driver. Empty credentials fall
// back to the default AWS credential chain.
type S3Config struct {
	Region          string `yaml:"region"            env:"OMARA_S3_REGION"     env-default:"us-east-1"`
	Bucket          string `yaml:"bucket"            env:"OMARA_S3_BUCKET"`
	Endpoint        string `yaml:"endpoint"          env:"OMARA_S3_ENDPOINT"`
	AccessKeyID     string `yaml:"access_key_id"     env:"OMARA_S3_ACCESS_KEY_ID"`
	SecretAccessKey string `yaml:"secret_access_key" env:"OMARA_S3_SECRET_ACCESS_KEY"`
	PathStyle       bool   `yaml:"path_style"        env:"OMARA_S3_PATH_STYLE"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level" env:"OMARA_LOG_LEVEL" env-default:"info"`
	Path  string `yaml:"path"  env:"OMARA_LOG"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled" env:"OMARA_METRICS" env-default:"true"`
}
