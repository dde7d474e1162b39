package storage

// Config holds configuration for the storage provider.
type Config struct {
	// Endpoint is the URL of the storage service.
	Endpoint string `mapstructure:"endpoint" default:"localhost:9000"`
	// AccessKey is the access key ID for authentication.
	AccessKey string `mapstructure:"access_key" default:"minioadmin"`
	// SecretKey is the secret access key for authentication.
	SecretKey string `mapstructure:"secret_key" default:"minioadmin"`
	// UseSSL indicates whether to use SSL/TLS for connections.
	UseSSL bool `mapstructure:"use_ssl" default:"false"`
	// Bucket is the name of the bucket history copies are archived to.
	Bucket string `mapstructure:"bucket" default:"sales-history"`
	// Region is the location of the bucket (e.g., us-east-1).
	Region string `mapstructure:"region" default:""`
	// TimeoutSeconds is the connection timeout in seconds.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
	// Archive controls copying the history file to the bucket after each pass.
	Archive ArchiveConfig `mapstructure:"archive"`
}

// ArchiveConfig holds the history archive settings.
type ArchiveConfig struct {
	// Enabled turns archiving on.
	Enabled bool `mapstructure:"enabled" default:"false"`
	// Prefix is the object key prefix archives are written under.
	Prefix string `mapstructure:"prefix" default:"historico"`
}
