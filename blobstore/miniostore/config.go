package miniostore

// Config defines the configuration options for the MinIO store.
type Config struct {
	// Endpoint is the MinIO server endpoint (e.g., "localhost:9000").
	Endpoint string `yaml:"endpoint" validate:"required"`

	// AccessKey is the access key for authentication.
	AccessKey string `yaml:"access_key" validate:"required"`

	// SecretKey is the secret key for authentication.
	SecretKey string `yaml:"secret_key" validate:"required"`

	// Bucket is the bucket holding records and payloads.
	// Created on construction if missing.
	Bucket string `yaml:"bucket" validate:"required"`

	// UseSSL enables HTTPS connection to the MinIO server.
	UseSSL bool `yaml:"use_ssl" default:"false"`

	// ProviderID identifies this store instance in created records.
	ProviderID string `yaml:"provider_id" default:"minio"`
}
