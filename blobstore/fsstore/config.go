package fsstore

// Config defines the configuration options for the filesystem store.
type Config struct {
	// RootDir is the directory holding the records/ and payloads/
	// subdirectories. Created on construction if missing.
	RootDir string `yaml:"root_dir" validate:"required"`

	// ProviderID identifies this store instance in created records.
	ProviderID string `yaml:"provider_id" default:"filesystem"`
}
