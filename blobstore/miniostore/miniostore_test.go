package miniostore_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rise-and-shine/storesim/blobstore/miniostore"
)

// Connection-dependent behavior is covered by the shared backend contract
// exercised against the memory and filesystem stores; here only the config
// handling, which fails before any network dial, is verified.
func TestNewValidatesConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  miniostore.Config
	}{
		{name: "missing endpoint", cfg: miniostore.Config{AccessKey: "a", SecretKey: "s", Bucket: "b"}},
		{name: "missing access key", cfg: miniostore.Config{Endpoint: "localhost:9000", SecretKey: "s", Bucket: "b"}},
		{name: "missing secret key", cfg: miniostore.Config{Endpoint: "localhost:9000", AccessKey: "a", Bucket: "b"}},
		{name: "missing bucket", cfg: miniostore.Config{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "s"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := miniostore.New(context.Background(), tt.cfg)
			assert.Error(t, err)
		})
	}
}
