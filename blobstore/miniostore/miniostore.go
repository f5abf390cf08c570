// Package miniostore provides a MinIO implementation of the
// blobstore.Backend contract.
//
// It is the plug-in to reach for when a prototype outgrows the memory and
// filesystem stores: records live under the records/ key prefix as JSON
// objects, payloads under payloads/, inside a single bucket.
package miniostore

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"

	"github.com/code19m/errx"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/rise-and-shine/storesim/blobstore"
)

const (
	recordPrefix  = "records/"
	payloadPrefix = "payloads/"
	recordSuffix  = ".json"

	codeNoSuchKey = "NoSuchKey"
)

// Store is a MinIO-backed blobstore.Backend.
type Store struct {
	client     *minio.Client
	bucket     string
	providerID string
}

// New creates a MinIO store, validating the configuration and ensuring the
// bucket exists.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if err := defaults.Set(&cfg); err != nil {
		return nil, errx.Wrap(err)
	}
	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(cfg); err != nil {
		return nil, errx.New("invalid miniostore config", errx.WithDetails(errx.D{"error": err}))
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, errx.Wrap(err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, errx.Wrap(err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, errx.Wrap(err)
		}
	}

	return &Store{
		client:     client,
		bucket:     cfg.Bucket,
		providerID: cfg.ProviderID,
	}, nil
}

// ProviderID identifies this store instance.
func (s *Store) ProviderID() string {
	return s.providerID
}

func recordKey(path string) string {
	return recordPrefix + path + recordSuffix
}

func payloadKey(path string) string {
	return payloadPrefix + path
}

// StoreItem upserts the record object at path.
func (s *Store) StoreItem(ctx context.Context, path string, item *blobstore.Item) error {
	data, err := json.Marshal(item)
	if err != nil {
		return errx.Wrap(err)
	}
	return s.put(ctx, recordKey(path), data, blobstore.ContentTypeJSON)
}

// StoreRawData upserts the payload object at path.
func (s *Store) StoreRawData(ctx context.Context, path string, data []byte) error {
	return s.put(ctx, payloadKey(path), data, blobstore.ContentTypeOctetStream)
}

// GetItem returns the record at path. An unparsable record object is treated
// as absent.
func (s *Store) GetItem(ctx context.Context, path string) (*blobstore.Item, error) {
	data, err := s.get(ctx, recordKey(path), path)
	if err != nil {
		return nil, err
	}

	var item blobstore.Item
	if err := json.Unmarshal(data, &item); err != nil {
		return nil, blobstore.NewNotFound(path)
	}
	return &item, nil
}

// GetRawData returns the payload at path.
func (s *Store) GetRawData(ctx context.Context, path string) ([]byte, error) {
	return s.get(ctx, payloadKey(path), path)
}

// Exists reports whether both the record and the payload objects are present.
func (s *Store) Exists(ctx context.Context, path string) (bool, error) {
	for _, key := range []string{recordKey(path), payloadKey(path)} {
		_, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
		if err != nil {
			if minio.ToErrorResponse(err).Code == codeNoSuchKey {
				return false, nil
			}
			return false, errx.Wrap(err)
		}
	}
	return true, nil
}

// Delete removes the record and payload objects. Removing a missing object
// is not an error on the server side, matching the no-op contract.
func (s *Store) Delete(ctx context.Context, path string) error {
	for _, key := range []string{recordKey(path), payloadKey(path)} {
		if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
			return errx.Wrap(err, errx.WithDetails(errx.D{"key": key}))
		}
	}
	return nil
}

// Clear removes every record and payload object in the bucket.
func (s *Store) Clear(ctx context.Context) error {
	for _, prefix := range []string{recordPrefix, payloadPrefix} {
		for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
			Prefix:    prefix,
			Recursive: true,
		}) {
			if obj.Err != nil {
				return errx.Wrap(obj.Err)
			}
			if err := s.client.RemoveObject(ctx, s.bucket, obj.Key, minio.RemoveObjectOptions{}); err != nil {
				return errx.Wrap(err, errx.WithDetails(errx.D{"key": obj.Key}))
			}
		}
	}
	return nil
}

// ListPaths enumerates logical paths from the record key space.
func (s *Store) ListPaths(ctx context.Context) ([]string, error) {
	var paths []string
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    recordPrefix,
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, errx.Wrap(obj.Err)
		}
		path := strings.TrimSuffix(strings.TrimPrefix(obj.Key, recordPrefix), recordSuffix)
		paths = append(paths, path)
	}
	return paths, nil
}

func (s *Store) put(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return errx.Wrap(err, errx.WithDetails(errx.D{"key": key}))
	}
	return nil
}

func (s *Store) get(ctx context.Context, key, path string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, errx.Wrap(err, errx.WithDetails(errx.D{"key": key}))
	}
	defer func() { _ = obj.Close() }()

	data, err := io.ReadAll(obj)
	if err != nil {
		if minio.ToErrorResponse(err).Code == codeNoSuchKey {
			return nil, blobstore.NewNotFound(path)
		}
		return nil, errx.Wrap(err, errx.WithDetails(errx.D{"key": key}))
	}
	return data, nil
}
