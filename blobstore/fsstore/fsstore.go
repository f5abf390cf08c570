// Package fsstore provides a filesystem implementation of the
// blobstore.Backend contract.
//
// Each logical path maps to two sibling files under the configured root:
// records/<sanitized>.json holding a JSON envelope with the record and the
// original logical path, and payloads/<sanitized>.bin holding the raw bytes.
// Writes go through a temp file and rename so a crashed write never leaves a
// half-written file behind.
package fsstore

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/code19m/errx"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"

	"github.com/rise-and-shine/storesim/blobstore"
)

const (
	recordsDir  = "records"
	payloadsDir = "payloads"

	recordSuffix  = ".json"
	payloadSuffix = ".bin"

	dirMode  = 0o750
	fileMode = 0o640
)

// recordEnvelope is the on-disk form of a record. Path carries the original
// logical path so ListPaths never has to reverse the lossy sanitization.
type recordEnvelope struct {
	Path string          `json:"path"`
	Item *blobstore.Item `json:"item"`
}

// Store is a filesystem-resident blobstore.Backend.
// Safe for concurrent use across processes is NOT guaranteed; within one
// process concurrent writers race with last-writer-wins semantics per path.
type Store struct {
	providerID string
	records    string
	payloads   string
}

// New creates a Store rooted at cfg.RootDir, creating the root and its
// records/payloads subdirectories if needed.
func New(cfg Config) (*Store, error) {
	if err := defaults.Set(&cfg); err != nil {
		return nil, errx.Wrap(err)
	}
	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(cfg); err != nil {
		return nil, errx.New("invalid fsstore config", errx.WithDetails(errx.D{"error": err}))
	}

	s := &Store{
		providerID: cfg.ProviderID,
		records:    filepath.Join(cfg.RootDir, recordsDir),
		payloads:   filepath.Join(cfg.RootDir, payloadsDir),
	}
	for _, dir := range []string{s.records, s.payloads} {
		if err := os.MkdirAll(dir, dirMode); err != nil {
			return nil, errx.Wrap(err, errx.WithDetails(errx.D{"dir": dir}))
		}
	}
	return s, nil
}

// ProviderID identifies this store instance.
func (s *Store) ProviderID() string {
	return s.providerID
}

func (s *Store) recordFile(path string) string {
	return filepath.Join(s.records, sanitizeName(path)+recordSuffix)
}

func (s *Store) payloadFile(path string) string {
	return filepath.Join(s.payloads, sanitizeName(path)+payloadSuffix)
}

// StoreItem upserts the record at path. Overwrites silently.
func (s *Store) StoreItem(_ context.Context, path string, item *blobstore.Item) error {
	data, err := json.Marshal(recordEnvelope{Path: path, Item: item})
	if err != nil {
		return errx.Wrap(err)
	}
	return writeAtomic(s.recordFile(path), data)
}

// StoreRawData upserts the payload at path.
func (s *Store) StoreRawData(_ context.Context, path string, data []byte) error {
	return writeAtomic(s.payloadFile(path), data)
}

// GetItem returns the record at path. A missing or unparsable record file is
// reported as not found, never as a distinct failure.
func (s *Store) GetItem(_ context.Context, path string) (*blobstore.Item, error) {
	data, err := os.ReadFile(s.recordFile(path))
	if err != nil {
		return nil, blobstore.NewNotFound(path)
	}

	var env recordEnvelope
	if err := json.Unmarshal(data, &env); err != nil || env.Item == nil {
		// Corrupt record: treated as absent.
		return nil, blobstore.NewNotFound(path)
	}
	return env.Item, nil
}

// GetRawData returns the payload at path.
func (s *Store) GetRawData(_ context.Context, path string) ([]byte, error) {
	data, err := os.ReadFile(s.payloadFile(path))
	if err != nil {
		return nil, blobstore.NewNotFound(path)
	}
	return data, nil
}

// Exists reports whether both the record and the payload files are present.
func (s *Store) Exists(_ context.Context, path string) (bool, error) {
	if _, err := os.Stat(s.recordFile(path)); err != nil {
		return false, nil
	}
	if _, err := os.Stat(s.payloadFile(path)); err != nil {
		return false, nil
	}
	return true, nil
}

// Delete removes the record and payload files. No-op if absent.
func (s *Store) Delete(_ context.Context, path string) error {
	for _, file := range []string{s.recordFile(path), s.payloadFile(path)} {
		if err := os.Remove(file); err != nil && !os.IsNotExist(err) {
			return errx.Wrap(err, errx.WithDetails(errx.D{"file": file}))
		}
	}
	return nil
}

// Clear removes every record and payload file under the root.
func (s *Store) Clear(_ context.Context) error {
	for _, dir := range []string{s.records, s.payloads} {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return errx.Wrap(err, errx.WithDetails(errx.D{"dir": dir}))
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil && !os.IsNotExist(err) {
				return errx.Wrap(err)
			}
		}
	}
	return nil
}

// ListPaths enumerates the logical paths of all readable records, taking the
// original path from each record envelope. Unreadable records are skipped,
// consistent with GetItem treating them as absent.
func (s *Store) ListPaths(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.records)
	if err != nil {
		return nil, errx.Wrap(err, errx.WithDetails(errx.D{"dir": s.records}))
	}

	paths := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != recordSuffix {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.records, entry.Name()))
		if err != nil {
			continue
		}
		var env recordEnvelope
		if err := json.Unmarshal(data, &env); err != nil || env.Path == "" {
			continue
		}
		paths = append(paths, env.Path)
	}
	return paths, nil
}

// writeAtomic writes data to file via a temp sibling and rename.
func writeAtomic(file string, data []byte) error {
	tmp := file + ".tmp"
	if err := os.WriteFile(tmp, data, fileMode); err != nil {
		return errx.Wrap(err, errx.WithDetails(errx.D{"file": file}))
	}
	if err := os.Rename(tmp, file); err != nil {
		_ = os.Remove(tmp)
		return errx.Wrap(err, errx.WithDetails(errx.D{"file": file}))
	}
	return nil
}
