// Package blobstore defines the storage backend contract shared by all
// datastore implementations.
//
// A Backend persists two things per logical path: an Item record describing
// the stored object and the raw byte payload itself. The two are written by
// separate calls; the upload lifecycle invokes both at its commit point so
// readers never observe one without the other. The interface is designed to
// be implemented by various backends (memory, filesystem, MinIO) and
// injected into the datastore facade.
package blobstore

import (
	"context"
	"time"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Attribute keys for optional transport metadata carried on an Item.
// A key is present in Item.Attributes only if it was supplied at upload time.
const (
	AttrContentEncoding = "contentEncoding"
	AttrContentLanguage = "contentLanguage"
	AttrCacheControl    = "cacheControl"
)

// Item is the metadata record describing one stored object.
type Item struct {
	// Location is an opaque locator URI assigned at upload start.
	// It is the stable identity of the record.
	Location string `json:"location"`

	// ContentType is the MIME type of the payload.
	// Defaults to application/octet-stream when not supplied.
	ContentType string `json:"content_type"`

	// UploadedAt is set once at upload start and immutable thereafter.
	UploadedAt time.Time `json:"uploaded_at"`

	// ProviderID identifies the backend instance that created the record.
	ProviderID string `json:"provider_id"`

	// UploadID is a correlation id unique per upload attempt.
	UploadID string `json:"upload_id"`

	// Attributes holds optional transport metadata in insertion order.
	// Nil when no attributes were supplied.
	Attributes *orderedmap.OrderedMap[string, string] `json:"attributes,omitempty"`
}

// Attribute returns the value of the named attribute and whether it is set.
func (i *Item) Attribute(key string) (string, bool) {
	if i.Attributes == nil {
		return "", false
	}
	return i.Attributes.Get(key)
}

// Backend is the contract implemented by every storage backend.
//
// Implementations must be safe for concurrent use: multiple upload
// lifecycles may write through one backend at the same time. Writes to the
// same path are last-writer-wins; the contract imposes no locking across
// paths or callers.
//
// GetItem and GetRawData report absence with an error carrying
// CodeItemNotFound; callers branch with IsNotFound. An unreadable or corrupt
// record is treated as absent, never as a distinct failure.
type Backend interface {
	// ProviderID identifies this backend instance. It seeds the ProviderID
	// and Location fields of records created through it.
	ProviderID() string

	// StoreItem upserts the record at path, overwriting any existing one.
	// Overwrites are never an error.
	StoreItem(ctx context.Context, path string, item *Item) error

	// StoreRawData upserts the raw payload at path, independent of StoreItem.
	// Callers must invoke both to keep record and payload consistent.
	StoreRawData(ctx context.Context, path string, data []byte) error

	// GetItem returns the record at path, or a CodeItemNotFound error.
	GetItem(ctx context.Context, path string) (*Item, error)

	// GetRawData returns the payload at path, or a CodeItemNotFound error.
	GetRawData(ctx context.Context, path string) ([]byte, error)

	// Exists reports whether BOTH the record and the payload are present.
	Exists(ctx context.Context, path string) (bool, error)

	// Delete removes the record and payload if present; no-op if absent.
	Delete(ctx context.Context, path string) error

	// Clear removes all records and payloads.
	Clear(ctx context.Context) error

	// ListPaths enumerates all currently stored logical paths.
	// Order is implementation-defined.
	ListPaths(ctx context.Context) ([]string, error)
}
