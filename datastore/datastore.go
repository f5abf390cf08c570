// Package datastore exposes the public facade over a storage backend.
//
// A Datastore delegates reads, deletes and enumeration directly to its
// backend and constructs one upload.Lifecycle per PutData call. The facade
// owns its backend exclusively; the backend is shared read/write across the
// lifecycles of that facade with last-writer-wins semantics per path.
package datastore

import (
	"context"

	"github.com/code19m/errx"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/rise-and-shine/storesim/blobstore"
	"github.com/rise-and-shine/storesim/logger"
	"github.com/rise-and-shine/storesim/upload"
)

const tracerName = "storesim.datastore"

// Datastore is the public entry point for storing and retrieving objects.
type Datastore struct {
	backend   blobstore.Backend
	uploadCfg upload.Config
	log       logger.Logger
	tracer    trace.Tracer
}

// Option customizes a Datastore instance.
type Option func(*Datastore)

// WithLogger overrides the logger used by the facade.
func WithLogger(log logger.Logger) Option {
	return func(d *Datastore) {
		d.log = log
	}
}

// WithUploadConfig sets the lifecycle configuration applied to every
// PutData call. Default: fast mode.
func WithUploadConfig(cfg upload.Config) Option {
	return func(d *Datastore) {
		d.uploadCfg = cfg
	}
}

// New creates a Datastore over the given backend.
func New(backend blobstore.Backend, opts ...Option) *Datastore {
	d := &Datastore{
		backend: backend,
		log:     logger.Named("storesim.datastore"),
		tracer:  otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// PutData starts one upload attempt for path and returns its lifecycle
// handle immediately, without waiting for completion. Progress, pause,
// resume, cancel and the final result are observed on the handle.
//
// Concurrent PutData calls to the same path race with last-writer-wins
// semantics; the final record is whichever commit lands last.
func (d *Datastore) PutData(ctx context.Context, path string, data []byte, opts upload.PutOptions) (*upload.Lifecycle, error) {
	ctx, span := d.tracer.Start(ctx, "datastore.put_data")
	defer span.End()

	lc, err := upload.New(d.backend, path, data, d.uploadCfg, opts)
	if err != nil {
		return nil, errx.Wrap(err)
	}

	d.log.With("path", path, "bytes", len(data), "slow_mode", d.uploadCfg.SlowMode).Debug("starting upload")
	lc.Start(ctx)
	return lc, nil
}

// Get returns the record at path, or a CodeItemNotFound error.
func (d *Datastore) Get(ctx context.Context, path string) (*blobstore.Item, error) {
	ctx, span := d.tracer.Start(ctx, "datastore.get")
	defer span.End()

	item, err := d.backend.GetItem(ctx, path)
	if err != nil {
		return nil, errx.Wrap(err)
	}
	return item, nil
}

// GetRawData returns the payload at path, or a CodeItemNotFound error.
func (d *Datastore) GetRawData(ctx context.Context, path string) ([]byte, error) {
	ctx, span := d.tracer.Start(ctx, "datastore.get_raw_data")
	defer span.End()

	data, err := d.backend.GetRawData(ctx, path)
	if err != nil {
		return nil, errx.Wrap(err)
	}
	return data, nil
}

// Exists reports whether both the record and the payload are stored at path.
func (d *Datastore) Exists(ctx context.Context, path string) (bool, error) {
	ctx, span := d.tracer.Start(ctx, "datastore.exists")
	defer span.End()

	ok, err := d.backend.Exists(ctx, path)
	if err != nil {
		return false, errx.Wrap(err)
	}
	return ok, nil
}

// GetDownloadLink returns the stored record's locator, or a CodeItemNotFound
// error when the path is absent.
func (d *Datastore) GetDownloadLink(ctx context.Context, path string) (string, error) {
	ctx, span := d.tracer.Start(ctx, "datastore.get_download_link")
	defer span.End()

	item, err := d.backend.GetItem(ctx, path)
	if err != nil {
		return "", errx.Wrap(err)
	}
	return item.Location, nil
}

// Delete removes the record and payload at path. Idempotent: deleting an
// absent path is not an error.
func (d *Datastore) Delete(ctx context.Context, path string) error {
	ctx, span := d.tracer.Start(ctx, "datastore.delete")
	defer span.End()

	if err := d.backend.Delete(ctx, path); err != nil {
		return errx.Wrap(err)
	}
	d.log.With("path", path).Debug("deleted")
	return nil
}

// Clear removes all stored records and payloads.
func (d *Datastore) Clear(ctx context.Context) error {
	ctx, span := d.tracer.Start(ctx, "datastore.clear")
	defer span.End()

	if err := d.backend.Clear(ctx); err != nil {
		return errx.Wrap(err)
	}
	d.log.Debug("cleared")
	return nil
}

// ListPaths enumerates all stored logical paths in unspecified order.
func (d *Datastore) ListPaths(ctx context.Context) ([]string, error) {
	ctx, span := d.tracer.Start(ctx, "datastore.list_paths")
	defer span.End()

	paths, err := d.backend.ListPaths(ctx)
	if err != nil {
		return nil, errx.Wrap(err)
	}
	return paths, nil
}
