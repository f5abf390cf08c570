// Package upload implements the simulated chunked-upload lifecycle.
//
// A Lifecycle drives exactly one upload attempt from initiation to a
// terminal state: it emits a monotonic progress stream, supports pause,
// resume and cancel while in slow mode, and on natural completion commits
// the record and payload to the backing store exactly once. The pure state
// transitions live in the machine type; this file owns the scheduling
// mechanism (one pending timer per running lifecycle) and the channels the
// caller observes.
package upload

import (
	"context"
	"sync"
	"time"

	"github.com/code19m/errx"
	"github.com/google/uuid"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/rise-and-shine/storesim/blobstore"
	"github.com/rise-and-shine/storesim/logger"
)

// PutOptions carries the optional metadata and callback for one upload attempt.
type PutOptions struct {
	// ContentType of the payload. Defaults to application/octet-stream.
	ContentType string

	// Optional transport attributes, recorded on the item only when non-empty.
	ContentEncoding string
	ContentLanguage string
	CacheControl    string

	// OnComplete, when set, is invoked exactly once after the lifecycle
	// resolves: with the committed record on completion, or with a nil
	// record and a CodeUploadCancelled error on cancellation.
	OnComplete func(item *blobstore.Item, err error)
}

// stopper is the handle of a scheduled chunk step.
type stopper interface {
	Stop() bool
}

// scheduleFunc schedules fn to run once after d. Swappable so transition
// behavior is testable without real delays.
type scheduleFunc func(d time.Duration, fn func()) stopper

func realSchedule(d time.Duration, fn func()) stopper {
	return time.AfterFunc(d, fn)
}

// Lifecycle is the transient state machine managing one upload attempt.
// It is created by datastore.PutData, never reused, and owns its progress
// channel and completion signal exclusively.
type Lifecycle struct {
	path    string
	payload []byte
	item    *blobstore.Item
	backend blobstore.Backend
	cfg     Config
	log     logger.Logger

	onComplete func(*blobstore.Item, error)

	mu       sync.Mutex
	m        machine
	timer    stopper
	started  bool
	resolved bool
	result   *blobstore.Item
	err      error
	ctx      context.Context

	progress chan int64
	done     chan struct{}

	schedule scheduleFunc
}

// New builds a lifecycle for one upload attempt. The record is constructed
// here: locator, provider id, upload id and timestamp are fixed at upload
// start and never change. Call Start to begin the transfer.
func New(backend blobstore.Backend, path string, payload []byte, cfg Config, opts PutOptions) (*Lifecycle, error) {
	cfg, err := cfg.withDefaults()
	if err != nil {
		return nil, errx.Wrap(err)
	}

	total := int64(len(payload))

	// The progress channel is buffered for every event the transfer can
	// emit, so an abandoned reader never blocks a chunk step.
	events := 1
	if cfg.SlowMode && total > 0 {
		events = int((total + int64(cfg.ChunkSize) - 1) / int64(cfg.ChunkSize))
	}

	return &Lifecycle{
		path:       path,
		payload:    payload,
		item:       newItem(backend.ProviderID(), path, opts),
		backend:    backend,
		cfg:        cfg,
		log:        logger.Named("storesim.upload"),
		onComplete: opts.OnComplete,
		m:          newMachine(total, int64(cfg.ChunkSize)),
		ctx:        context.Background(),
		progress:   make(chan int64, events),
		done:       make(chan struct{}),
		schedule:   realSchedule,
	}, nil
}

func newItem(providerID, path string, opts PutOptions) *blobstore.Item {
	contentType := opts.ContentType
	if contentType == "" {
		contentType = blobstore.ContentTypeOctetStream
	}

	var attrs *orderedmap.OrderedMap[string, string]
	setAttr := func(key, value string) {
		if value == "" {
			return
		}
		if attrs == nil {
			attrs = orderedmap.New[string, string]()
		}
		attrs.Set(key, value)
	}
	setAttr(blobstore.AttrContentEncoding, opts.ContentEncoding)
	setAttr(blobstore.AttrContentLanguage, opts.ContentLanguage)
	setAttr(blobstore.AttrCacheControl, opts.CacheControl)

	return &blobstore.Item{
		Location:    providerID + "://" + path,
		ContentType: contentType,
		UploadedAt:  time.Now().UTC(),
		ProviderID:  providerID,
		UploadID:    uuid.NewString(),
		Attributes:  attrs,
	}
}

// Start begins the transfer. In slow mode it schedules the first chunk step
// and returns immediately; otherwise the whole commit happens synchronously
// before Start returns and cannot be interrupted. Calling Start twice is a
// no-op, as is starting an already-cancelled lifecycle.
func (l *Lifecycle) Start(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}

	l.mu.Lock()
	if l.started || l.m.phase != PhaseRunning {
		l.mu.Unlock()
		return
	}
	l.started = true
	l.ctx = ctx

	if !l.cfg.SlowMode {
		// Fast path: drain the machine in the current turn.
		for {
			if _, end := l.m.step(); end {
				break
			}
		}
		l.finishLocked()
		return
	}

	l.timer = l.schedule(l.cfg.ChunkDelay, l.stepOnce)
	l.mu.Unlock()
}

// stepOnce is the scheduled chunk step. The phase is re-checked under the
// mutex so a pause or cancel that raced with the timer firing wins.
func (l *Lifecycle) stepOnce() {
	l.mu.Lock()
	if l.m.phase != PhaseRunning {
		l.mu.Unlock()
		return
	}

	cum, end := l.m.step()
	if end {
		l.finishLocked()
		return
	}

	l.progress <- cum
	l.timer = l.schedule(l.cfg.ChunkDelay, l.stepOnce)
	l.mu.Unlock()
}

// finishLocked commits the record and payload, emits the final progress
// event and resolves the lifecycle. Called with l.mu held; unlocks before
// invoking the completion callback.
//
// Ordering: the backend commit happens before the final progress event,
// before the progress channel closes and before the done channel closes, so
// an observer of any of those is guaranteed to see the committed state.
func (l *Lifecycle) finishLocked() {
	var commitErr error
	if err := l.backend.StoreItem(l.ctx, l.path, l.item); err != nil {
		commitErr = errx.Wrap(err)
	} else if err := l.backend.StoreRawData(l.ctx, l.path, l.payload); err != nil {
		commitErr = errx.Wrap(err)
	}

	if commitErr != nil {
		// A failed commit resolves the lifecycle without the final progress
		// event; the upload did not complete.
		l.m.cancel()
		l.resolveLocked(nil, commitErr)
		return
	}

	l.m.complete()
	l.progress <- l.m.total
	l.resolveLocked(l.item, nil)
}

// resolveLocked closes the channels and records the result exactly once.
// Called with l.mu held; unlocks before invoking the completion callback.
func (l *Lifecycle) resolveLocked(item *blobstore.Item, err error) {
	l.resolved = true
	l.result = item
	l.err = err
	close(l.progress)
	close(l.done)

	cb := l.onComplete
	log := l.log.With("path", l.path, "upload_id", l.item.UploadID, "phase", l.m.phase.String())
	l.mu.Unlock()

	if err != nil {
		log.With("error", err.Error()).Debug("upload resolved")
	} else {
		log.Debug("upload resolved")
	}
	if cb != nil {
		cb(item, err)
	}
}

// Pause stops scheduling further chunk steps without resolving the
// lifecycle. Valid only while Running in slow mode; otherwise a no-op.
func (l *Lifecycle) Pause() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.cfg.SlowMode || !l.m.pause() {
		return
	}
	l.stopTimerLocked()
}

// Resume re-enters the stepping loop from the current transferred count.
// Valid only from Paused; otherwise a no-op.
func (l *Lifecycle) Resume() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.m.resume() {
		return
	}
	l.timer = l.schedule(l.cfg.ChunkDelay, l.stepOnce)
}

// Cancel aborts the upload from Running or Paused: the pending step is
// dropped, nothing is committed, the progress stream closes without a final
// event and the completion result resolves with CodeUploadCancelled.
// A no-op once the lifecycle is Completed or already Cancelled.
func (l *Lifecycle) Cancel() {
	l.mu.Lock()
	if !l.m.cancel() {
		l.mu.Unlock()
		return
	}
	l.stopTimerLocked()
	l.resolveLocked(nil, errx.New(
		"upload cancelled",
		errx.WithCode(CodeUploadCancelled),
		errx.WithDetails(errx.D{"path": l.path}),
	))
}

func (l *Lifecycle) stopTimerLocked() {
	if l.timer != nil {
		l.timer.Stop()
		l.timer = nil
	}
}

// Progress returns the stream of cumulative byte counts. Values are strictly
// non-decreasing; the channel closes when the lifecycle resolves, with a
// final value equal to the payload length if and only if it completed.
func (l *Lifecycle) Progress() <-chan int64 {
	return l.progress
}

// Done is closed when the lifecycle reaches a terminal state.
func (l *Lifecycle) Done() <-chan struct{} {
	return l.done
}

// Wait blocks until the lifecycle resolves or ctx is done, then returns the
// completion result.
func (l *Lifecycle) Wait(ctx context.Context) (*blobstore.Item, error) {
	select {
	case <-ctx.Done():
		return nil, errx.Wrap(ctx.Err())
	case <-l.done:
	}
	return l.Result()
}

// Result returns the committed record, the cancellation error, or
// CodeUploadInFlight while the lifecycle is still outstanding.
func (l *Lifecycle) Result() (*blobstore.Item, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.resolved {
		return nil, errx.New("upload still in flight", errx.WithCode(CodeUploadInFlight))
	}
	return l.result, l.err
}

// Phase reports the current lifecycle phase.
func (l *Lifecycle) Phase() Phase {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.m.phase
}

// BytesTransferred reports the cumulative transferred byte count.
func (l *Lifecycle) BytesTransferred() int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.m.transferred
}

// Path returns the logical path this lifecycle writes to.
func (l *Lifecycle) Path() string {
	return l.path
}
