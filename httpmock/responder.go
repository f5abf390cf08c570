// Package httpmock renders previously stored content as a synthetic HTTP
// response.
//
// The responder is a read-only collaborator of the datastore: given a
// logical path it looks up the record and payload and produces a plain
// {status, ordered headers, body} value. There is no socket, no stream and
// no redirect handling; unsupported response capabilities are simply absent
// from the abstraction.
package httpmock

import (
	"context"
	"net/http"

	"github.com/code19m/errx"
	"github.com/spf13/cast"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/rise-and-shine/storesim/blobstore"
)

// Header names emitted by the responder, in emission order.
const (
	HeaderContentType     = "content-type"
	HeaderContentLength   = "content-length"
	HeaderLastModified    = "last-modified"
	HeaderContentEncoding = "content-encoding"
	HeaderContentLanguage = "content-language"
	HeaderCacheControl    = "cache-control"
)

const notFoundBody = "Not Found"

// Store is the narrow read surface the responder consumes.
// *datastore.Datastore satisfies it.
type Store interface {
	Get(ctx context.Context, path string) (*blobstore.Item, error)
	GetRawData(ctx context.Context, path string) ([]byte, error)
}

// Response is a synthetic HTTP response: status code, headers in emission
// order and the body bytes.
type Response struct {
	Status  int
	Headers *orderedmap.OrderedMap[string, string]
	Body    []byte
}

// Header returns the named header value and whether it is set.
func (r *Response) Header(name string) (string, bool) {
	return r.Headers.Get(name)
}

// Responder renders stored content as synthetic responses.
type Responder struct {
	store Store
}

// New creates a Responder reading through store.
func New(store Store) *Responder {
	return &Responder{store: store}
}

// Respond builds the response for path: 200 with the stored payload and
// metadata-derived headers, or 404 when either the record or the payload is
// absent. Any other storage failure is returned as an error.
func (r *Responder) Respond(ctx context.Context, path string) (*Response, error) {
	item, err := r.store.Get(ctx, path)
	if err != nil {
		if blobstore.IsNotFound(err) {
			return notFound(), nil
		}
		return nil, errx.Wrap(err)
	}

	body, err := r.store.GetRawData(ctx, path)
	if err != nil {
		if blobstore.IsNotFound(err) {
			return notFound(), nil
		}
		return nil, errx.Wrap(err)
	}

	headers := orderedmap.New[string, string]()
	headers.Set(HeaderContentType, item.ContentType)
	headers.Set(HeaderContentLength, cast.ToString(len(body)))
	headers.Set(HeaderLastModified, item.UploadedAt.UTC().Format(http.TimeFormat))

	if item.Attributes != nil {
		for pair := item.Attributes.Oldest(); pair != nil; pair = pair.Next() {
			if name, ok := attributeHeader(pair.Key); ok {
				headers.Set(name, pair.Value)
			}
		}
	}

	return &Response{
		Status:  http.StatusOK,
		Headers: headers,
		Body:    body,
	}, nil
}

func attributeHeader(attr string) (string, bool) {
	switch attr {
	case blobstore.AttrContentEncoding:
		return HeaderContentEncoding, true
	case blobstore.AttrContentLanguage:
		return HeaderContentLanguage, true
	case blobstore.AttrCacheControl:
		return HeaderCacheControl, true
	default:
		return "", false
	}
}

func notFound() *Response {
	headers := orderedmap.New[string, string]()
	headers.Set(HeaderContentType, blobstore.ContentTypeText)
	headers.Set(HeaderContentLength, cast.ToString(len(notFoundBody)))

	return &Response{
		Status:  http.StatusNotFound,
		Headers: headers,
		Body:    []byte(notFoundBody),
	}
}
