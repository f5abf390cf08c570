package httpmock_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rise-and-shine/storesim/blobstore"
	"github.com/rise-and-shine/storesim/blobstore/memstore"
	"github.com/rise-and-shine/storesim/datastore"
	"github.com/rise-and-shine/storesim/httpmock"
	"github.com/rise-and-shine/storesim/upload"
)

func putData(t *testing.T, ds *datastore.Datastore, path string, data []byte, opts upload.PutOptions) {
	t.Helper()
	lc, err := ds.PutData(context.Background(), path, data, opts)
	require.NoError(t, err)
	_, err = lc.Wait(context.Background())
	require.NoError(t, err)
}

func TestRespondOK(t *testing.T) {
	ctx := context.Background()
	ds := datastore.New(memstore.New())
	putData(t, ds, "hello.txt", []byte("Hello, World!"), upload.PutOptions{
		ContentType: blobstore.ContentTypeText,
	})

	resp, err := httpmock.New(ds).Respond(ctx, "hello.txt")
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, []byte("Hello, World!"), resp.Body)

	contentType, _ := resp.Header(httpmock.HeaderContentType)
	assert.Equal(t, blobstore.ContentTypeText, contentType)

	length, _ := resp.Header(httpmock.HeaderContentLength)
	assert.Equal(t, "13", length)

	lastModified, ok := resp.Header(httpmock.HeaderLastModified)
	assert.True(t, ok)
	_, err = http.ParseTime(lastModified)
	assert.NoError(t, err)
}

func TestRespondNotFound(t *testing.T) {
	ctx := context.Background()
	ds := datastore.New(memstore.New())

	resp, err := httpmock.New(ds).Respond(ctx, "missing.txt")
	require.NoError(t, err)

	assert.Equal(t, http.StatusNotFound, resp.Status)
	assert.Equal(t, []byte("Not Found"), resp.Body)

	contentType, _ := resp.Header(httpmock.HeaderContentType)
	assert.Equal(t, blobstore.ContentTypeText, contentType)

	length, _ := resp.Header(httpmock.HeaderContentLength)
	assert.Equal(t, "9", length)
}

func TestRespondHeaderOrder(t *testing.T) {
	ctx := context.Background()
	ds := datastore.New(memstore.New())
	putData(t, ds, "styled.css", []byte("body{}"), upload.PutOptions{
		ContentType:     "text/css",
		ContentEncoding: "gzip",
		ContentLanguage: "en",
		CacheControl:    "max-age=3600",
	})

	resp, err := httpmock.New(ds).Respond(ctx, "styled.css")
	require.NoError(t, err)

	var names []string
	for pair := resp.Headers.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}
	assert.Equal(t, []string{
		httpmock.HeaderContentType,
		httpmock.HeaderContentLength,
		httpmock.HeaderLastModified,
		httpmock.HeaderContentEncoding,
		httpmock.HeaderContentLanguage,
		httpmock.HeaderCacheControl,
	}, names)

	encoding, _ := resp.Header(httpmock.HeaderContentEncoding)
	assert.Equal(t, "gzip", encoding)
}

func TestFiberHandler(t *testing.T) {
	ds := datastore.New(memstore.New())
	putData(t, ds, "blobs/hello.txt", []byte("Hello, World!"), upload.PutOptions{
		ContentType: blobstore.ContentTypeText,
	})

	app := fiber.New()
	app.Get("/mock/*", httpmock.New(ds).FiberHandler())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/mock/blobs/hello.txt", nil))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, blobstore.ContentTypeText, resp.Header.Get("Content-Type"))
	assert.Equal(t, "13", resp.Header.Get("Content-Length"))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, []byte("Hello, World!"), body)

	missing, err := app.Test(httptest.NewRequest(http.MethodGet, "/mock/none.txt", nil))
	require.NoError(t, err)
	defer func() { _ = missing.Body.Close() }()
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)
}
