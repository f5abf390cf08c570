package blobstore

// Common MIME content types for stored payloads.
const (
	ContentTypeOctetStream = "application/octet-stream"
	ContentTypeText        = "text/plain"
	ContentTypeHTML        = "text/html"
	ContentTypeJSON        = "application/json"
	ContentTypeXML         = "application/xml"
	ContentTypeCSV         = "text/csv"
	ContentTypePDF         = "application/pdf"
	ContentTypeJPEG        = "image/jpeg"
	ContentTypePNG         = "image/png"
	ContentTypeGIF         = "image/gif"
	ContentTypeZIP         = "application/zip"
	ContentTypeGZIP        = "application/gzip"
)
