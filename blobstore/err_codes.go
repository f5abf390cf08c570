package blobstore

import "github.com/code19m/errx"

// Error codes for blobstore operations.
const (
	// CodeItemNotFound is returned when no record or payload exists at the
	// requested path, including when a stored record is unreadable.
	CodeItemNotFound = "ITEM_NOT_FOUND"
)

// NewNotFound builds the canonical not-found error for a path.
func NewNotFound(path string) error {
	return errx.New(
		"item not found",
		errx.WithCode(CodeItemNotFound),
		errx.WithType(errx.T_NotFound),
		errx.WithDetails(errx.D{"path": path}),
	)
}

// IsNotFound reports whether err carries CodeItemNotFound.
func IsNotFound(err error) bool {
	return errx.IsCodeIn(err, CodeItemNotFound)
}
