package upload

// Error codes for upload lifecycle operations.
const (
	// CodeUploadCancelled is the completion result of a cancelled upload.
	CodeUploadCancelled = "UPLOAD_CANCELLED"

	// CodeUploadInFlight is returned when the result of an unresolved
	// lifecycle is requested.
	CodeUploadInFlight = "UPLOAD_IN_FLIGHT"
)
