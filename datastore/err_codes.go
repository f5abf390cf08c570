package datastore

// Error codes for registry operations.
const (
	// CodeStoreNotFound is returned when looking up an unregistered name.
	CodeStoreNotFound = "STORE_NOT_FOUND"

	// CodeDuplicateStore is returned when registering a name twice.
	CodeDuplicateStore = "DUPLICATE_STORE"
)
