package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Native status families. Each family of native status codes surfaces as
// exactly one of these error codes.
const (
	// ErrCodeTransfer indicates a non-OK single-transfer status.
	ErrCodeTransfer ErrorCode = "TRANSFER_ERROR"
	// ErrCodeMulti indicates a non-OK multi-transfer status.
	ErrCodeMulti ErrorCode = "MULTI_ERROR"
	// ErrCodeShare indicates a non-OK shared-state status.
	ErrCodeShare ErrorCode = "SHARE_ERROR"
	// ErrCodeURL indicates a non-OK URL handle status.
	ErrCodeURL ErrorCode = "URL_ERROR"
)

// Resource errors
const (
	// ErrCodeOutOfMemory indicates the native layer returned an empty resource.
	ErrCodeOutOfMemory ErrorCode = "OUT_OF_MEMORY"
	// ErrCodeReleased indicates an operation on an already released owner.
	ErrCodeReleased ErrorCode = "RESOURCE_RELEASED"
	// ErrCodeLibrary indicates a missing or unusable native library.
	ErrCodeLibrary ErrorCode = "LIBRARY_ERROR"
)

// Validation errors
const (
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeMissingField indicates a required field is missing.
	ErrCodeMissingField ErrorCode = "MISSING_FIELD"
	// ErrCodeUnsupported indicates a feature without a safe representation.
	ErrCodeUnsupported ErrorCode = "UNSUPPORTED"
)

// ErrCodeInternal indicates an unexpected internal failure.
const ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
