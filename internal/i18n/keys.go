package i18n

// Error message keys.
const (
	ErrKeyInvalidRequest     = "error.invalid_request"
	ErrKeyInvalidRequestBody = "error.invalid_request_body"
	ErrKeyInternalError      = "error.internal_error"
	ErrKeyNotFound           = "error.not_found"
	ErrKeyRateLimitExceeded  = "error.rate_limit_exceeded"
	ErrKeyConflict           = "error.conflict"
	ErrKeyTimeout            = "error.timeout"
	ErrKeyServiceUnavailable = "error.service_unavailable"
	ErrKeyValidationFailed   = "error.validation_failed"
	// ErrKeyListCompleted is returned for structural edits of a completed list.
	ErrKeyListCompleted = "error.list_completed"
	// ErrKeyVersionConflict means the list changed since the client read it.
	ErrKeyVersionConflict = "error.version_conflict"
	ErrKeyDuplicate       = "error.duplicate"
	ErrKeyInvalidStatus   = "error.invalid_status"
	ErrKeyInvalidHSCode   = "error.invalid_hs_code"
)
