// Package i18n holds the user facing messages of the packing list service.
// Messages are looked up by key so handlers and middleware never embed
// display text. There is a single English catalog.
package i18n

// Message returns the text for key, or key itself when it is unknown.
func Message(key string) string {
	if msg, ok := catalog[key]; ok {
		return msg
	}
	return key
}

var catalog = map[string]string{
	ErrKeyInvalidRequest:     "Invalid request",
	ErrKeyInvalidRequestBody: "Invalid request body",
	ErrKeyInternalError:      "An unexpected error occurred",
	ErrKeyNotFound:           "Not found",
	ErrKeyRateLimitExceeded:  "Too many requests, please try again later",
	ErrKeyConflict:           "Conflict",
	ErrKeyTimeout:            "The request took too long to complete",
	ErrKeyServiceUnavailable: "Storage is temporarily unavailable",
	ErrKeyValidationFailed:   "Validation failed",
	ErrKeyListCompleted:      "This packing list is completed. You need to convert it to draft to make changes.",
	ErrKeyVersionConflict:    "The packing list was changed by someone else. Reload it and try again.",
	ErrKeyDuplicate:          "Already exists",
	ErrKeyInvalidStatus:      "Status must be draft or completed",
	ErrKeyInvalidHSCode:      "HS code must contain exactly 12 digits",
}
