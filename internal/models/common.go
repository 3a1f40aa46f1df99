package models

// PluginError is the structured failure value returned across the channel
// boundary instead of a raised fault.
type PluginError struct {
	// Code is one of the plugin error codes, e.g. "INVALID_ARGUMENTS".
	Code string `json:"code"`
	// Message is human-readable. For listing failures it is the platform error text.
	Message string `json:"message"`
	// Details is always null for the codes this plugin emits.
	Details interface{} `json:"details"`
	// Cause is the underlying platform error, if any. It never crosses the wire.
	Cause error `json:"-"`
}

// Error implements the error interface so a PluginError can be logged with zap.Error.
func (e *PluginError) Error() string {
	return e.Code + ": " + e.Message
}

// Unwrap returns the underlying platform error.
func (e *PluginError) Unwrap() error {
	return e.Cause
}

// ErrorResponse wraps a PluginError for plain HTTP responses.
type ErrorResponse struct {
	Error PluginError `json:"error"`
}
