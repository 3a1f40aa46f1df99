package errors

import (
	stdErrors "errors"
	"fmt"
	"io/fs"
	"net/http"

	"file-manager-plugin/internal/models"
)

// Plugin error codes carried in models.PluginError.Code.
const (
	// CodeInvalidArguments means the call lacked a well-formed "path" string.
	CodeInvalidArguments = "INVALID_ARGUMENTS"
	// CodeListDirectoryError means the directory enumeration itself failed.
	CodeListDirectoryError = "LIST_DIRECTORY_ERROR"
	// CodeInternal is reserved for handler panics caught by the channel registry.
	CodeInternal = "INTERNAL_ERROR"
)

// Transport-level codes used in HTTP error bodies.
const (
	CodeBadRequest     = "INVALID_REQUEST"
	CodeNotImplemented = "NOT_IMPLEMENTED"
)

// JSON-RPC Error Codes (as per JSON-RPC 2.0 Specification)
const (
	CodeParseError     = -32700 // Invalid JSON was received by the server.
	CodeInvalidRequest = -32600 // The JSON sent is not a valid Request object.
	CodeMethodNotFound = -32601 // The method does not exist / is not available.
	CodeInvalidParams  = -32602 // Invalid method parameter(s).
	CodeInternalError  = -32603 // Internal JSON-RPC error.
)

// Application Specific Error Codes
const (
	// CodeFileSystemError is used for LIST_DIRECTORY_ERROR on the JSON-RPC wire.
	CodeFileSystemError = -32001
)

// MessageInvalidArguments is the fixed message for INVALID_ARGUMENTS.
const MessageInvalidArguments = "Invalid arguments"

// NewPluginError creates a new PluginError with null details.
func NewPluginError(code, message string) *models.PluginError {
	return &models.PluginError{
		Code:    code,
		Message: message,
		Details: nil,
	}
}

// NewInvalidArgumentsError creates the INVALID_ARGUMENTS failure.
func NewInvalidArgumentsError() *models.PluginError {
	return NewPluginError(CodeInvalidArguments, MessageInvalidArguments)
}

// NewListDirectoryError creates the LIST_DIRECTORY_ERROR failure.
// The platform error text is forwarded verbatim.
func NewListDirectoryError(err error) *models.PluginError {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	pe := NewPluginError(CodeListDirectoryError, msg)
	pe.Cause = err
	return pe
}

// NewInternalPluginError creates a failure for a handler that panicked.
func NewInternalPluginError(recovered interface{}) *models.PluginError {
	return NewPluginError(CodeInternal, fmt.Sprintf("handler panic: %v", recovered))
}

// --- JSON-RPC error constructors ---

// NewParseError creates a JSONRPCError for JSON parsing errors.
// JSON-RPC: -32700
func NewParseError(details string) *models.JSONRPCError {
	return &models.JSONRPCError{Code: CodeParseError, Message: "Parse error: " + details}
}

// NewInvalidRequestError creates a JSONRPCError for invalid Request objects.
// JSON-RPC: -32600
func NewInvalidRequestError(details string) *models.JSONRPCError {
	return &models.JSONRPCError{Code: CodeInvalidRequest, Message: "Invalid Request: " + details}
}

// NewMethodNotImplementedError creates the not-implemented outcome.
// It deliberately carries no plugin error data.
// JSON-RPC: -32601
func NewMethodNotImplementedError(method string) *models.JSONRPCError {
	return &models.JSONRPCError{Code: CodeMethodNotFound, Message: "Method not implemented: " + method}
}

// NewInternalError creates a JSONRPCError for unexpected server errors.
// JSON-RPC: -32603
func NewInternalError(details string) *models.JSONRPCError {
	return &models.JSONRPCError{Code: CodeInternalError, Message: "Internal error: " + details}
}

// ToJSONRPCError converts a PluginError to a JSONRPCError.
// The plugin error value is kept whole in Data.
func ToJSONRPCError(pe *models.PluginError) *models.JSONRPCError {
	if pe == nil {
		return nil
	}
	code := CodeInternalError
	switch pe.Code {
	case CodeInvalidArguments:
		code = CodeInvalidParams
	case CodeListDirectoryError:
		code = CodeFileSystemError
	}
	data := *pe
	data.Cause = nil
	return &models.JSONRPCError{
		Code:    code,
		Message: pe.Message,
		Data:    &data,
	}
}

// --- HTTP Status Mapping ---

// MapErrorToHTTPStatus maps a plugin error to an HTTP status code.
// For LIST_DIRECTORY_ERROR the platform cause picks between 404, 403 and 500.
func MapErrorToHTTPStatus(pe *models.PluginError) int {
	if pe == nil {
		return http.StatusInternalServerError
	}
	switch pe.Code {
	case CodeInvalidArguments:
		return http.StatusBadRequest
	case CodeListDirectoryError:
		switch {
		case stdErrors.Is(pe, fs.ErrNotExist):
			return http.StatusNotFound
		case stdErrors.Is(pe, fs.ErrPermission):
			return http.StatusForbidden
		}
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
