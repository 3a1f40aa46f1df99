package models

import "encoding/json"

// JSONRPCVersion is the only protocol version accepted by the transports.
const JSONRPCVersion = "2.0"

// JSONRPCRequest represents a JSON-RPC request object.
type JSONRPCRequest struct {
	// JSONRPC specifies the version of the JSON-RPC protocol, must be "2.0".
	JSONRPC string `json:"jsonrpc"`
	// ID is a string or number chosen by the client; it is absent for notifications.
	ID interface{} `json:"id,omitempty"`
	// Method is the name of the method to be invoked.
	Method string `json:"method"`
	// Params is kept raw until the method is known.
	Params json.RawMessage `json:"params,omitempty"`
}

// IsNotification reports whether the request carries no id.
func (r JSONRPCRequest) IsNotification() bool {
	return r.ID == nil
}

// JSONRPCError represents a JSON-RPC error object.
type JSONRPCError struct {
	// Code is a JSON-RPC or application error number.
	Code int `json:"code"`
	// Message is a short description of the error.
	Message string `json:"message"`
	// Data carries the plugin error value when the failure came from a plugin.
	Data *PluginError `json:"data,omitempty"`
}

// JSONRPCResponse represents a JSON-RPC response object.
// Exactly one of Result and Error is set.
type JSONRPCResponse struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      interface{}   `json:"id"`
	Result  interface{}   `json:"result,omitempty"`
	Error   *JSONRPCError `json:"error,omitempty"`
}
