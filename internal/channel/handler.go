package channel

import (
	"encoding/json"

	"github.com/google/uuid"
)

// MethodCall is one inbound request on a channel.
type MethodCall struct {
	// ID correlates log lines for one call. The registry assigns one when unset.
	ID uuid.UUID
	// Method is the method name, e.g. "listDirectory".
	Method string
	// Arguments is the raw argument value; it may be empty or any JSON type.
	Arguments json.RawMessage
}

// Handler processes method calls for one channel.
type Handler interface {
	HandleMethodCall(call MethodCall) Result
}

// HandlerFunc is a function adapter for the Handler interface.
type HandlerFunc func(call MethodCall) Result

// HandleMethodCall implements Handler.
func (f HandlerFunc) HandleMethodCall(call MethodCall) Result {
	if f == nil {
		return NotImplemented()
	}
	return f(call)
}

// Plugin is anything that can install its handlers on a registry.
type Plugin interface {
	Register(registrar Registrar) error
}

// Registrar is the registration side of the host registry handed to plugins.
type Registrar interface {
	Register(channelName string, h Handler) error
}
