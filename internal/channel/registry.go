package channel

import (
	"fmt"
	"sort"
	"sync"

	"file-manager-plugin/internal/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Registry maps channel names to handlers. It is the host side of plugin
// registration and is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
	logger   *zap.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		handlers: make(map[string]Handler),
		logger:   logger,
	}
}

// Register installs a handler on a channel. A channel has at most one handler.
func (r *Registry) Register(channelName string, h Handler) error {
	if channelName == "" {
		return fmt.Errorf("channel name is required")
	}
	if h == nil {
		return fmt.Errorf("handler for channel %q is nil", channelName)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.handlers[channelName]; exists {
		return fmt.Errorf("channel %q already has a handler", channelName)
	}
	r.handlers[channelName] = h
	r.logger.Debug("registered channel handler", zap.String("channel", channelName))
	return nil
}

// Unregister removes the handler of a channel, if any.
func (r *Registry) Unregister(channelName string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.handlers, channelName)
}

// Channels returns the registered channel names, sorted.
func (r *Registry) Channels() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RegisterPlugin lets a plugin install itself.
func (r *Registry) RegisterPlugin(p Plugin) error {
	if p == nil {
		return fmt.Errorf("plugin is nil")
	}
	return p.Register(r)
}

// Invoke routes a call to the channel's handler.
// An unknown channel yields NotImplemented. A panicking handler yields an
// internal failure instead of crashing the host.
func (r *Registry) Invoke(channelName string, call MethodCall) (result Result) {
	if call.ID == uuid.Nil {
		call.ID = uuid.New()
	}

	r.mu.RLock()
	h, ok := r.handlers[channelName]
	r.mu.RUnlock()

	log := r.logger.With(
		zap.String("channel", channelName),
		zap.String("method", call.Method),
		zap.String("call_uuid", call.ID.String()))

	if !ok {
		log.Debug("no handler for channel")
		return NotImplemented()
	}

	defer func() {
		if rec := recover(); rec != nil {
			log.Error("method handler panicked", zap.Any("recover", rec))
			result = Failure(errors.NewInternalPluginError(rec))
		}
	}()

	result = h.HandleMethodCall(call)
	log.Debug("method call handled", zap.Stringer("result", result.Kind()))
	return result
}
