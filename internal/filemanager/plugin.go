// Package filemanager is the plugin that answers file-manager method calls
// on the io.scarryaa.starlight.file_manager channel.
package filemanager

import (
	"fmt"

	"file-manager-plugin/internal/channel"
	"file-manager-plugin/internal/errors"
	"file-manager-plugin/internal/models"
	"file-manager-plugin/internal/service"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

const (
	// ChannelName is the well-known channel the plugin registers on.
	ChannelName = "io.scarryaa.starlight.file_manager"
	// MethodListDirectory lists the immediate children of a directory.
	MethodListDirectory = "listDirectory"
)

// Plugin handles method calls for the file-manager channel.
type Plugin struct {
	lister service.DirectoryLister
	logger *zap.Logger
}

// NewPlugin creates a Plugin backed by the given lister.
func NewPlugin(lister service.DirectoryLister, logger *zap.Logger) (*Plugin, error) {
	if lister == nil {
		return nil, fmt.Errorf("directory lister is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Plugin{lister: lister, logger: logger}, nil
}

// Register installs the plugin on ChannelName.
func (p *Plugin) Register(registrar channel.Registrar) error {
	return registrar.Register(ChannelName, p)
}

// HandleMethodCall implements channel.Handler.
func (p *Plugin) HandleMethodCall(call channel.MethodCall) channel.Result {
	switch call.Method {
	case MethodListDirectory:
		return p.listDirectory(call)
	default:
		return channel.NotImplemented()
	}
}

func (p *Plugin) listDirectory(call channel.MethodCall) channel.Result {
	req, ok := parseListDirectoryArgs(call.Arguments)
	if !ok {
		p.logger.Debug("rejected listDirectory arguments",
			zap.String("call_uuid", call.ID.String()),
			zap.ByteString("arguments", call.Arguments))
		return channel.Failure(errors.NewInvalidArgumentsError())
	}

	entries, perr := p.lister.ListDirectory(req)
	if perr != nil {
		return channel.Failure(perr)
	}
	return channel.Success(entries)
}

// parseListDirectoryArgs accepts only a JSON object whose "path" member is a string.
// The string itself is not validated; an empty path is left to the file system.
func parseListDirectoryArgs(raw []byte) (models.ListDirectoryRequest, bool) {
	if len(raw) == 0 || !gjson.ValidBytes(raw) {
		return models.ListDirectoryRequest{}, false
	}
	if !gjson.ParseBytes(raw).IsObject() {
		return models.ListDirectoryRequest{}, false
	}
	path := gjson.GetBytes(raw, "path")
	if !path.Exists() || path.Type != gjson.String {
		return models.ListDirectoryRequest{}, false
	}
	return models.ListDirectoryRequest{Path: path.Str}, true
}

// Ensure Plugin satisfies the channel contracts
var (
	_ channel.Handler = (*Plugin)(nil)
	_ channel.Plugin  = (*Plugin)(nil)
)
