package cli

import (
	"fmt"

	"file-manager-plugin/internal/channel"
	"file-manager-plugin/internal/filemanager"
	"file-manager-plugin/internal/filesystem"
	"file-manager-plugin/internal/mcp"
	"file-manager-plugin/internal/service"
	"file-manager-plugin/internal/transport"

	"go.uber.org/zap"
)

const serverName = "file-manager"

// host is the in-process plugin host: a registry with the file manager
// plugin installed and a dispatcher in front of it.
type host struct {
	registry   *channel.Registry
	dispatcher *transport.Dispatcher
}

func newHost(fs filesystem.FileSystemAdapter, logger *zap.Logger) (*host, error) {
	lister, err := service.NewDefaultDirectoryLister(fs, logger.Named("lister"))
	if err != nil {
		return nil, fmt.Errorf("init directory lister: %w", err)
	}
	plugin, err := filemanager.NewPlugin(lister, logger.Named("plugin"))
	if err != nil {
		return nil, fmt.Errorf("init plugin: %w", err)
	}

	registry := channel.NewRegistry(logger.Named("registry"))
	if err := registry.RegisterPlugin(plugin); err != nil {
		return nil, fmt.Errorf("register plugin: %w", err)
	}

	processor := mcp.NewMCPProcessor(registry, serverName, version)
	return &host{
		registry:   registry,
		dispatcher: transport.NewDispatcher(registry, filemanager.ChannelName, processor, logger.Named("dispatch")),
	}, nil
}
