package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"file-manager-plugin/internal/channel"
	"file-manager-plugin/internal/filemanager"
	"file-manager-plugin/internal/filesystem"
	"file-manager-plugin/internal/models"

	"github.com/spf13/cobra"
)

// ErrListFailed is returned by the list command after it has printed a
// plugin error.
var ErrListFailed = errors.New("listDirectory failed")

func newListCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list <path>",
		Short: "List a directory through the plugin and print the JSON result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			// stdout carries the result.
			logger, err := newLogger(cfg, "stdio")
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			h, err := newHost(filesystem.NewDefaultFileSystemAdapter(), logger)
			if err != nil {
				return err
			}
			return runList(h, args[0], cmd.OutOrStdout())
		},
	}
}

func runList(h *host, path string, out io.Writer) error {
	args, err := json.Marshal(models.ListDirectoryRequest{Path: path})
	if err != nil {
		return fmt.Errorf("encode arguments: %w", err)
	}

	res := h.registry.Invoke(filemanager.ChannelName, channel.MethodCall{
		Method:    filemanager.MethodListDirectory,
		Arguments: args,
	})

	switch res.Kind() {
	case channel.KindSuccess:
		return writeIndented(out, res.Payload())
	case channel.KindError:
		pe := *res.Err()
		pe.Cause = nil
		if err := writeIndented(out, models.ErrorResponse{Error: pe}); err != nil {
			return err
		}
		return ErrListFailed
	default:
		return fmt.Errorf("%s is not implemented by channel %s", filemanager.MethodListDirectory, filemanager.ChannelName)
	}
}

func writeIndented(out io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}
