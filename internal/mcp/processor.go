package mcp

import (
	"encoding/json"
	"fmt"
	"strings"

	"file-manager-plugin/internal/channel"
	"file-manager-plugin/internal/errors"
	"file-manager-plugin/internal/filemanager"
	"file-manager-plugin/internal/models"

	"github.com/tidwall/gjson"
)

const (
	// ProtocolVersion is the MCP revision the processor answers with.
	ProtocolVersion = "2024-11-05"

	MethodInitialize = "initialize"
	MethodToolsList  = "tools/list"
	MethodToolsCall  = "tools/call"

	// ToolListDirectory is the MCP name of the listDirectory method.
	ToolListDirectory = "list_directory"
)

// Invoker routes a method call to a channel. *channel.Registry satisfies it.
type Invoker interface {
	Invoke(channelName string, call channel.MethodCall) channel.Result
}

// MCPProcessor exposes the file-manager channel as MCP tools.
type MCPProcessor struct {
	invoker       Invoker
	serverName    string
	serverVersion string
}

// NewMCPProcessor creates a new MCPProcessor.
func NewMCPProcessor(invoker Invoker, serverName, serverVersion string) *MCPProcessor {
	return &MCPProcessor{
		invoker:       invoker,
		serverName:    serverName,
		serverVersion: serverVersion,
	}
}

// Handles reports whether method is an MCP method this processor answers.
func (p *MCPProcessor) Handles(method string) bool {
	switch method {
	case MethodInitialize, MethodToolsList, MethodToolsCall:
		return true
	}
	return false
}

// ProcessRequest handles an MCP JSON-RPC request and returns its result or a JSONRPCError.
func (p *MCPProcessor) ProcessRequest(req models.JSONRPCRequest) (interface{}, *models.JSONRPCError) {
	switch req.Method {
	case MethodInitialize:
		return &models.InitializeResponse{
			ProtocolVersion: ProtocolVersion,
			Capabilities:    models.Capabilities{Tools: models.ToolsCapabilities{}},
			ServerInfo:      models.ServerInfo{Name: p.serverName, Version: p.serverVersion},
		}, nil
	case MethodToolsList:
		return &models.ToolsListResponse{Tools: toolDefinitions()}, nil
	case MethodToolsCall:
		var params models.MCPToolCallParams
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return nil, &models.JSONRPCError{
				Code:    errors.CodeInvalidParams,
				Message: "Invalid parameters for tools/call: " + err.Error(),
			}
		}
		return p.handleToolCall(params.Name, params.Arguments), nil
	default:
		return nil, errors.NewMethodNotImplementedError(req.Method)
	}
}

func toolDefinitions() []models.ToolDefinition {
	return []models.ToolDefinition{
		{
			Name:        ToolListDirectory,
			Description: "Lists the immediate children of a directory. Reports name, full path and whether each entry is a directory, in file system order.",
			InputSchema: models.Schema{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute or relative path of the directory to list",
					},
				},
				"required": []string{"path"},
			},
			Annotations: models.ToolAnnotations{
				ReadOnlyHint:    true,
				DestructiveHint: false,
				IdempotentHint:  true,
			},
		},
	}
}

// handleToolCall dispatches a tool call to the channel.
func (p *MCPProcessor) handleToolCall(toolName string, toolArgs json.RawMessage) *models.MCPToolResult {
	switch toolName {
	case ToolListDirectory:
		res := p.invoker.Invoke(filemanager.ChannelName, channel.MethodCall{
			Method:    filemanager.MethodListDirectory,
			Arguments: toolArgs,
		})
		switch res.Kind() {
		case channel.KindSuccess:
			entries, _ := res.Payload().([]models.Entry)
			return textResult(formatListDirectoryResult(entries, gjson.GetBytes(toolArgs, "path").String()), false)
		case channel.KindError:
			return textResult(formatToolError(res.Err()), true)
		default:
			return textResult("Error: list_directory is not implemented by the host.", true)
		}
	default:
		return textResult("Error: Unknown tool '"+toolName+"'.", true)
	}
}

func textResult(text string, isError bool) *models.MCPToolResult {
	return &models.MCPToolResult{
		Content: []models.MCPToolContent{{Type: "text", Text: text}},
		IsError: isError,
	}
}

// formatListDirectoryResult formats the result of a list_directory call.
func formatListDirectoryResult(entries []models.Entry, directory string) string {
	if len(entries) == 0 {
		return fmt.Sprintf("Directory %s is empty.", directory)
	}
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("Directory: %s\nTotal entries: %d\n\n", directory, len(entries)))
	for _, e := range entries {
		kind := "file"
		if e.IsDirectory {
			kind = "dir"
		}
		builder.WriteString(fmt.Sprintf("[%s] %s (%s)\n", kind, e.Name, e.Path))
	}
	return builder.String()
}

// formatToolError formats a plugin error as "Error: <code>: <message>".
func formatToolError(pe *models.PluginError) string {
	if pe == nil {
		return "Error: An unexpected error occurred, but no details were provided."
	}
	return fmt.Sprintf("Error: %s: %s", pe.Code, pe.Message)
}
