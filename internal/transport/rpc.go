package transport

import (
	"encoding/json"

	"file-manager-plugin/internal/channel"
	"file-manager-plugin/internal/errors"
	"file-manager-plugin/internal/mcp"
	"file-manager-plugin/internal/models"

	"go.uber.org/zap"
)

// Dispatcher turns JSON-RPC requests into channel invocations and back.
// MCP methods go to the MCP processor when one is configured; every other
// method is invoked on the plugin channel.
type Dispatcher struct {
	invoker     mcp.Invoker
	channelName string
	mcp         *mcp.MCPProcessor
	logger      *zap.Logger
}

// NewDispatcher creates a Dispatcher for one channel. processor may be nil.
func NewDispatcher(invoker mcp.Invoker, channelName string, processor *mcp.MCPProcessor, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		invoker:     invoker,
		channelName: channelName,
		mcp:         processor,
		logger:      logger,
	}
}

// DecodeRequest parses one JSON-RPC request. On failure it returns the error
// response to send back.
func DecodeRequest(data []byte) (models.JSONRPCRequest, *models.JSONRPCResponse) {
	var req models.JSONRPCRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return req, &models.JSONRPCResponse{
			JSONRPC: models.JSONRPCVersion,
			ID:      nil,
			Error:   errors.NewParseError(err.Error()),
		}
	}
	return req, nil
}

// Dispatch handles a decoded request and always returns a response, even for
// notifications; transports decide whether to send it.
func (d *Dispatcher) Dispatch(req models.JSONRPCRequest) models.JSONRPCResponse {
	resp := models.JSONRPCResponse{JSONRPC: models.JSONRPCVersion, ID: req.ID}

	if req.JSONRPC != models.JSONRPCVersion {
		resp.Error = errors.NewInvalidRequestError("jsonrpc must be \"2.0\"")
		return resp
	}
	if req.Method == "" {
		resp.Error = errors.NewInvalidRequestError("method not specified")
		return resp
	}

	if d.mcp != nil && d.mcp.Handles(req.Method) {
		result, rpcErr := d.mcp.ProcessRequest(req)
		if rpcErr != nil {
			resp.Error = rpcErr
		} else {
			resp.Result = result
		}
		return resp
	}

	res := d.Call(req.Method, req.Params)
	return ResultToResponse(req.ID, req.Method, res)
}

// Call invokes method on the dispatcher's channel with raw arguments.
func (d *Dispatcher) Call(method string, args json.RawMessage) channel.Result {
	return d.invoker.Invoke(d.channelName, channel.MethodCall{Method: method, Arguments: args})
}

// ResultToResponse maps a channel result onto a JSON-RPC response.
func ResultToResponse(id interface{}, method string, res channel.Result) models.JSONRPCResponse {
	resp := models.JSONRPCResponse{JSONRPC: models.JSONRPCVersion, ID: id}
	switch res.Kind() {
	case channel.KindSuccess:
		resp.Result = res.Payload()
	case channel.KindError:
		resp.Error = errors.ToJSONRPCError(res.Err())
	default:
		resp.Error = errors.NewMethodNotImplementedError(method)
	}
	return resp
}
