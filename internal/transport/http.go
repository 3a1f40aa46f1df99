package transport

import (
	"context"
	"encoding/json"
	stdErrors "errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"file-manager-plugin/internal/channel"
	"file-manager-plugin/internal/errors"
	"file-manager-plugin/internal/filemanager"
	"file-manager-plugin/internal/models"

	"go.uber.org/zap"
)

const (
	defaultTimeout          = 30 * time.Second
	defaultMaxRequestSizeMB = 1
)

// HTTPHandler serves the plugin channel over HTTP.
type HTTPHandler struct {
	dispatcher *Dispatcher
	timeout    time.Duration
	maxReqSize int64
	logger     *zap.Logger
	Server     *http.Server
}

// NewHTTPHandler creates a new HTTPHandler. Zero values select the defaults.
func NewHTTPHandler(dispatcher *Dispatcher, timeoutSec int, maxRequestSizeMB int, logger *zap.Logger) *HTTPHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := defaultTimeout
	if timeoutSec > 0 {
		timeout = time.Duration(timeoutSec) * time.Second
	}
	if maxRequestSizeMB <= 0 {
		maxRequestSizeMB = defaultMaxRequestSizeMB
	}
	return &HTTPHandler{
		dispatcher: dispatcher,
		timeout:    timeout,
		maxReqSize: int64(maxRequestSizeMB) * 1024 * 1024,
		logger:     logger,
		Server:     &http.Server{},
	}
}

// RegisterRoutes sets up the HTTP routes for the handler.
func (h *HTTPHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/rpc", h.handleRPC)
	mux.HandleFunc("/"+filemanager.MethodListDirectory, h.handleListDirectory)
	mux.HandleFunc("/health", h.handleHealthCheck)
}

// Handler returns a mux with every route registered.
func (h *HTTPHandler) Handler() http.Handler {
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	return mux
}

func (h *HTTPHandler) writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			h.logger.Error("encode JSON response failed", zap.Error(err))
		}
	}
}

func (h *HTTPHandler) writeJSONErrorResponse(w http.ResponseWriter, httpStatusCode int, pe *models.PluginError) {
	if pe == nil {
		pe = errors.NewPluginError(errors.CodeInternal, "An unexpected error occurred and error details were lost.")
		httpStatusCode = http.StatusInternalServerError
	}
	body := *pe
	body.Cause = nil
	h.writeJSONResponse(w, httpStatusCode, models.ErrorResponse{Error: body})
}

func (h *HTTPHandler) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	h.writeJSONResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// readBody enforces POST, a JSON content type and the size cap. On failure
// it returns the status and error to send.
func (h *HTTPHandler) readBody(w http.ResponseWriter, r *http.Request) ([]byte, int, *models.PluginError) {
	if r.Method != http.MethodPost {
		return nil, http.StatusMethodNotAllowed, errors.NewPluginError(errors.CodeBadRequest,
			fmt.Sprintf("Method %s not allowed for %s. Use POST.", r.Method, r.URL.Path))
	}
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		return nil, http.StatusUnsupportedMediaType, errors.NewPluginError(errors.CodeBadRequest,
			"Invalid Content-Type header. Must be 'application/json' or 'application/json; charset=utf-8'.")
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxReqSize)
	defer r.Body.Close()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stdErrors.As(err, &tooLarge) {
			return nil, http.StatusRequestEntityTooLarge, errors.NewPluginError(errors.CodeBadRequest,
				fmt.Sprintf("Request body exceeds maximum size of %d bytes.", h.maxReqSize))
		}
		return nil, http.StatusBadRequest, errors.NewPluginError(errors.CodeBadRequest,
			fmt.Sprintf("Failed to read request body: %v", err))
	}
	return body, http.StatusOK, nil
}

// handleListDirectory is the REST rendition of listDirectory. The body is
// passed to the plugin as the call arguments.
func (h *HTTPHandler) handleListDirectory(w http.ResponseWriter, r *http.Request) {
	body, status, pe := h.readBody(w, r)
	if pe != nil {
		h.writeJSONErrorResponse(w, status, pe)
		return
	}

	res := h.dispatcher.Call(filemanager.MethodListDirectory, body)
	switch res.Kind() {
	case channel.KindSuccess:
		h.writeJSONResponse(w, http.StatusOK, res.Payload())
	case channel.KindError:
		h.writeJSONErrorResponse(w, errors.MapErrorToHTTPStatus(res.Err()), res.Err())
	default:
		h.writeJSONErrorResponse(w, http.StatusNotImplemented, errors.NewPluginError(errors.CodeNotImplemented,
			"Method not implemented: "+filemanager.MethodListDirectory))
	}
}

// handleRPC serves a single JSON-RPC request. Every JSON-RPC outcome is
// HTTP 200; notifications get 204.
func (h *HTTPHandler) handleRPC(w http.ResponseWriter, r *http.Request) {
	body, status, pe := h.readBody(w, r)
	if pe != nil {
		h.writeJSONResponse(w, status, models.JSONRPCResponse{
			JSONRPC: models.JSONRPCVersion,
			Error:   errors.NewInvalidRequestError(pe.Message),
		})
		return
	}

	req, parseResp := DecodeRequest(body)
	if parseResp != nil {
		h.writeJSONResponse(w, http.StatusOK, parseResp)
		return
	}

	resp := h.dispatcher.Dispatch(req)
	if req.IsNotification() {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	h.writeJSONResponse(w, http.StatusOK, resp)
}

// StartServer listens on port until Shutdown is called.
func (h *HTTPHandler) StartServer(port int) error {
	h.Server.Addr = fmt.Sprintf(":%d", port)
	h.Server.Handler = h.Handler()
	h.Server.ReadTimeout = h.timeout
	h.Server.WriteTimeout = h.timeout

	h.logger.Info("HTTP server starting", zap.Int("port", port), zap.Duration("timeout", h.timeout))
	err := h.Server.ListenAndServe()
	if err != nil && !stdErrors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	h.logger.Info("HTTP server shut down", zap.Int("port", port))
	return nil
}

// Shutdown gracefully stops the server, bounded by the request timeout.
func (h *HTTPHandler) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}
