package transport

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"file-manager-plugin/internal/errors"
	"file-manager-plugin/internal/models"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"
)

const (
	defaultMaxConcurrent = 10
	readBufferSize       = 64 * 1024
)

// StdioHandler handles JSON-RPC communication over standard input/output.
// Each line is one request; requests run on a bounded worker pool and each
// response is written as a single line.
type StdioHandler struct {
	dispatcher *Dispatcher
	pool       *ants.Pool
	maxReqSize int
	logger     *zap.Logger

	writeMu sync.Mutex
}

// NewStdioHandler creates a new StdioHandler with at most maxConcurrent
// requests in flight.
func NewStdioHandler(dispatcher *Dispatcher, maxConcurrent int, maxRequestSizeMB int, logger *zap.Logger) (*StdioHandler, error) {
	if dispatcher == nil {
		return nil, fmt.Errorf("dispatcher must not be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxConcurrent <= 0 {
		maxConcurrent = defaultMaxConcurrent
	}
	if maxRequestSizeMB <= 0 {
		maxRequestSizeMB = defaultMaxRequestSizeMB
	}
	pool, err := ants.NewPool(maxConcurrent)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	return &StdioHandler{
		dispatcher: dispatcher,
		pool:       pool,
		maxReqSize: maxRequestSizeMB * 1024 * 1024,
		logger:     logger,
	}, nil
}

// Close releases the worker pool.
func (h *StdioHandler) Close() {
	h.pool.Release()
}

func (h *StdioHandler) writeJSONRPCResponse(writer io.Writer, response models.JSONRPCResponse) {
	responseBytes, err := json.Marshal(response)
	if err != nil {
		h.logger.Error("marshal JSON-RPC response failed", zap.Any("id", response.ID), zap.Error(err))
		responseBytes, _ = json.Marshal(models.JSONRPCResponse{
			JSONRPC: models.JSONRPCVersion,
			ID:      response.ID,
			Error:   errors.NewInternalError("failed to marshal response"),
		})
	}
	responseBytes = append(responseBytes, '\n')

	h.writeMu.Lock()
	defer h.writeMu.Unlock()
	if _, err := writer.Write(responseBytes); err != nil {
		h.logger.Error("write JSON-RPC response failed", zap.Error(err))
	}
}

// handleLine processes one request line and writes its response, if any.
func (h *StdioHandler) handleLine(line []byte, output io.Writer) {
	req, parseResp := DecodeRequest(line)
	if parseResp != nil {
		h.logger.Debug("unparseable request line", zap.Int("bytes", len(line)))
		h.writeJSONRPCResponse(output, *parseResp)
		return
	}

	resp := h.dispatcher.Dispatch(req)
	if req.IsNotification() {
		return
	}
	h.writeJSONRPCResponse(output, resp)
}

// readLine returns the next line without its terminator. A line longer than
// limit is consumed and discarded, and tooLong is set. err is io.EOF once the
// input is exhausted; a final unterminated line is returned alongside it.
func readLine(r *bufio.Reader, limit int) (line []byte, tooLong bool, err error) {
	for {
		chunk, readErr := r.ReadSlice('\n')
		if !tooLong {
			if len(line)+len(bytes.TrimRight(chunk, "\r\n")) > limit {
				tooLong = true
				line = nil
			} else {
				line = append(line, chunk...)
			}
		}
		if readErr == bufio.ErrBufferFull {
			continue
		}
		return bytes.TrimRight(line, "\r\n"), tooLong, readErr
	}
}

// Start reads requests from input until EOF and writes responses to output.
// An oversized line is answered with an invalid-request error and skipped.
// It returns once every submitted request has been answered.
func (h *StdioHandler) Start(input io.Reader, output io.Writer) error {
	h.logger.Info("stdio JSON-RPC handler started", zap.Int("max_concurrent", h.pool.Cap()))

	reader := bufio.NewReaderSize(input, readBufferSize)

	var wg sync.WaitGroup
	for {
		line, tooLong, err := readLine(reader, h.maxReqSize)
		switch {
		case tooLong:
			h.logger.Warn("request line exceeds size limit", zap.Int("limit", h.maxReqSize))
			h.writeJSONRPCResponse(output, models.JSONRPCResponse{
				JSONRPC: models.JSONRPCVersion,
				ID:      nil,
				Error:   errors.NewInvalidRequestError(fmt.Sprintf("request exceeds %d bytes", h.maxReqSize)),
			})
		case len(bytes.TrimSpace(line)) > 0:
			req := line
			wg.Add(1)
			task := func() {
				defer wg.Done()
				h.handleLine(req, output)
			}
			if submitErr := h.pool.Submit(task); submitErr != nil {
				h.logger.Warn("worker pool rejected request, handling inline", zap.Error(submitErr))
				task()
			}
		}

		if err == io.EOF {
			break
		}
		if err != nil {
			wg.Wait()
			h.logger.Error("read from stdio failed", zap.Error(err))
			return err
		}
	}
	wg.Wait()

	h.logger.Info("stdio JSON-RPC handler finished")
	return nil
}
