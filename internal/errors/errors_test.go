package errors

import (
	stdErrors "errors"
	"io/fs"
	"net/http"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInvalidArgumentsError(t *testing.T) {
	pe := NewInvalidArgumentsError()
	assert.Equal(t, "INVALID_ARGUMENTS", pe.Code)
	assert.Equal(t, "Invalid arguments", pe.Message)
	assert.Nil(t, pe.Details)
	assert.Nil(t, pe.Cause)
}

func TestNewListDirectoryError_ForwardsPlatformMessage(t *testing.T) {
	_, err := os.ReadDir("/definitely/not/here")
	require.Error(t, err)

	pe := NewListDirectoryError(err)
	assert.Equal(t, "LIST_DIRECTORY_ERROR", pe.Code)
	assert.Equal(t, err.Error(), pe.Message)
	assert.Nil(t, pe.Details)
	assert.True(t, stdErrors.Is(pe, fs.ErrNotExist))
}

func TestNewListDirectoryError_NilCause(t *testing.T) {
	pe := NewListDirectoryError(nil)
	assert.Equal(t, CodeListDirectoryError, pe.Code)
	assert.Equal(t, "unknown error", pe.Message)
}

func TestToJSONRPCError(t *testing.T) {
	tests := []struct {
		name     string
		in       func() error
		code     string
		wantCode int
	}{
		{"invalid arguments", nil, CodeInvalidArguments, CodeInvalidParams},
		{"list directory", func() error { return fs.ErrNotExist }, CodeListDirectoryError, CodeFileSystemError},
		{"internal", nil, CodeInternal, CodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pe := NewPluginError(tt.code, "msg")
			if tt.in != nil {
				pe.Cause = tt.in()
			}
			rpcErr := ToJSONRPCError(pe)
			require.NotNil(t, rpcErr)
			assert.Equal(t, tt.wantCode, rpcErr.Code)
			assert.Equal(t, "msg", rpcErr.Message)
			require.NotNil(t, rpcErr.Data)
			assert.Equal(t, tt.code, rpcErr.Data.Code)
			assert.Nil(t, rpcErr.Data.Cause)
		})
	}

	assert.Nil(t, ToJSONRPCError(nil))
}

func TestNewMethodNotImplementedError_HasNoPluginData(t *testing.T) {
	rpcErr := NewMethodNotImplementedError("deleteEverything")
	assert.Equal(t, CodeMethodNotFound, rpcErr.Code)
	assert.Contains(t, rpcErr.Message, "deleteEverything")
	assert.Nil(t, rpcErr.Data)
}

func TestMapErrorToHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  func() error
		code string
		want int
	}{
		{"invalid arguments", nil, CodeInvalidArguments, http.StatusBadRequest},
		{"not found", func() error { return &fs.PathError{Op: "open", Path: "/x", Err: fs.ErrNotExist} }, CodeListDirectoryError, http.StatusNotFound},
		{"permission", func() error { return &fs.PathError{Op: "open", Path: "/x", Err: fs.ErrPermission} }, CodeListDirectoryError, http.StatusForbidden},
		{"other list failure", func() error { return stdErrors.New("readdirent: not a directory") }, CodeListDirectoryError, http.StatusInternalServerError},
		{"internal", nil, CodeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var pe = NewPluginError(tt.code, "msg")
			if tt.err != nil {
				pe = NewListDirectoryError(tt.err())
			}
			assert.Equal(t, tt.want, MapErrorToHTTPStatus(pe))
		})
	}

	assert.Equal(t, http.StatusInternalServerError, MapErrorToHTTPStatus(nil))
}
