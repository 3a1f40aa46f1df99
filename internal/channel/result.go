package channel

import (
	"file-manager-plugin/internal/errors"
	"file-manager-plugin/internal/models"
)

// ResultKind tags the outcome of a method call.
type ResultKind uint8

const (
	// KindSuccess carries a payload.
	KindSuccess ResultKind = iota
	// KindError carries a plugin error.
	KindError
	// KindNotImplemented means no handler knows the method.
	KindNotImplemented
)

// String returns a string representation of the kind.
func (k ResultKind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindError:
		return "error"
	case KindNotImplemented:
		return "not-implemented"
	default:
		return "unknown"
	}
}

// Result is the response to a method call. Handlers never panic or return a
// Go error across the channel; every outcome is one of the three kinds.
type Result struct {
	kind    ResultKind
	payload interface{}
	err     *models.PluginError
}

// Success creates a successful result.
func Success(payload interface{}) Result {
	return Result{kind: KindSuccess, payload: payload}
}

// Failure creates an error result. A nil error is reported as an internal failure.
func Failure(err *models.PluginError) Result {
	if err == nil {
		err = errors.NewPluginError(errors.CodeInternal, "failure without error value")
	}
	return Result{kind: KindError, err: err}
}

// NotImplemented creates the not-implemented result.
func NotImplemented() Result {
	return Result{kind: KindNotImplemented}
}

// Kind returns the result tag.
func (r Result) Kind() ResultKind { return r.kind }

// Payload returns the success payload, or nil.
func (r Result) Payload() interface{} { return r.payload }

// Err returns the plugin error for KindError results, or nil.
func (r Result) Err() *models.PluginError { return r.err }

// IsSuccess reports whether the result carries a payload.
func (r Result) IsSuccess() bool { return r.kind == KindSuccess }
