package backend

import (
	"errors"
	"fmt"
)

const (
	OpAnalyzeFrames  = "Scene analysis"
	OpAnalyzeVideo   = "Video info analysis"
	OpDownloadVideo  = "Video download"
	OpDownloadFrames = "Scene download"
)

// ErrResponseTooLarge is returned when a response body exceeds the read limit.
var ErrResponseTooLarge = errors.New("response body too large")

// StatusError is a non-2xx HTTP response. The body is never inspected for
// success flags; any such status fails the call.
type StatusError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s failed: HTTP %d", e.Op, e.StatusCode)
}

// AppError is a 2xx response carrying success:false.
type AppError struct {
	Op      string
	Message string
}

func (e *AppError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if msg, ok := fallbackMessages[e.Op]; ok {
		return msg
	}
	return e.Op + " failed"
}

var fallbackMessages = map[string]string{
	OpDownloadVideo: "Download failed",
}

func newAppError(op, message string) *AppError {
	return &AppError{Op: op, Message: message}
}

// IsAppError reports whether err is, or wraps, an application-level failure.
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}
