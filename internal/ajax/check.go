package ajax

import (
	"errors"
	"strings"
	"sync"
)

// Markers the server embeds in error pages.
const (
	markerResourceNotFound  = "resourceNotFound"
	markerUncaughtException = "uncaughtException"
	markerDataAccessFailure = "dataAccessFailure"
	markerExpiredSession    = "You have tried to access a protected area of this application"
	markerAppException      = "_exception"
)

// Messages shown in the message area for each marker.
const (
	MessageResourceNotFound  = "Session expired or resource was not found"
	MessageUncaughtException = "An exception has occurred"
	MessageDataAccess        = "Unable to access, due to expired login or no authorization"
)

var (
	ErrNoURL             = errors.New("no url for call")
	ErrResourceNotFound  = errors.New("resource not found")
	ErrUncaughtException = errors.New("uncaught exception")
	ErrDataAccess        = errors.New("data access failure")
	ErrHTTPStatus        = errors.New("unexpected http status")
)

// AppError is an application exception reported inside a payload.
type AppError struct {
	Message string
}

func (e *AppError) Error() string {
	return "application exception: " + e.Message
}

// MessageArea is where user-visible messages about a call are shown.
type MessageArea interface {
	SetMessage(msg string)
	Clear()
}

// Area is an in-memory MessageArea that can be read from another
// goroutine.
type Area struct {
	mu  sync.Mutex
	msg string
}

func (a *Area) SetMessage(msg string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.msg = msg
}

func (a *Area) Clear() {
	a.SetMessage("")
}

// Message returns the current message.
func (a *Area) Message() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.msg
}

// CheckResult inspects a payload for the server's error markers and returns
// the matching error, or nil for a clean payload. Markers are checked in a
// fixed order and the first hit wins.
func CheckResult(payload string) error {
	_, err := classify(payload)
	return err
}

// CheckResultInArea is CheckResult that also writes the user message for
// the error into area.
func CheckResultInArea(payload string, area MessageArea) error {
	msg, err := classify(payload)
	if err != nil && area != nil {
		area.SetMessage(msg)
	}
	return err
}

func classify(payload string) (string, error) {
	switch {
	case strings.Contains(payload, markerResourceNotFound):
		return MessageResourceNotFound, ErrResourceNotFound
	case strings.Contains(payload, markerUncaughtException):
		return MessageUncaughtException, ErrUncaughtException
	case strings.Contains(payload, markerDataAccessFailure), strings.Contains(payload, markerExpiredSession):
		return MessageDataAccess, ErrDataAccess
	case strings.Contains(payload, markerAppException):
		msg := appExceptionText(payload)
		return msg, &AppError{Message: msg}
	}
	return "", nil
}

// appExceptionText returns the text that follows the exception marker and
// its two-character attribute tail, up to the next tag.
func appExceptionText(payload string) string {
	start := strings.Index(payload, markerAppException) + len(markerAppException) + 2
	if start > len(payload) {
		return ""
	}
	rest := payload[start:]
	if end := strings.IndexByte(rest, '<'); end >= 0 {
		rest = rest[:end]
	}
	return strings.TrimSpace(rest)
}
