package errors

import (
	"fmt"
	"strings"
)

// UserFriendlyError provides user-friendly error messages with context and hints
type UserFriendlyError struct {
	Message string
	Reason  string
	Hint    string
	Try     string
	Err     error
}

func (e UserFriendlyError) Error() string {
	var buf strings.Builder
	buf.WriteString(e.Message)
	if e.Reason != "" {
		buf.WriteString("\n  Reason: " + e.Reason)
	}
	if e.Hint != "" {
		buf.WriteString("\n  Hint: " + e.Hint)
	}
	if e.Try != "" {
		buf.WriteString("\n  Try: " + e.Try)
	}
	if e.Err != nil {
		buf.WriteString("\n  Details: " + e.Err.Error())
	}
	return buf.String()
}

func (e UserFriendlyError) Unwrap() error {
	return e.Err
}

// WrapRemoteError wraps a failed AJAX, remote check or submission call.
func WrapRemoteError(err error, method, url string) error {
	if err == nil {
		return nil
	}

	return UserFriendlyError{
		Message: fmt.Sprintf("Request %s %s failed", strings.ToUpper(method), url),
		Reason:  extractRemoteReason(err),
		Hint:    "The server may be down, the session may have expired, or the endpoint path may be wrong",
		Try:     fmt.Sprintf("lingo fetch %s", url),
		Err:     err,
	}
}

// WrapDefinitionError wraps wizard definition load and validation errors.
func WrapDefinitionError(err error, path string) error {
	if err == nil {
		return nil
	}

	return UserFriendlyError{
		Message: fmt.Sprintf("Wizard definition error in %s", path),
		Reason:  err.Error(),
		Hint:    "Every step needs a unique id (or a title to derive one) and at least one step must exist",
		Try:     fmt.Sprintf("lingo wizard check %s", path),
		Err:     err,
	}
}

// WrapConfigError wraps configuration errors with user-friendly context
func WrapConfigError(err error, configPath string) error {
	if err == nil {
		return nil
	}

	return UserFriendlyError{
		Message: fmt.Sprintf("Configuration error in %s", configPath),
		Reason:  err.Error(),
		Hint:    "Settings can also come from LINGO_* environment variables",
		Try:     "lingo config show",
		Err:     err,
	}
}

func extractRemoteReason(err error) string {
	errStr := err.Error()

	if strings.Contains(errStr, "timeout") || strings.Contains(errStr, "deadline exceeded") {
		return "Request timeout - server may be overloaded or unreachable"
	}
	if strings.Contains(errStr, "connection refused") {
		return "Connection refused - server is not listening on this address"
	}
	if strings.Contains(errStr, "no such host") {
		return "Unknown host - check base_url"
	}
	if strings.Contains(errStr, "resource not found") {
		return "Session expired or resource was not found"
	}
	if strings.Contains(errStr, "data access") {
		return "Unable to access, due to expired login or no authorization"
	}
	if strings.Contains(errStr, "uncaught exception") {
		return "The server reported an unhandled exception"
	}

	return "Remote call failed"
}
