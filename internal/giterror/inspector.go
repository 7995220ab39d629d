package giterror

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/google/go-github/v75/github"
)

// Inspector provides methods for analyzing GitHub API errors.
type Inspector interface {
	// IsAuthError returns true if the error represents an authentication or authorization failure.
	IsAuthError(err error) bool

	// IsNotFoundError returns true if the error represents a resource not found error.
	IsNotFoundError(err error) bool

	// IsRateLimitError returns true if the error represents a rate limit error.
	IsRateLimitError(err error) bool

	// IsMalformedError returns true if the response body could not be decoded
	// into the expected shape.
	IsMalformedError(err error) bool

	// IsNetworkError returns true if the error represents a network connectivity error.
	IsNetworkError(err error) bool
}

// GitHubErrorInspector implements the Inspector interface for GitHub API errors.
// Typed errors from the REST client and the net stack are classified by type
// only. Untyped errors, which is all the GraphQL client reports, fall back to
// matching on the error text.
type GitHubErrorInspector struct{}

// NewInspector creates a new GitHubErrorInspector.
func NewInspector() Inspector {
	return &GitHubErrorInspector{}
}

// IsAuthError checks if the error is an authentication or authorization error.
// A 403 that carries rate limit information is not an auth error.
func (i *GitHubErrorInspector) IsAuthError(err error) bool {
	if err == nil || i.IsRateLimitError(err) {
		return false
	}
	if code, ok := statusCode(err); ok {
		return code == http.StatusUnauthorized || code == http.StatusForbidden
	}
	if isTyped(err) {
		return false
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "401") ||
		strings.Contains(errStr, "403") ||
		strings.Contains(errStr, "unauthorized") ||
		strings.Contains(errStr, "forbidden") ||
		strings.Contains(errStr, "bad credentials")
}

// IsNotFoundError checks if the error is a not found error.
func (i *GitHubErrorInspector) IsNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	if code, ok := statusCode(err); ok {
		return code == http.StatusNotFound
	}
	if isTyped(err) {
		return false
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "404") ||
		strings.Contains(errStr, "not found") ||
		strings.Contains(errStr, "could not resolve to a repository")
}

// IsRateLimitError checks if the error is a rate limit error.
func (i *GitHubErrorInspector) IsRateLimitError(err error) bool {
	if err == nil {
		return false
	}
	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return true
	}
	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return true
	}
	if code, ok := statusCode(err); ok {
		return code == http.StatusTooManyRequests
	}
	if isTyped(err) {
		return false
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "429")
}

// IsMalformedError checks if the error comes from decoding a response body.
func (i *GitHubErrorInspector) IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	if isDecodeError(err) {
		return true
	}
	if isTyped(err) {
		return false
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "cannot unmarshal") ||
		strings.Contains(errStr, "invalid character")
}

// IsNetworkError checks if the error is a network connectivity error.
func (i *GitHubErrorInspector) IsNetworkError(err error) bool {
	if err == nil {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	if isTyped(err) {
		return false
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host") ||
		strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "temporary failure") ||
		strings.Contains(errStr, "dial tcp") ||
		strings.Contains(errStr, "tls handshake") ||
		strings.Contains(errStr, "network is unreachable")
}

// statusCode extracts the HTTP status from a REST client error response.
func statusCode(err error) (int, bool) {
	var respErr *github.ErrorResponse
	if errors.As(err, &respErr) && respErr.Response != nil {
		return respErr.Response.StatusCode, true
	}
	return 0, false
}

func isDecodeError(err error) bool {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return true
	}
	var syntaxErr *json.SyntaxError
	return errors.As(err, &syntaxErr)
}

// isTyped reports whether err carries a type this inspector classifies
// structurally. The text of such errors embeds URLs whose port numbers can
// look like status codes, so it is never string-matched.
func isTyped(err error) bool {
	if _, ok := statusCode(err); ok {
		return true
	}
	var rateErr *github.RateLimitError
	var abuseErr *github.AbuseRateLimitError
	var netErr net.Error
	return errors.As(err, &rateErr) ||
		errors.As(err, &abuseErr) ||
		errors.As(err, &netErr) ||
		isDecodeError(err)
}
