package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
)

// User facing messages produced by the default classification rules.
const (
	MsgServerConfiguration = "Server configuration error. Please contact the system administrator."
	MsgConnectivity        = "Unable to reach the server. Check your connection and try again."
)

// ErrNotAuthenticated is returned by FetchProtected when no valid session exists.
var ErrNotAuthenticated = errors.New("not authenticated")

// HTTPError is a non-2xx response from FetchProtected.
type HTTPError struct {
	StatusCode int
	URL        string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d fetching %s", e.StatusCode, e.URL)
}

// ClassificationRule translates a raw failure into a user facing message.
// Match receives the underlying error (nil for HTTP-level failures) and its text.
type ClassificationRule struct {
	Name    string
	Match   func(err error, message string) bool
	Message string
}

func containsAny(substrings ...string) func(error, string) bool {
	return func(_ error, message string) bool {
		for _, s := range substrings {
			if strings.Contains(message, s) {
				return true
			}
		}
		return false
	}
}

// isNetworkFailure matches transport errors. Dial failures are only recognised
// on a real error; the same text inside an HTTP error body came from a reachable server.
func isNetworkFailure(err error, message string) bool {
	if containsAny("Failed to fetch", "Falha ao buscar")(err, message) {
		return true
	}
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	if containsAny("connection refused", "no such host")(err, message) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// DefaultRules are evaluated in order; the first match wins.
var DefaultRules = []ClassificationRule{
	{
		Name:    "server-configuration",
		Match:   containsAny("secretOrPrivateKey"),
		Message: MsgServerConfiguration,
	},
	{
		Name:    "connectivity",
		Match:   isNetworkFailure,
		Message: MsgConnectivity,
	},
}

// Classify returns the message of the first matching rule, or the raw message.
func Classify(rules []ClassificationRule, err error, message string) string {
	if message == "" && err != nil {
		message = err.Error()
	}
	for _, rule := range rules {
		if rule.Match(err, message) {
			return rule.Message
		}
	}
	return message
}
