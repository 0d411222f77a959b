package assistant

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"

	"papermorph/internal/assistant/openrouter"
)

// User-facing messages for upstream failures. These land in the chat
// transcript as error bubbles, so they speak to the person, not the log.
const (
	msgGenericError = "Sorry, I encountered an error while processing your request."
	msgNetworkError = "Network error: Please check your internet connection and try again."
	msgAuthError    = "API authentication error: Please check your API key and try again."
	msgRateLimited  = "Rate limit exceeded: Please wait a moment and try again."
	msgUnavailable  = "Service temporarily unavailable: Please try again in a few moments."
	msgTimeout      = "Request timeout: Please try again."
)

// userFacingMessage maps an upstream error to the message shown in chat.
func userFacingMessage(err error) string {
	if err == nil {
		return msgGenericError
	}

	var statusErr *openrouter.StatusError
	if errors.As(err, &statusErr) {
		switch {
		case statusErr.Code == http.StatusUnauthorized:
			return msgAuthError
		case statusErr.Code == http.StatusTooManyRequests:
			return msgRateLimited
		case statusErr.Code >= http.StatusInternalServerError:
			return msgUnavailable
		}
		return msgGenericError
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return msgTimeout
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return msgTimeout
		}
		return msgNetworkError
	}

	// http.Client wraps dial failures in *url.Error which implements
	// net.Error, but belt and braces for other transport errors.
	if strings.Contains(err.Error(), "connection refused") ||
		strings.Contains(err.Error(), "no such host") {
		return msgNetworkError
	}

	return msgGenericError
}
