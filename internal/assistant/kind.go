package assistant

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Kind classifies why a reply fell back to canned text.
type Kind int

const (
	KindNone Kind = iota
	KindTransport
	KindEmptyResponse
	KindRateLimited
	KindTimeout
)

// Fallback messages shown in place of a model reply.
const (
	MessageTransport     = "I'm currently experiencing high traffic. Please try again in a moment."
	MessageEmptyResponse = "I'm having trouble connecting to my brain right now. Please try again."
	MessageRateLimited   = "Lots of shoppers are chatting with me right now. Please try again in a moment."
	MessageTimeout       = "Sorry, that took longer than expected. Please try asking again."
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "ok"
	case KindTransport:
		return "transport"
	case KindEmptyResponse:
		return "empty_response"
	case KindRateLimited:
		return "rate_limited"
	case KindTimeout:
		return "timeout"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Message is the user-facing fallback text for k. Unknown kinds get the
// transport message so the chat always has something to display.
func (k Kind) Message() string {
	switch k {
	case KindEmptyResponse:
		return MessageEmptyResponse
	case KindRateLimited:
		return MessageRateLimited
	case KindTimeout:
		return MessageTimeout
	default:
		return MessageTransport
	}
}

// FallbackMessages is every canned reply the gateway can return.
func FallbackMessages() []string {
	return []string{MessageTransport, MessageEmptyResponse, MessageRateLimited, MessageTimeout}
}

var (
	ErrMissingAPIKey = errors.New("assistant API key not configured")
	ErrEmptyResponse = errors.New("completion returned no text")
	ErrEmptyMessage  = errors.New("message is empty")
)

// Error tags a completer failure with its kind.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Classify maps any completer error onto a Kind. Context expiry and network
// timeouts are Timeout; untagged errors are Transport.
func Classify(err error) Kind {
	if err == nil {
		return KindNone
	}

	var tagged *Error
	if errors.As(err, &tagged) && tagged.Kind != KindNone {
		return tagged.Kind
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return KindTimeout
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTimeout
	}

	if errors.Is(err, ErrEmptyResponse) {
		return KindEmptyResponse
	}

	return KindTransport
}
