package assistant

import (
	"context"
	"fmt"
	"strings"
	"time"

	"montraa-store/internal/logger"
	"montraa-store/internal/metrics"
	"montraa-store/internal/product"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const DefaultTimeout = 30 * time.Second

type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Turn is one entry of the transcript sent to the model.
type Turn struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// CompletionRequest is everything the hosted model receives for one turn.
// History is in chronological order and Message goes last.
type CompletionRequest struct {
	SystemInstruction string
	History           []Turn
	Message           string
}

// Completer performs one completion call against the hosted model.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// Reply is what the chat shows for a turn. Text is never empty; Failure is
// KindNone when Text came from the model.
type Reply struct {
	Text    string
	Failure Kind
}

func (r Reply) OK() bool {
	return r.Failure == KindNone
}

type Options struct {
	// Timeout bounds each completion call. Zero means DefaultTimeout.
	Timeout time.Duration
}

// Gateway turns a transcript into exactly one completion call and maps any
// failure to a fallback message. It holds no per-conversation state and is
// safe for concurrent use; overlapping calls are not ordered.
type Gateway struct {
	completer   Completer
	instruction string
	timeout     time.Duration
	tracer      trace.Tracer
}

// NewGateway builds the system instruction from the catalog as it is now.
func NewGateway(completer Completer, catalog *product.Catalog, opts Options) *Gateway {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Gateway{
		completer:   completer,
		instruction: SystemInstruction(catalog),
		timeout:     timeout,
		tracer:      otel.Tracer("montraa-store/assistant"),
	}
}

// Instruction returns the system instruction sent with every call.
func (g *Gateway) Instruction() string {
	return g.instruction
}

// Reply sends history plus message and returns the model text, or a fallback.
// It never returns an error and recovers a panicking completer.
func (g *Gateway) Reply(ctx context.Context, history []Turn, message string) (reply Reply) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	ctx, span := g.tracer.Start(ctx, "assistant.reply", trace.WithAttributes(
		attribute.Int("assistant.history_turns", len(history)),
		attribute.Int("assistant.message_length", len(message)),
	))
	defer span.End()

	log := logger.FromCtx(ctx).With(zap.Int("history_turns", len(history)))
	timer := metrics.StartTimer()

	defer func() {
		if r := recover(); r != nil {
			reply = g.fail(log, span, &Error{Kind: KindTransport, Err: fmt.Errorf("completer panic: %v", r)})
		}
		timer.ObserveTo(metrics.AssistantLatency)
		metrics.AssistantRepliesTotal.WithLabelValues(reply.Failure.String()).Inc()
		span.SetAttributes(attribute.String("assistant.outcome", reply.Failure.String()))
	}()

	req := CompletionRequest{
		SystemInstruction: g.instruction,
		History:           append([]Turn(nil), history...),
		Message:           message,
	}

	text, err := g.completer.Complete(ctx, req)
	if err != nil {
		return g.fail(log, span, err)
	}
	if strings.TrimSpace(text) == "" {
		return g.fail(log, span, &Error{Kind: KindEmptyResponse, Err: ErrEmptyResponse})
	}

	log.Debug("assistant reply received", zap.Int("reply_length", len(text)))
	return Reply{Text: text}
}

func (g *Gateway) fail(log *zap.Logger, span trace.Span, err error) Reply {
	kind := Classify(err)

	span.RecordError(err)
	span.SetStatus(codes.Error, kind.String())
	log.Error("assistant call failed", zap.String("kind", kind.String()), zap.Error(err))

	return Reply{Text: kind.Message(), Failure: kind}
}
