package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"montraa-store/internal/logger"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

const (
	DefaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	DefaultGeminiModel   = "gemini-2.5-flash"
)

// StatusError is a non-2xx answer from the Gemini API.
type StatusError struct {
	StatusCode int
	Status     string
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("gemini returned %d", e.StatusCode)
	}
	return fmt.Sprintf("gemini returned %d %s: %s", e.StatusCode, e.Status, e.Message)
}

// GeminiClient is a Completer backed by the Gemini generateContent REST API.
// Deadlines come from the caller's context.
type GeminiClient struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

func NewGeminiClient(apiKey, baseURL, model string) *GeminiClient {
	if apiKey == "" {
		logger.Named("assistant").Warn("Gemini API key is empty; assistant replies will fall back")
	}
	if baseURL == "" {
		baseURL = DefaultGeminiBaseURL
	}
	if model == "" {
		model = DefaultGeminiModel
	}

	return &GeminiClient{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// Complete sends one generateContent request. History roles map directly to
// Gemini roles and the new message is the final user content.
func (c *GeminiClient) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	log := logger.FromCtx(ctx).With(zap.String("provider", "gemini"), zap.String("model", c.model))

	if c.apiKey == "" {
		return "", &Error{Kind: KindTransport, Err: ErrMissingAPIKey}
	}

	body, err := json.Marshal(buildGenerateContent(req))
	if err != nil {
		return "", fmt.Errorf("marshal gemini request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, url.PathEscape(c.model))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build gemini request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	log.Debug("sending completion request", zap.Int("contents", len(req.History)+1))

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read gemini response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := decodeStatusError(resp.StatusCode, respBody)
		log.Warn("gemini returned non-success status", zap.Int("status", resp.StatusCode), zap.String("error_status", statusErr.Status))
		if resp.StatusCode == http.StatusTooManyRequests {
			return "", &Error{Kind: KindRateLimited, Err: statusErr}
		}
		return "", &Error{Kind: KindTransport, Err: statusErr}
	}

	var parsed generateContentResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", &Error{Kind: KindEmptyResponse, Err: fmt.Errorf("decode gemini response: %w", err)}
	}

	if len(parsed.Candidates) == 0 {
		return "", &Error{Kind: KindEmptyResponse, Err: ErrEmptyResponse}
	}

	var text strings.Builder
	for _, part := range parsed.Candidates[0].Content.Parts {
		text.WriteString(part.Text)
	}

	log.Debug("completion received",
		zap.Int("prompt_tokens", parsed.UsageMetadata.PromptTokenCount),
		zap.Int("completion_tokens", parsed.UsageMetadata.CandidatesTokenCount),
	)

	return text.String(), nil
}

func buildGenerateContent(req CompletionRequest) generateContentRequest {
	contents := make([]geminiContent, 0, len(req.History)+1)
	for _, t := range req.History {
		contents = append(contents, geminiContent{
			Role:  string(t.Role),
			Parts: []geminiPart{{Text: t.Text}},
		})
	}
	contents = append(contents, geminiContent{
		Role:  string(RoleUser),
		Parts: []geminiPart{{Text: req.Message}},
	})

	out := generateContentRequest{Contents: contents}
	if req.SystemInstruction != "" {
		out.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: req.SystemInstruction}}}
	}
	return out
}

func decodeStatusError(code int, body []byte) *StatusError {
	e := &StatusError{StatusCode: code}
	var parsed geminiErrorResponse
	if err := json.Unmarshal(body, &parsed); err == nil {
		e.Status = parsed.Error.Status
		e.Message = parsed.Error.Message
	}
	return e
}
