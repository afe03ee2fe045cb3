package conversation

import (
	"context"
	"strings"
	"time"

	"github.com/billcut/sophie/internal/observability/metrics"
	"github.com/billcut/sophie/pkg/logging"
)

// ErrorKind classifies generation failures.
type ErrorKind string

const (
	// ErrorKindTransport covers network and service failures.
	ErrorKindTransport ErrorKind = "transport"
	// ErrorKindEmptyResponse covers a successful call that produced no text.
	ErrorKindEmptyResponse ErrorKind = "empty_response"
)

// Result is the normalized outcome of one generation call. Exactly one of
// Text or Err is meaningful.
type Result struct {
	Text string
	Err  *GenerationError
}

// Ok reports whether the call produced usable text.
func (r Result) Ok() bool { return r.Err == nil }

// GenerationError is a recovered generation failure. It never propagates as
// a Go error past the Generator boundary; the session loop folds it into the
// user-facing apology turn.
type GenerationError struct {
	Kind   ErrorKind
	Detail string
}

func (e *GenerationError) Error() string {
	return "conversation: generation failed (" + string(e.Kind) + "): " + e.Detail
}

// Generator issues generation calls and normalizes every outcome into a
// Result. The caller always receives a Result, never an error: the whole
// failure surface of the external service is absorbed here.
type Generator struct {
	client  LLMClient
	logger  *logging.Logger
	metrics *metrics.ChatMetrics
}

// NewGenerator wraps an LLM client.
func NewGenerator(client LLMClient, logger *logging.Logger, m *metrics.ChatMetrics) *Generator {
	if logger == nil {
		logger = logging.Default()
	}
	return &Generator{client: client, logger: logger, metrics: m}
}

// Generate makes a single blocking call for the given prompt. No retries and
// no client-side deadline: the call runs until the service answers or fails.
func (g *Generator) Generate(ctx context.Context, prompt string) Result {
	start := time.Now()

	resp, err := g.client.Complete(ctx, LLMRequest{Prompt: prompt})
	elapsed := time.Since(start)

	if err != nil {
		g.logger.Error("conversation: generation call failed",
			"error", err,
			"elapsed", elapsed,
		)
		g.metrics.ObserveGeneration("error", elapsed.Seconds())
		return Result{Err: &GenerationError{Kind: ErrorKindTransport, Detail: err.Error()}}
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		g.logger.Error("conversation: generation returned empty text",
			"stop_reason", resp.StopReason,
			"elapsed", elapsed,
		)
		g.metrics.ObserveGeneration("empty", elapsed.Seconds())
		return Result{Err: &GenerationError{Kind: ErrorKindEmptyResponse, Detail: "empty response from model"}}
	}

	g.metrics.ObserveGeneration("ok", elapsed.Seconds())
	g.logger.Debug("conversation: generation succeeded",
		"elapsed", elapsed,
		"output_tokens", resp.Usage.OutputTokens,
	)
	return Result{Text: text}
}
