package chat

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/linqiu/chronicle/backend/internal/inference"
	"github.com/linqiu/chronicle/backend/internal/prompt"
	"github.com/linqiu/chronicle/backend/internal/service/session"
)

// fallbackAnswer replaces empty or near-empty model output.
const fallbackAnswer = "I apologize, but I couldn't generate a proper response. Please try rephrasing your question."

// minAnswerLength is the shortest trimmed answer accepted as usable.
const minAnswerLength = 5

// GenerationError reports a failed or unusable backend call. It is never
// retried; the single failure aborts the chat call.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("failed to generate response: %v", e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// Service orchestrates a chat call: resolve session, assemble the prompt,
// invoke the backend once, persist the exchange.
type Service struct {
	store    *session.Store
	backend  inference.Backend
	maxPairs int

	tracer      trace.Tracer
	reqCounter  metric.Int64Counter
	genDuration metric.Float64Histogram
}

// NewService wires the orchestrator. backend may be nil when initialization
// failed at startup; chat calls then fail with inference.ErrNotReady while
// the rest of the API keeps working.
func NewService(store *session.Store, backend inference.Backend, maxPairs int) *Service {
	if maxPairs < 1 {
		maxPairs = 1
	}

	meter := otel.Meter("chronicle")
	reqCounter, err := meter.Int64Counter(
		"chat.requests",
		metric.WithDescription("Number of chat requests handled"),
	)
	if err != nil {
		log.Printf("failed to create chat request counter: %v", err)
	}
	genDuration, err := meter.Float64Histogram(
		"chat.generation.duration",
		metric.WithDescription("Backend generation duration in milliseconds"),
	)
	if err != nil {
		log.Printf("failed to create generation duration histogram: %v", err)
	}

	return &Service{
		store:       store,
		backend:     backend,
		maxPairs:    maxPairs,
		tracer:      otel.Tracer("chronicle"),
		reqCounter:  reqCounter,
		genDuration: genDuration,
	}
}

// Ready reports whether an inference backend is available.
func (s *Service) Ready() bool {
	return s.backend != nil
}

// ModelName returns the active backend's model identifier.
func (s *Service) ModelName() string {
	if s.backend == nil {
		return ""
	}
	return s.backend.ModelName()
}

// Store exposes the session store backing this service.
func (s *Service) Store() *session.Store {
	return s.store
}

// Chat runs one conversational round-trip for the session and returns the
// answer text. The backend is invoked exactly once; on failure the call
// aborts with a GenerationError carrying the backend's message.
func (s *Service) Chat(ctx context.Context, userMessage, sessionID string) (string, error) {
	if s.backend == nil {
		return "", inference.ErrNotReady
	}

	if s.reqCounter != nil {
		s.reqCounter.Add(ctx, 1)
	}

	sess := s.store.GetOrCreate(ctx, sessionID)

	history, err := s.store.Transcript(ctx, sess.ID)
	if err != nil {
		return "", err
	}

	turns := prompt.Assemble(history, userMessage, s.maxPairs)

	genCtx, span := s.tracer.Start(ctx, "backend_generate")
	start := time.Now()
	answer, err := s.backend.Generate(genCtx, turns)
	span.End()

	if s.genDuration != nil {
		s.genDuration.Record(ctx, float64(time.Since(start).Milliseconds()))
	}

	if err != nil {
		return "", &GenerationError{Err: err}
	}

	answer = strings.TrimSpace(answer)
	if len(answer) < minAnswerLength {
		log.Printf("[chat] degenerate answer for session=%s (len=%d), using fallback", sessionID, len(answer))
		answer = fallbackAnswer
	}

	s.store.AppendExchange(ctx, sessionID, userMessage, answer)

	log.Printf("[chat] session=%s prompt_turns=%d answer_len=%d history_len=%d",
		sessionID, len(turns), len(answer), s.store.MessageCount(ctx, sessionID))

	return answer, nil
}
