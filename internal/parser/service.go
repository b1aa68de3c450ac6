package parser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"resume-parser/internal/cache"
	"resume-parser/internal/llm"
	"resume-parser/internal/ratelimit"
	"resume-parser/internal/shared/metrics"
	"resume-parser/internal/shared/telemetry"
	"resume-parser/internal/shared/util"
)

const (
	invalidResponseRetryDelay = 1 * time.Second
	maxRetryDelay             = 10 * time.Second
)

// Service is the extraction client: it builds the prompt, calls the model,
// parses its response, and retries on failure. Cache and Limiter are optional.
type Service struct {
	LLM        llm.Client
	Cache      *cache.Store
	Limiter    *ratelimit.Limiter
	MaxRetries int
	RetryDelay time.Duration
	// Timeout bounds a single model call. Zero means no bound. Waiting on the
	// rate limiter does not count against it.
	Timeout time.Duration

	sleep func(ctx context.Context, d time.Duration) error
}

// NewService constructs a Service with the given collaborators.
func NewService(client llm.Client, store *cache.Store, limiter *ratelimit.Limiter, maxRetries int, retryDelay time.Duration) *Service {
	return &Service{
		LLM:        client,
		Cache:      store,
		Limiter:    limiter,
		MaxRetries: maxRetries,
		RetryDelay: retryDelay,
	}
}

// Parse extracts structured fields from resume text. Identical normalized
// text with caching enabled is served from the cache without a model call.
func (s *Service) Parse(ctx context.Context, text string) (ParsedResult, error) {
	normalized := util.NormalizeResumeText(text)
	if normalized == "" {
		return ParsedResult{}, ErrEmptyText
	}

	startedAt := time.Now()
	metrics.IncParseStarted()
	fingerprint := util.Fingerprint(normalized)

	if result, ok := s.fromCache(fingerprint); ok {
		metrics.IncCacheHit()
		metrics.IncParseCompleted()
		metrics.ObserveParseDurationMs(durationMs(startedAt))
		telemetry.Info("parse.cache_hit", map[string]any{
			"fingerprint": fingerprint,
		})
		return result, nil
	}

	prompt := llm.BuildExtractionPrompt(normalized)
	attempts := s.MaxRetries
	if attempts <= 0 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			if err := s.pause(ctx, retryDelayFor(lastErr, s.RetryDelay, attempt)); err != nil {
				metrics.IncParseFailed()
				return ParsedResult{}, err
			}
		}

		result, err := s.parseOnce(ctx, prompt)
		if err == nil {
			s.writeThrough(fingerprint, result)
			metrics.IncParseCompleted()
			metrics.ObserveParseDurationMs(durationMs(startedAt))
			telemetry.Info("parse.completed", map[string]any{
				"fingerprint": fingerprint,
				"attempt":     attempt,
				"duration_ms": durationMs(startedAt),
			})
			return result, nil
		}

		lastErr = err
		if ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			break
		}
		telemetry.Warn("parse.retry", map[string]any{
			"fingerprint": fingerprint,
			"attempt":     attempt,
			"error":       err.Error(),
		})
	}

	metrics.IncParseFailed()
	metrics.ObserveParseDurationMs(durationMs(startedAt))
	return ParsedResult{}, fmt.Errorf("parse failed after %d attempts: %w", attempts, lastErr)
}

func (s *Service) parseOnce(ctx context.Context, prompt string) (ParsedResult, error) {
	if s.Limiter != nil {
		if err := s.Limiter.Acquire(ctx); err != nil {
			return ParsedResult{}, err
		}
	}

	callCtx := ctx
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	raw, err := s.LLM.Complete(callCtx, prompt)
	if err != nil {
		// A per-call timeout with the parent still live is retryable.
		if ctx.Err() == nil && errors.Is(err, context.DeadlineExceeded) {
			return ParsedResult{}, fmt.Errorf("%w: model call timed out after %s", ErrTransient, s.Timeout)
		}
		return ParsedResult{}, classifyCallError(err)
	}

	cleaned := CleanJSONResponse(raw)
	if cleaned == "" {
		return ParsedResult{}, fmt.Errorf("%w: empty response", ErrInvalidResponse)
	}

	result, err := decodeResult(cleaned)
	if err != nil {
		return ParsedResult{}, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return result, nil
}

func (s *Service) fromCache(fingerprint string) (ParsedResult, bool) {
	if s.Cache == nil {
		return ParsedResult{}, false
	}
	raw, found, err := s.Cache.Get(fingerprint)
	if err != nil {
		telemetry.Warn("cache.read_failed", map[string]any{
			"fingerprint": fingerprint,
			"error":       err.Error(),
		})
		return ParsedResult{}, false
	}
	if !found {
		return ParsedResult{}, false
	}
	var result ParsedResult
	if err := json.Unmarshal(raw, &result); err != nil {
		telemetry.Warn("cache.entry_invalid", map[string]any{
			"fingerprint": fingerprint,
			"error":       err.Error(),
		})
		return ParsedResult{}, false
	}
	return result.withDefaults(), true
}

// writeThrough caches the result best-effort. A write failure is logged and
// swallowed: the cache is an optimization, never required for correctness.
func (s *Service) writeThrough(fingerprint string, result ParsedResult) {
	if s.Cache == nil {
		return
	}
	raw, err := json.Marshal(result)
	if err != nil {
		telemetry.Warn("cache.write_failed", map[string]any{
			"fingerprint": fingerprint,
			"error":       err.Error(),
		})
		return
	}
	if err := s.Cache.Put(fingerprint, raw); err != nil {
		telemetry.Warn("cache.write_failed", map[string]any{
			"fingerprint": fingerprint,
			"error":       err.Error(),
		})
	}
}

func (s *Service) pause(ctx context.Context, d time.Duration) error {
	if s.sleep != nil {
		return s.sleep(ctx, d)
	}
	timer := time.NewTimer(d)
	select {
	case <-ctx.Done():
		timer.Stop()
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// retryDelayFor picks the backoff before retry N: a short fixed delay when
// only the response shape was bad, otherwise the configured delay doubling
// per attempt up to a cap.
func retryDelayFor(lastErr error, base time.Duration, attempt int) time.Duration {
	if errors.Is(lastErr, ErrInvalidResponse) {
		return invalidResponseRetryDelay
	}
	if base <= 0 {
		base = 2 * time.Second
	}
	delay := base
	for i := 2; i < attempt; i++ {
		delay *= 2
		if delay >= maxRetryDelay {
			return maxRetryDelay
		}
	}
	if delay > maxRetryDelay {
		delay = maxRetryDelay
	}
	return delay
}

// classifyCallError types an external call failure as quota or transient.
func classifyCallError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "429") ||
		strings.Contains(msg, "resource_exhausted") ||
		strings.Contains(msg, "resource exhausted") ||
		strings.Contains(msg, "quota") ||
		strings.Contains(msg, "rate limit") {
		return fmt.Errorf("%w: %v", ErrQuotaExceeded, err)
	}

	// Network failures, 5xx responses, and anything else unrecognized are
	// worth retrying, so they all classify as transient.
	return fmt.Errorf("%w: %v", ErrTransient, err)
}

func durationMs(startedAt time.Time) float64 {
	return float64(time.Since(startedAt).Microseconds()) / 1000.0
}
