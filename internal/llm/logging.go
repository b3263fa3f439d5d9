package llm

import (
	"context"
	"log"
	"time"
)

// LoggingProvider logs latency and token usage for every call.
type LoggingProvider struct {
	inner Provider
}

// WithLogging wraps a Provider with request logging.
func WithLogging(p Provider) Provider {
	return &LoggingProvider{inner: p}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := l.inner.Generate(ctx, req)
	elapsed := time.Since(start).Round(time.Millisecond)

	if err != nil {
		log.Printf("ERROR: LLM %s failed after %s (prompt %d chars): %v", l.inner.ModelID(), elapsed, len(req.Prompt), err)
		return nil, err
	}
	log.Printf("INFO: LLM %s answered in %s: prompt=%d tokens, reply=%d tokens", resp.Model, elapsed, resp.Usage.InputTokens, resp.Usage.OutputTokens)
	return resp, nil
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}

func (l *LoggingProvider) Unwrap() Provider { return l.inner }
