package diagnostics

import (
	"context"
	"time"

	"igflash/pkg/logger"
)

// Record describes one failed provider call worth keeping for later analysis
type Record struct {
	Time       time.Time `json:"time"`
	Scraper    string    `json:"scraper"`
	Response   string    `json:"response"`
	StatusCode int       `json:"status_code"`
	URL        string    `json:"url"`
	Params     string    `json:"params"`
	Limits     string    `json:"limits"`
}

// Sink receives scraper diagnostics. Implementations must not fail the
// caller: problems are logged and swallowed.
type Sink interface {
	RecordScraperError(ctx context.Context, rec Record)
	LogScraperError(ctx context.Context, line string)
}

// LogSink writes diagnostics to a logger only
type LogSink struct {
	logger logger.Logger
}

// NewLogSink creates a sink logging at warning level
func NewLogSink(log logger.Logger) *LogSink {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &LogSink{logger: log}
}

func (s *LogSink) RecordScraperError(_ context.Context, rec Record) {
	s.logger.WarnWithFields("scraper error recorded", map[string]interface{}{
		"scraper":     rec.Scraper,
		"status_code": rec.StatusCode,
		"url":         rec.URL,
		"params":      rec.Params,
		"limits":      rec.Limits,
	})
}

func (s *LogSink) LogScraperError(_ context.Context, line string) {
	s.logger.Warn(line)
}

// Multi fans diagnostics out to several sinks
type Multi []Sink

func (m Multi) RecordScraperError(ctx context.Context, rec Record) {
	for _, s := range m {
		s.RecordScraperError(ctx, rec)
	}
}

func (m Multi) LogScraperError(ctx context.Context, line string) {
	for _, s := range m {
		s.LogScraperError(ctx, line)
	}
}

// Nop discards everything
type Nop struct{}

func (Nop) RecordScraperError(context.Context, Record) {}
func (Nop) LogScraperError(context.Context, string)    {}
