// Package streamlog is the external logging collaborator named in
// spec.md §6: it records one outcome line per sampling run, either the
// decimal sampled index or the literal token "FAIL", tagged with a
// run ID so multiple runs against the same stream file can be told
// apart in a shared log.
package streamlog

import (
	"io"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Logger writes one structured event per sampling outcome.
type Logger struct {
	zl    zerolog.Logger
	runID uuid.UUID
}

// New creates a Logger writing to w, tagged with a fresh run ID.
func New(w io.Writer) *Logger {
	return &Logger{
		zl:    zerolog.New(w).With().Timestamp().Logger(),
		runID: uuid.New(),
	}
}

// RunID reports the run ID this Logger tags every event with.
func (l *Logger) RunID() uuid.UUID {
	return l.runID
}

// Sampled logs a successful sample: the chosen coordinate and the
// number of sampler attempts the boosting harness was configured to race.
func (l *Logger) Sampled(idx uint64, attempt int) {
	l.zl.Info().
		Str("run_id", l.runID.String()).
		Uint64("index", idx).
		Int("attempt", attempt).
		Msg("sampled")
}

// Failed logs a run in which every sampler attempt failed, matching
// spec.md §6's "FAIL" log line.
func (l *Logger) Failed(attempts int) {
	l.zl.Warn().
		Str("run_id", l.runID.String()).
		Int("attempts", attempts).
		Msg("FAIL")
}

// Estimate logs a norm or frequency estimate produced by a standalone
// estimator run (outside the sampling harness), e.g. the CLI's
// "estimate" subcommand.
func (l *Logger) Estimate(label string, value float64) {
	l.zl.Info().
		Str("run_id", l.runID.String()).
		Str("metric", label).
		Float64("value", value).
		Msg("estimate")
}
