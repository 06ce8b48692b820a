package contracts

import (
	"errors"
	"fmt"
	"strings"
)

// Error taxonomy for the scoring pipeline. Per-ticker errors
// (ErrDataUnavailable, ErrRateLimited) are contained at the orchestrator
// boundary and downgraded to undefined scores; ConfigurationError aborts
// the whole run.

// ErrDataUnavailable means a statement or price history is missing or too
// short after retries were exhausted. Per-ticker, non-fatal to a batch.
var ErrDataUnavailable = errors.New("data unavailable")

// ErrRateLimited means the upstream throttled us. Transient: the fetcher
// retries with backoff and escalates to ErrDataUnavailable after max
// attempts.
var ErrRateLimited = errors.New("rate limited")

// ErrMalformedInput marks an unparseable field. Callers treat the field
// as 0/neutral rather than failing the whole statement.
var ErrMalformedInput = errors.New("malformed input")

// ConfigurationError is a missing required upstream artifact (e.g. an
// absent target list). Fatal to the run, not per-ticker.
type ConfigurationError struct {
	Msg string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s", e.Msg)
}

// NewConfigurationError creates a ConfigurationError.
func NewConfigurationError(format string, args ...interface{}) *ConfigurationError {
	return &ConfigurationError{Msg: fmt.Sprintf(format, args...)}
}

// IsConfigurationError reports whether err is fatal to the run.
func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}

// Transient-error signatures seen from the data sources. The upstream
// wraps throttle responses in plain error strings, so classification is
// by substring.
var transientSignatures = []string{
	"429",
	"502",
	"rate limit",
	"too many requests",
}

// IsTransient reports whether err looks like a throttle/overload response
// worth retrying with backoff.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, sig := range transientSignatures {
		if strings.Contains(msg, sig) {
			return true
		}
	}
	return false
}
