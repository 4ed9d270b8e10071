package budget

import "fmt"

// EnrichmentErrorCode identifies why an LLM enrichment attempt failed.
type EnrichmentErrorCode string

const (
	ErrEnrichmentUnavailable EnrichmentErrorCode = "ENRICHMENT_UNAVAILABLE"
	ErrEnrichmentTimeout     EnrichmentErrorCode = "ENRICHMENT_TIMEOUT"
	ErrEnrichmentRateLimited EnrichmentErrorCode = "ENRICHMENT_RATE_LIMITED"
	ErrEnrichmentBadResponse EnrichmentErrorCode = "ENRICHMENT_BAD_RESPONSE"
)

// EnrichmentError is a structured error for enrichment failures. It never
// propagates out of a Forecaster: callers receive the rule-based fallback
// instead, and the error is only logged.
type EnrichmentError struct {
	Code    EnrichmentErrorCode
	Message string
	Cause   error
}

func (e *EnrichmentError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *EnrichmentError) Unwrap() error {
	return e.Cause
}
