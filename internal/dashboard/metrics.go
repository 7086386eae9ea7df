package dashboard

import (
	"errors"
	"time"

	"github.com/go-petr/pet-bank-client/internal/domain"
	"github.com/go-petr/pet-bank-client/pkg/metrics"
)

// Metrics receives the client counters. *metrics.Collector implements it.
type Metrics interface {
	RecordFetch(resource, outcome string)
	RecordTransfer(duration time.Duration, outcome string)
	RecordInvalidation()
	SetBalance(accountNumber string, balance float64)
	ResetBalances()
}

type nopMetrics struct{}

func (nopMetrics) RecordFetch(string, string) {}
func (nopMetrics) RecordTransfer(time.Duration, string) {}
func (nopMetrics) RecordInvalidation() {}
func (nopMetrics) SetBalance(string, float64) {}
func (nopMetrics) ResetBalances() {}

func fetchOutcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, domain.ErrAuthExpired):
		return metrics.OutcomeAuth
	case errors.Is(err, domain.ErrTransport):
		return metrics.OutcomeTransport
	default:
		return metrics.OutcomeFailed
	}
}

func transferOutcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, domain.ErrValidation):
		return metrics.OutcomeInvalid
	case errors.Is(err, domain.ErrAuthExpired), errors.Is(err, domain.ErrNotAuthenticated):
		return metrics.OutcomeAuth
	case errors.Is(err, domain.ErrSubmissionRejected):
		return metrics.OutcomeRejected
	case errors.Is(err, domain.ErrTransport):
		return metrics.OutcomeTransport
	default:
		return metrics.OutcomeFailed
	}
}
