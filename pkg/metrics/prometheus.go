// Package metrics exposes the client counters to prometheus.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Outcome labels.
const (
	OutcomeOK        = "ok"
	OutcomeFailed    = "failed"
	OutcomeAuth      = "auth_expired"
	OutcomeInvalid   = "invalid"
	OutcomeRejected  = "rejected"
	OutcomeTransport = "transport"
)

// Collector holds the client metrics on a private registry.
type Collector struct {
	registry         *prometheus.Registry
	fetches          *prometheus.CounterVec
	transfers        *prometheus.CounterVec
	transferDuration prometheus.Histogram
	invalidations    prometheus.Counter
	accountBalance   *prometheus.GaugeVec
	logger           zerolog.Logger
}

// NewCollector registers the client metrics on a new registry.
func NewCollector(logger zerolog.Logger) *Collector {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Collector{
		registry: registry,
		fetches: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ledger_fetches_total",
			Help: "Total number of ledger reads by resource and outcome",
		}, []string{"resource", "outcome"}),
		transfers: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "transfers_total",
			Help: "Total number of transfer attempts by outcome",
		}, []string{"outcome"}),
		transferDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "transfer_submission_duration_seconds",
			Help:    "Time taken to validate and submit a transfer",
			Buckets: prometheus.DefBuckets,
		}),
		invalidations: factory.NewCounter(prometheus.CounterOpts{
			Name: "session_invalidations_total",
			Help: "Total number of sessions ended by the ledger or by expiry",
		}),
		accountBalance: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "account_balance",
			Help: "Last loaded account balance",
		}, []string{"account_number"}),
		logger: logger,
	}
}

// RecordFetch counts a ledger read.
func (m *Collector) RecordFetch(resource, outcome string) {
	m.fetches.WithLabelValues(resource, outcome).Inc()
}

// RecordTransfer counts a transfer attempt and its duration.
func (m *Collector) RecordTransfer(duration time.Duration, outcome string) {
	m.transfers.WithLabelValues(outcome).Inc()
	m.transferDuration.Observe(duration.Seconds())
}

// RecordInvalidation counts an ended session.
func (m *Collector) RecordInvalidation() {
	m.invalidations.Inc()
}

// SetBalance updates the balance gauge of an account.
func (m *Collector) SetBalance(accountNumber string, balance float64) {
	m.accountBalance.WithLabelValues(accountNumber).Set(balance)
}

// ResetBalances drops every balance gauge, used before loading a new account set.
func (m *Collector) ResetBalances() {
	m.accountBalance.Reset()
}

// Handler returns the http handler serving the registry.
func (m *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// StartServer serves /metrics on addr in the background.
func (m *Collector) StartServer(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		m.logger.Info().Str("addr", addr).Msg("starting metrics server")

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			m.logger.Error().Err(err).Msg("metrics server failed")
		}
	}()

	return server
}

// Shutdown stops a server started by StartServer.
func (m *Collector) Shutdown(ctx context.Context, server *http.Server) error {
	if server == nil {
		return nil
	}

	return server.Shutdown(ctx)
}
