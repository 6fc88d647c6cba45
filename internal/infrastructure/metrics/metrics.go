package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// SettlementMetrics contains all metrics of the settlement core.
type SettlementMetrics struct {
	// Bid admission
	BidsSubmittedTotal    prometheus.CounterVec
	BidsRejectedTotal     prometheus.CounterVec
	BidsBelowMinimumTotal prometheus.CounterVec
	AuctionsExtendedTotal prometheus.CounterVec

	// Payment windows
	WindowsOpenedTotal  prometheus.CounterVec
	WindowsClosedTotal  prometheus.CounterVec
	WindowOpenDuration  prometheus.HistogramVec
	LatePaymentsTotal   prometheus.CounterVec
	PaymentRetriesTotal prometheus.CounterVec

	// Cascade outcomes
	SettlementsFinalizedTotal prometheus.CounterVec
	CascadeDepth              prometheus.HistogramVec
	DepositForfeitedTotal     prometheus.CounterVec
	SettlementsUnderReview    prometheus.GaugeVec
}

func NewSettlementMetrics() *SettlementMetrics {
	return &SettlementMetrics{
		BidsSubmittedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bids_submitted_total",
				Help: "Bids accepted into the ledger",
			},
			[]string{"currency"},
		),
		BidsRejectedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bids_rejected_total",
				Help: "Bids rejected at admission, by reason",
			},
			[]string{"reason"},
		),
		BidsBelowMinimumTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bids_below_minimum_total",
				Help: "Bids kept for display but excluded from ranking",
			},
			[]string{"currency"},
		),
		AuctionsExtendedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "auctions_extended_total",
				Help: "Auto-extensions triggered by late qualifying bids",
			},
			[]string{"currency"},
		),
		WindowsOpenedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payment_windows_opened_total",
				Help: "Payment windows opened, by party role",
			},
			[]string{"role"},
		),
		WindowsClosedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payment_windows_closed_total",
				Help: "Payment windows closed, by terminal status",
			},
			[]string{"status"},
		),
		WindowOpenDuration: *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "payment_window_open_duration_seconds",
				Help:    "Time a window stayed open before its terminal transition",
				Buckets: prometheus.ExponentialBuckets(1, 2, 12),
			},
			[]string{"status"},
		),
		LatePaymentsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "late_payments_total",
				Help: "Confirmations that lost the race against window expiry",
			},
			[]string{"role"},
		),
		PaymentRetriesTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payment_retries_total",
				Help: "Failed processor attempts left retryable inside an open window",
			},
			[]string{"role"},
		),
		SettlementsFinalizedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "settlements_finalized_total",
				Help: "Settlements reaching a terminal outcome",
			},
			[]string{"outcome"},
		),
		CascadeDepth: *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cascade_depth",
				Help:    "Number of parties offered before the cascade ended",
				Buckets: prometheus.LinearBuckets(1, 1, 10),
			},
			[]string{"outcome"},
		),
		DepositForfeitedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "deposit_forfeited_total",
				Help: "Total deposit amount forfeited by defaulting parties",
			},
			[]string{"currency"},
		),
		SettlementsUnderReview: *promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "settlements_under_review",
				Help: "Settlements flagged for manual review",
			},
			[]string{"reason"},
		),
	}
}

func (m *SettlementMetrics) RecordBidSubmitted(currency string, belowMinimum bool) {
	m.BidsSubmittedTotal.WithLabelValues(currency).Inc()
	if belowMinimum {
		m.BidsBelowMinimumTotal.WithLabelValues(currency).Inc()
	}
}

func (m *SettlementMetrics) RecordBidRejected(reason string) {
	m.BidsRejectedTotal.WithLabelValues(reason).Inc()
}

func (m *SettlementMetrics) RecordAuctionExtended(currency string) {
	m.AuctionsExtendedTotal.WithLabelValues(currency).Inc()
}

func (m *SettlementMetrics) RecordWindowOpened(role string) {
	m.WindowsOpenedTotal.WithLabelValues(role).Inc()
}

func (m *SettlementMetrics) RecordWindowClosed(status string, openSeconds float64) {
	m.WindowsClosedTotal.WithLabelValues(status).Inc()
	m.WindowOpenDuration.WithLabelValues(status).Observe(openSeconds)
}

func (m *SettlementMetrics) RecordLatePayment(role string) {
	m.LatePaymentsTotal.WithLabelValues(role).Inc()
}

func (m *SettlementMetrics) RecordPaymentRetry(role string) {
	m.PaymentRetriesTotal.WithLabelValues(role).Inc()
}

func (m *SettlementMetrics) RecordSettlementFinalized(outcome string, partiesOffered int) {
	m.SettlementsFinalizedTotal.WithLabelValues(outcome).Inc()
	m.CascadeDepth.WithLabelValues(outcome).Observe(float64(partiesOffered))
}

func (m *SettlementMetrics) RecordDepositForfeited(currency string, amount float64) {
	m.DepositForfeitedTotal.WithLabelValues(currency).Add(amount)
}

func (m *SettlementMetrics) RecordUnderReview(reason string) {
	m.SettlementsUnderReview.WithLabelValues(reason).Inc()
}
