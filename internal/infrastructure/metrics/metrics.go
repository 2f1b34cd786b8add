package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// DealMetrics holds every collector of the redemption and quota engine.
type DealMetrics struct {
	// Admission
	DealActivationsTotal *prometheus.CounterVec
	QuotaRejectionsTotal *prometheus.CounterVec

	// Redemptions
	RedemptionsTotal       *prometheus.CounterVec
	RedemptionRejectsTotal *prometheus.CounterVec
	DiscountAmountTotal    *prometheus.CounterVec
	RedeemDuration         *prometheus.HistogramVec

	// Sweeper
	ReclaimedTotal   prometheus.Counter
	SweepFailedTotal prometheus.Counter
	SweepDuration    prometheus.Histogram

	Errors *prometheus.CounterVec
}

// NewDealMetrics registers the collectors on reg. A nil reg means the default registerer.
func NewDealMetrics(reg prometheus.Registerer) *DealMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &DealMetrics{
		DealActivationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "deal_activations_total",
				Help: "Deal activation state changes",
			},
			[]string{"restaurant_id", "action"},
		),
		QuotaRejectionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "deal_quota_rejections_total",
				Help: "Activations refused because the tier quota was full",
			},
			[]string{"tier"},
		),
		RedemptionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "deal_redemptions_total",
				Help: "Redemption attempts by operation and outcome",
			},
			[]string{"operation", "outcome"},
		),
		RedemptionRejectsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "deal_redemption_rejections_total",
				Help: "Rejection reasons returned to customers",
			},
			[]string{"reason"},
		),
		DiscountAmountTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "deal_discount_amount_total",
				Help: "Sum of discounts granted on completed redemptions",
			},
			[]string{"discount_type"},
		),
		RedeemDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "deal_redeem_duration_seconds",
				Help:    "Time spent in the redemption transaction",
				Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
			},
			[]string{"operation"},
		),
		ReclaimedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "deal_reclaimed_reservations_total",
				Help: "Stale pending redemptions expired by the sweeper",
			},
		),
		SweepFailedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "deal_sweep_failed_groups_total",
				Help: "Deal groups the sweeper could not reclaim",
			},
		),
		SweepDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "deal_sweep_duration_seconds",
				Help:    "Duration of a full reclamation sweep",
				Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
			},
		),
		Errors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "deal_engine_errors_total",
				Help: "Internal errors by operation",
			},
			[]string{"operation"},
		),
	}
}

func (m *DealMetrics) RecordActivation(restaurantID string, active bool) {
	action := "deactivated"
	if active {
		action = "activated"
	}
	m.DealActivationsTotal.WithLabelValues(restaurantID, action).Inc()
}

func (m *DealMetrics) RecordQuotaRejection(tier string) {
	m.QuotaRejectionsTotal.WithLabelValues(tier).Inc()
}

// RecordRedemption counts one attempt. Rejected attempts also count each reason.
func (m *DealMetrics) RecordRedemption(operation, outcome string, reasons []string) {
	m.RedemptionsTotal.WithLabelValues(operation, outcome).Inc()
	for _, reason := range reasons {
		m.RedemptionRejectsTotal.WithLabelValues(reason).Inc()
	}
}

func (m *DealMetrics) RecordDiscount(discountType string, amount float64) {
	m.DiscountAmountTotal.WithLabelValues(discountType).Add(amount)
}

func (m *DealMetrics) RecordRedeemDuration(operation string, seconds float64) {
	m.RedeemDuration.WithLabelValues(operation).Observe(seconds)
}

func (m *DealMetrics) RecordSweep(reclaimed, failedGroups int, seconds float64) {
	m.ReclaimedTotal.Add(float64(reclaimed))
	m.SweepFailedTotal.Add(float64(failedGroups))
	m.SweepDuration.Observe(seconds)
}

func (m *DealMetrics) RecordError(operation string) {
	m.Errors.WithLabelValues(operation).Inc()
}
