package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestDealMetrics_Record(t *testing.T) {
	m := NewDealMetrics(prometheus.NewRegistry())

	m.RecordRedemption("redeem", "rejected", []string{"DEAL_EXHAUSTED", "USER_LIMIT_EXCEEDED"})
	m.RecordRedemption("redeem", "completed", nil)
	m.RecordDiscount("PERCENTAGE", 10)
	m.RecordDiscount("PERCENTAGE", 2.5)
	m.RecordQuotaRejection("STARTER")
	m.RecordActivation("r1", true)
	m.RecordSweep(3, 1, 0.2)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RedemptionsTotal.WithLabelValues("redeem", "rejected")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RedemptionRejectsTotal.WithLabelValues("DEAL_EXHAUSTED")))
	assert.Equal(t, 12.5, testutil.ToFloat64(m.DiscountAmountTotal.WithLabelValues("PERCENTAGE")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.QuotaRejectionsTotal.WithLabelValues("STARTER")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DealActivationsTotal.WithLabelValues("r1", "activated")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.ReclaimedTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SweepFailedTotal))
}
