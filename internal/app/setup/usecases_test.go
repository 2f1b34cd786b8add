package setup

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/LavaJover/shvark-deal-service/internal/config"
	"github.com/LavaJover/shvark-deal-service/internal/domain"
)

func TestTierLimits(t *testing.T) {
	assert.Equal(t, domain.DefaultTierLimits(), tierLimits(config.Engine{}))

	limits := tierLimits(config.Engine{TierLimits: map[string]int{"starter": 2, "PRO": 10}})
	assert.Equal(t, domain.TierLimits{domain.TierStarter: 2, "PRO": 10}, limits)

	_, limited := limits.Limit(domain.TierGrowth)
	assert.False(t, limited)
}
