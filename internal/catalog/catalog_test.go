package catalog

import (
	"testing"

	"marketplace-be/internal/entity"

	"github.com/stretchr/testify/assert"
)

func TestRankOrdering(t *testing.T) {
	assert.Less(t, Rank(entity.PlanFree), Rank(entity.PlanProfessional))
	assert.Less(t, Rank(entity.PlanProfessional), Rank(entity.PlanBusiness))
	assert.Less(t, Rank(entity.PlanBusiness), Rank(entity.PlanElite))
	assert.Equal(t, -1, Rank(entity.PlanId("enterprise")))
}

func TestLimitFor(t *testing.T) {
	tests := []struct {
		name      string
		plan      entity.PlanId
		feature   entity.Feature
		wantLimit int
		wantOk    bool
	}{
		{"free services", entity.PlanFree, entity.FeatureServices, 3, true},
		{"professional services", entity.PlanProfessional, entity.FeatureServices, 10, true},
		{"elite services unlimited", entity.PlanElite, entity.FeatureServices, entity.LimitUnlimited, true},
		{"analytics is not metered", entity.PlanProfessional, entity.FeatureAnalytics, 0, false},
		{"unknown plan", entity.PlanId("enterprise"), entity.FeatureServices, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limit, ok := LimitFor(tt.plan, tt.feature)
			assert.Equal(t, tt.wantOk, ok)
			assert.Equal(t, tt.wantLimit, limit)
		})
	}
}

func TestPlanLookup(t *testing.T) {
	p, err := Plan(entity.PlanBusiness)
	assert.NoError(t, err)
	assert.Equal(t, "Business", p.DisplayName)
	assert.True(t, p.HasCapability(entity.FeatureApiAccess))
	assert.False(t, p.HasCapability(entity.FeatureCustomBranding))

	_, err = Plan(entity.PlanId("enterprise"))
	assert.ErrorIs(t, err, ErrUnknownPlan)
}

func TestCommissionRatesDecreaseWithTier(t *testing.T) {
	all := All()
	for i := 1; i < len(all); i++ {
		assert.Greater(t, all[i-1].CommissionRateBps, all[i].CommissionRateBps,
			"commission should shrink as tiers go up")
	}
}

func TestMustValidate(t *testing.T) {
	assert.NotPanics(t, MustValidate)
}
