// FILE: internal/catalog/catalog.go
// Static plan catalog: prices, commission rates, capability flags, and
// per-feature limits for every tier. Pure lookups, no state.
package catalog

import (
	"fmt"

	"marketplace-be/internal/entity"
)

// ErrUnknownPlan indicates a plan id missing from the catalog. This is a
// configuration-integrity failure, not a user-facing condition.
var ErrUnknownPlan = fmt.Errorf("catalog: unknown plan id")

// planOrder defines the strict total order used by rank comparisons.
var planOrder = []entity.PlanId{
	entity.PlanFree,
	entity.PlanProfessional,
	entity.PlanBusiness,
	entity.PlanElite,
}

var plans = map[entity.PlanId]entity.PlanDefinition{
	entity.PlanFree: {
		Id:                entity.PlanFree,
		DisplayName:       "Free",
		MonthlyPrice:      0,
		CommissionRateBps: 2000,
		Capabilities: []entity.Feature{
			entity.FeatureServices,
			entity.FeatureBookings,
		},
		Limits: map[entity.Feature]int{
			entity.FeatureServices: 3,
			entity.FeatureBookings: 10,
		},
	},
	entity.PlanProfessional: {
		Id:                entity.PlanProfessional,
		DisplayName:       "Professional",
		MonthlyPrice:      29,
		CommissionRateBps: 1500,
		Capabilities: []entity.Feature{
			entity.FeatureServices,
			entity.FeatureBookings,
			entity.FeatureFeaturedListings,
			entity.FeatureDocuments,
			entity.FeatureAnalytics,
		},
		Limits: map[entity.Feature]int{
			entity.FeatureServices:         10,
			entity.FeatureBookings:         100,
			entity.FeatureFeaturedListings: 2,
			entity.FeatureDocuments:        50,
		},
	},
	entity.PlanBusiness: {
		Id:                entity.PlanBusiness,
		DisplayName:       "Business",
		MonthlyPrice:      79,
		CommissionRateBps: 1000,
		Capabilities: []entity.Feature{
			entity.FeatureServices,
			entity.FeatureBookings,
			entity.FeatureFeaturedListings,
			entity.FeatureDocuments,
			entity.FeatureAnalytics,
			entity.FeaturePrioritySupport,
			entity.FeatureApiAccess,
		},
		Limits: map[entity.Feature]int{
			entity.FeatureServices:         50,
			entity.FeatureBookings:         entity.LimitUnlimited,
			entity.FeatureFeaturedListings: 10,
			entity.FeatureDocuments:        500,
		},
	},
	entity.PlanElite: {
		Id:                entity.PlanElite,
		DisplayName:       "Elite",
		MonthlyPrice:      199,
		CommissionRateBps: 500,
		Capabilities: []entity.Feature{
			entity.FeatureServices,
			entity.FeatureBookings,
			entity.FeatureFeaturedListings,
			entity.FeatureDocuments,
			entity.FeatureAnalytics,
			entity.FeaturePrioritySupport,
			entity.FeatureApiAccess,
			entity.FeatureCustomBranding,
		},
		Limits: map[entity.Feature]int{
			entity.FeatureServices:         entity.LimitUnlimited,
			entity.FeatureBookings:         entity.LimitUnlimited,
			entity.FeatureFeaturedListings: entity.LimitUnlimited,
			entity.FeatureDocuments:        entity.LimitUnlimited,
		},
	},
}

// DefaultPlan is the tier implicitly assigned when a user has no
// subscription row yet.
const DefaultPlan = entity.PlanFree

// Plan returns the full definition for a plan id.
func Plan(id entity.PlanId) (entity.PlanDefinition, error) {
	p, ok := plans[id]
	if !ok {
		return entity.PlanDefinition{}, fmt.Errorf("%w: %q", ErrUnknownPlan, id)
	}
	return p, nil
}

// Exists reports whether the plan id is part of the catalog.
func Exists(id entity.PlanId) bool {
	_, ok := plans[id]
	return ok
}

// LimitFor returns the per-period limit of a feature under a plan.
// ok=false means the feature is not metered under that plan; capability
// gating still applies independently.
func LimitFor(id entity.PlanId, feature entity.Feature) (limit int, ok bool) {
	p, found := plans[id]
	if !found {
		return 0, false
	}
	limit, ok = p.Limits[feature]
	return limit, ok
}

// Capabilities returns the capability flags granted by a plan.
func Capabilities(id entity.PlanId) []entity.Feature {
	return plans[id].Capabilities
}

// Rank returns the position of the plan in the tier order, for
// hierarchy comparisons. Unknown plans rank below everything.
func Rank(id entity.PlanId) int {
	for i, p := range planOrder {
		if p == id {
			return i
		}
	}
	return -1
}

// All returns the catalog in tier order.
func All() []entity.PlanDefinition {
	out := make([]entity.PlanDefinition, 0, len(planOrder))
	for _, id := range planOrder {
		out = append(out, plans[id])
	}
	return out
}

// MustValidate panics when the catalog is internally inconsistent. Called
// once at startup; a broken catalog must never serve traffic.
func MustValidate() {
	if len(planOrder) != len(plans) {
		panic("catalog: plan order and plan table disagree")
	}
	for _, id := range planOrder {
		p, ok := plans[id]
		if !ok {
			panic(fmt.Sprintf("catalog: ordered plan %q has no definition", id))
		}
		for f := range p.Limits {
			if !p.HasCapability(f) {
				panic(fmt.Sprintf("catalog: plan %q meters feature %q it does not grant", id, f))
			}
		}
		for f, l := range p.Limits {
			if l < entity.LimitUnlimited {
				panic(fmt.Sprintf("catalog: plan %q has invalid limit %d for %q", id, l, f))
			}
		}
	}
}
