// FILE: internal/entity/plan_entity.go
package entity

// PlanId is the slug identifying a pricing tier. Plan ids form a strict
// total order (free < professional < business < elite) used by rank checks.
type PlanId string

// Feature is a capability flag key. Metered features additionally carry a
// numeric per-period limit in the plan definition.
type Feature string

const (
	PlanFree         PlanId = "free"
	PlanProfessional PlanId = "professional"
	PlanBusiness     PlanId = "business"
	PlanElite        PlanId = "elite"
)

const (
	FeatureServices         Feature = "services"
	FeatureBookings         Feature = "bookings"
	FeatureFeaturedListings Feature = "featured_listings"
	FeatureDocuments        Feature = "documents"
	FeatureAnalytics        Feature = "analytics"
	FeaturePrioritySupport  Feature = "priority_support"
	FeatureCustomBranding   Feature = "custom_branding"
	FeatureApiAccess        Feature = "api_access"
)

// LimitUnlimited is the only unlimited marker, end-to-end. It is never
// normalized into a large sentinel when copied into a counter row.
const LimitUnlimited = -1

// PlanDefinition is the immutable description of one plan tier.
type PlanDefinition struct {
	Id                PlanId
	DisplayName       string
	MonthlyPrice      float64
	CommissionRateBps int
	Capabilities      []Feature
	// Limits holds per-feature numeric caps. A feature absent from the map is
	// not metered; LimitUnlimited means no cap.
	Limits map[Feature]int
}

// HasCapability reports whether the plan grants the feature at all,
// independent of any usage budget.
func (p PlanDefinition) HasCapability(feature Feature) bool {
	for _, c := range p.Capabilities {
		if c == feature {
			return true
		}
	}
	return false
}
