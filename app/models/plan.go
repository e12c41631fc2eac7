package models

import (
	"fmt"
	"strings"
)

// Plan maps a storefront plan id to its price and the fixed MegaOTT
// provisioning parameters for that tier.
type Plan struct {
	ID             string
	Name           string
	AmountCents    int64
	Currency       string
	PackageID      string
	MaxConnections string
	TemplateID     string
}

// DefaultPlanID is the fallback used whenever a webhook carries no plan or
// an unrecognized one.
const DefaultPlanID = "basic-1stream"

var plans = []Plan{
	{
		ID:             "basic-1stream",
		Name:           "Basic (1 Stream)",
		AmountCents:    999,
		Currency:       "usd",
		PackageID:      "4",
		MaxConnections: "1",
		TemplateID:     "1",
	},
	{
		ID:             "duo-2stream",
		Name:           "Duo (2 Streams)",
		AmountCents:    1499,
		Currency:       "usd",
		PackageID:      "4",
		MaxConnections: "2",
		TemplateID:     "1",
	},
	{
		ID:             "family-4stream",
		Name:           "Family (4 Streams)",
		AmountCents:    2499,
		Currency:       "usd",
		PackageID:      "4",
		MaxConnections: "4",
		TemplateID:     "1",
	},
}

// PriceDisplay formats the plan price for the pricing page.
func (p Plan) PriceDisplay() string {
	return fmt.Sprintf("$%d.%02d", p.AmountCents/100, p.AmountCents%100)
}

// AllPlans returns the storefront catalog in display order.
func AllPlans() []Plan {
	out := make([]Plan, len(plans))
	copy(out, plans)
	return out
}

// PlanByID resolves a plan id case-insensitively, falling back to the
// default plan for unknown ids.
func PlanByID(id string) Plan {
	needle := strings.ToLower(strings.TrimSpace(id))
	for _, p := range plans {
		if p.ID == needle {
			return p
		}
	}
	return PlanByID(DefaultPlanID)
}
