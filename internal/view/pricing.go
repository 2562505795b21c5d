// internal/view/pricing.go
package view

import (
	"fmt"
	"strings"

	"portfolio/internal/source"
)

// unavailableMarker prefixes a feature line the plan does not include.
// The glyph is stripped before display and drives the struck-through class.
const unavailableMarker = "×"

type PlanFeature struct {
	Text        string
	Unavailable bool
}

type PlanCard struct {
	Title    string
	Price    string
	Unit     string
	Button   string
	Featured bool
	Features []PlanFeature
	Prefill  string // contact form message the CTA preloads
}

// PricingGrid renders every plan unconditionally. An empty feed is an
// empty grid: no placeholder, deliberately unlike the galleries.
func PricingGrid(plans []source.PricingPlan) []PlanCard {
	cards := make([]PlanCard, 0, len(plans))
	for _, plan := range plans {
		card := PlanCard{
			Title:    plan.Title,
			Price:    plan.Price,
			Unit:     plan.Unit,
			Button:   plan.Button,
			Featured: plan.Featured,
			Prefill:  PlanPrefill(plan.Title),
		}
		for _, line := range plan.Features {
			card.Features = append(card.Features, planFeature(line))
		}
		cards = append(cards, card)
	}
	return cards
}

// PlanPrefill is the message template a plan's CTA preloads into the
// contact form.
func PlanPrefill(title string) string {
	return fmt.Sprintf("I'm interested in the %s plan. ", title)
}

func planFeature(line string) PlanFeature {
	if strings.HasPrefix(line, unavailableMarker) {
		text := strings.TrimLeft(strings.TrimPrefix(line, unavailableMarker), " \t")
		return PlanFeature{Text: text, Unavailable: true}
	}
	return PlanFeature{Text: line}
}
