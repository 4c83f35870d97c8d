package nutrition

import (
	"fmt"
	"strings"

	"pregnancy-companion/internal/refdata"
)

const unknownFoodResponse = "I'm not sure about that specific food. When in doubt, check with your " +
	"healthcare provider or a nutritionist."

const noRecommendationsResponse = "I don't have specific recommendations right now, but focus on " +
	"balanced meals with plenty of fruits, vegetables, and protein."

// AllergyChecker reports whether the user is allergic to an allergen.
type AllergyChecker interface {
	HasAllergy(allergen string) bool
}

// Advisor answers food safety questions against the avoid-list, the safe-list,
// and the user's allergy set. Matching is bidirectional substring containment,
// case-insensitive, first match in stored order, so callers must not assume
// exact food-name equality.
type Advisor struct {
	guide     *refdata.FoodGuide
	allergies AllergyChecker
}

// NewAdvisor creates an Advisor over the food guide and allergy set.
func NewAdvisor(guide *refdata.FoodGuide, allergies AllergyChecker) *Advisor {
	return &Advisor{guide: guide, allergies: allergies}
}

// CheckFoodSafety classifies a food query as unsafe, known-safe, or unknown.
// The avoid-list is checked first; safe foods are scanned across every
// trimester bucket because safety is not trimester-specific. Unknown foods
// default to "ask a professional", not to blocked.
func (a *Advisor) CheckFoodSafety(query string) (safe bool, message string) {
	queryLower := strings.ToLower(query)

	for _, avoid := range a.guide.FoodsToAvoid {
		avoidLower := strings.ToLower(avoid)
		if strings.Contains(queryLower, avoidLower) || strings.Contains(avoidLower, queryLower) {
			return false, fmt.Sprintf("%s should be avoided during pregnancy.", avoid)
		}
	}

	for _, food := range a.guide.AllSafeFoods() {
		nameLower := strings.ToLower(food.Name)
		if !strings.Contains(queryLower, nameLower) && !strings.Contains(nameLower, queryLower) {
			continue
		}
		for _, allergen := range food.Allergens {
			if a.allergies.HasAllergy(allergen) {
				return false, fmt.Sprintf("%s contains %s, which you're allergic to.", food.Name, allergen)
			}
		}
		return true, fmt.Sprintf("%s is great! %s", food.Name, food.Benefit)
	}

	return true, unknownFoodResponse
}

// Recommendations returns the trimester's safe foods with per-food allergen
// verdicts. Unlike safety checks, recommendations stay trimester-relevant.
func (a *Advisor) Recommendations(trimester int) []Recommendation {
	foods := a.guide.SafeFoodsForTrimester(trimester)

	recs := make([]Recommendation, 0, len(foods))
	for _, food := range foods {
		rec := Recommendation{Food: food, Safe: true}
		for _, allergen := range food.Allergens {
			if a.allergies.HasAllergy(allergen) {
				rec.Safe = false
				rec.Warning = "Contains allergen"
				break
			}
		}
		recs = append(recs, rec)
	}
	return recs
}

// Recommendation is a safe-list entry annotated with the allergy verdict.
type Recommendation struct {
	Food    refdata.SafeFood
	Safe    bool
	Warning string
}

// SafeRecommendationsText renders up to limit allergen-free recommendations
// for the trimester as a spoken sentence.
func (a *Advisor) SafeRecommendationsText(trimester, limit int) string {
	var items []string
	for _, rec := range a.Recommendations(trimester) {
		if !rec.Safe {
			continue
		}
		items = append(items, fmt.Sprintf("%s - %s", rec.Food.Name, rec.Food.Benefit))
		if len(items) == limit {
			break
		}
	}

	if len(items) == 0 {
		return noRecommendationsResponse
	}
	return "Here are some great options for you: " + strings.Join(items, ", ") + "."
}
