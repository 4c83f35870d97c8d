package nutrition

import (
	"strings"
	"testing"

	"pregnancy-companion/internal/refdata"
)

// --- Mocks ---

type MockAllergies struct {
	Allergic map[string]bool
}

func (m *MockAllergies) HasAllergy(allergen string) bool {
	return m.Allergic[allergen]
}

func testGuide() *refdata.FoodGuide {
	return &refdata.FoodGuide{
		FoodsToAvoid: []string{"sushi", "soft cheese"},
		SafeFoods: map[string][]refdata.SafeFood{
			"trimester_1": {
				{Name: "ginger tea", Benefit: "settles the stomach"},
				{Name: "peanut butter toast", Benefit: "quick protein", Allergens: []string{"peanuts", "gluten"}},
			},
			"trimester_2": {
				{Name: "salmon", Benefit: "omega-3s", Allergens: []string{"fish"}},
				{Name: "spinach", Benefit: "iron and folate"},
			},
		},
	}
}

// --- Tests ---

func TestCheckFoodSafety_AvoidList(t *testing.T) {
	a := NewAdvisor(testGuide(), &MockAllergies{})

	safe, message := a.CheckFoodSafety("Can I eat sushi tonight?")
	if safe {
		t.Fatal("Expected sushi to be unsafe")
	}
	if message != "sushi should be avoided during pregnancy." {
		t.Errorf("Unexpected message: %q", message)
	}
}

func TestCheckFoodSafety_SubstringMatchesBothWays(t *testing.T) {
	a := NewAdvisor(testGuide(), &MockAllergies{})

	// Query contained in the stored name.
	if safe, _ := a.CheckFoodSafety("cheese"); safe {
		t.Error("Expected 'cheese' to match 'soft cheese'")
	}

	// Stored name contained in the query.
	if safe, _ := a.CheckFoodSafety("grilled salmon fillet"); !safe {
		t.Error("Expected 'grilled salmon fillet' to match safe 'salmon'")
	}
}

func TestCheckFoodSafety_AllergenOverride(t *testing.T) {
	a := NewAdvisor(testGuide(), &MockAllergies{Allergic: map[string]bool{"peanuts": true}})

	safe, message := a.CheckFoodSafety("peanut butter toast")
	if safe {
		t.Fatal("Expected an allergen hit to make the food unsafe")
	}
	if message != "peanut butter toast contains peanuts, which you're allergic to." {
		t.Errorf("Unexpected message: %q", message)
	}
}

func TestCheckFoodSafety_KnownSafe(t *testing.T) {
	a := NewAdvisor(testGuide(), &MockAllergies{})

	safe, message := a.CheckFoodSafety("ginger tea")
	if !safe {
		t.Fatal("Expected ginger tea to be safe")
	}
	if message != "ginger tea is great! settles the stomach" {
		t.Errorf("Unexpected message: %q", message)
	}
}

func TestCheckFoodSafety_UnknownDefaultsToProvider(t *testing.T) {
	a := NewAdvisor(testGuide(), &MockAllergies{})

	safe, message := a.CheckFoodSafety("dragonfruit smoothie")
	if !safe {
		t.Error("Unknown foods must not be blocked")
	}
	if !strings.Contains(message, "healthcare provider") {
		t.Errorf("Expected the ask-a-professional response, got %q", message)
	}
}

func TestRecommendations_FlagsAllergens(t *testing.T) {
	a := NewAdvisor(testGuide(), &MockAllergies{Allergic: map[string]bool{"fish": true}})

	recs := a.Recommendations(2)
	if len(recs) != 2 {
		t.Fatalf("Expected 2 recommendations, got %d", len(recs))
	}
	if recs[0].Safe {
		t.Error("Expected salmon to be flagged for a fish allergy")
	}
	if !recs[1].Safe {
		t.Error("Expected spinach to stay safe")
	}
}

func TestSafeRecommendationsText(t *testing.T) {
	a := NewAdvisor(testGuide(), &MockAllergies{Allergic: map[string]bool{"peanuts": true}})

	text := a.SafeRecommendationsText(1, 3)
	want := "Here are some great options for you: ginger tea - settles the stomach."
	if text != want {
		t.Errorf("Expected %q, got %q", want, text)
	}
}

func TestSafeRecommendationsText_Empty(t *testing.T) {
	a := NewAdvisor(testGuide(), &MockAllergies{})

	text := a.SafeRecommendationsText(3, 3)
	if !strings.Contains(text, "balanced meals") {
		t.Errorf("Expected the fallback response, got %q", text)
	}
}

func TestSafeRecommendationsText_Limit(t *testing.T) {
	a := NewAdvisor(testGuide(), &MockAllergies{})

	text := a.SafeRecommendationsText(2, 1)
	if strings.Contains(text, "spinach") {
		t.Errorf("Expected the limit to cut spinach, got %q", text)
	}
	if !strings.Contains(text, "salmon") {
		t.Errorf("Expected salmon first, got %q", text)
	}
}
