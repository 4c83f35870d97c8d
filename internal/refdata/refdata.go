package refdata

import (
	"embed"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

//go:embed data/*.json
var defaultsFS embed.FS

// SafeFood is a single entry in the trimester-grouped safe food list.
type SafeFood struct {
	Name      string   `json:"name"`
	Benefit   string   `json:"benefit"`
	Allergens []string `json:"allergens,omitempty"`
}

// FoodGuide holds the pregnancy food safety reference table.
type FoodGuide struct {
	FoodsToAvoid []string              `json:"foods_to_avoid"`
	SafeFoods    map[string][]SafeFood `json:"safe_foods"`
}

// SafeFoodsForTrimester returns the safe food list for a trimester, in stored order.
func (g *FoodGuide) SafeFoodsForTrimester(trimester int) []SafeFood {
	return g.SafeFoods[trimesterKey(trimester)]
}

// AllSafeFoods returns safe foods across every trimester bucket in a fixed
// trimester_1, trimester_2, trimester_3 order so that first-match scans are
// deterministic.
func (g *FoodGuide) AllSafeFoods() []SafeFood {
	var all []SafeFood
	for t := 1; t <= 3; t++ {
		all = append(all, g.SafeFoods[trimesterKey(t)]...)
	}
	return all
}

// WeekFact describes one inclusive range of pregnancy weeks.
type WeekFact struct {
	Range           string   `json:"range"` // e.g. "5-8"
	Trimester       int      `json:"trimester"`
	BabySize        string   `json:"baby_size"`
	KeyDevelopments string   `json:"key_developments"`
	CommonSymptoms  []string `json:"common_symptoms"`
	Tips            string   `json:"tips"`
}

// Contains reports whether week falls inside the fact's inclusive range.
func (f WeekFact) Contains(week int) bool {
	parts := strings.SplitN(f.Range, "-", 2)
	if len(parts) != 2 {
		return false
	}
	start, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
	end, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err1 != nil || err2 != nil {
		return false
	}
	return start <= week && week <= end
}

// WeekGuide holds the range-keyed week fact table. Facts are kept in file
// order; lookups return the first containing range.
type WeekGuide struct {
	Weeks []WeekFact `json:"weeks"`
}

// Lookup returns the first fact whose range contains week, or nil.
func (g *WeekGuide) Lookup(week int) *WeekFact {
	for i := range g.Weeks {
		if g.Weeks[i].Contains(week) {
			return &g.Weeks[i]
		}
	}
	return nil
}

// CommonSymptom pairs a known symptom name with its scripted response.
type CommonSymptom struct {
	Symptom  string `json:"symptom"`
	Response string `json:"response"`
}

// SymptomGuide holds emergency keywords, the escalation message, and the
// trimester-grouped common symptom lists.
type SymptomGuide struct {
	EmergencyKeywords []string                   `json:"emergency_keywords"`
	EscalationMessage string                     `json:"escalation_message"`
	CommonSymptoms    map[string][]CommonSymptom `json:"common_symptoms"`
}

// SymptomsForTrimester returns the trimester's common symptom list in stored
// order. An unknown trimester falls back to trimester 1.
func (g *SymptomGuide) SymptomsForTrimester(trimester int) []CommonSymptom {
	if trimester < 1 || trimester > 3 {
		trimester = 1
	}
	return g.CommonSymptoms[trimesterKey(trimester)]
}

func trimesterKey(trimester int) string {
	return fmt.Sprintf("trimester_%d", trimester)
}

// LoadFoodGuide loads foods.json from dataDir, falling back to the embedded
// default when the file is absent, and to an empty guide when it is corrupt.
func LoadFoodGuide(dataDir string) *FoodGuide {
	guide := &FoodGuide{SafeFoods: map[string][]SafeFood{}}
	loadGuide(dataDir, "foods.json", guide)
	return guide
}

// LoadWeekGuide loads week_guide.json from dataDir with the same fallback
// behavior as LoadFoodGuide.
func LoadWeekGuide(dataDir string) *WeekGuide {
	guide := &WeekGuide{}
	loadGuide(dataDir, "week_guide.json", guide)
	return guide
}

// LoadSymptomGuide loads symptoms_guide.json from dataDir with the same
// fallback behavior as LoadFoodGuide.
func LoadSymptomGuide(dataDir string) *SymptomGuide {
	guide := &SymptomGuide{CommonSymptoms: map[string][]CommonSymptom{}}
	loadGuide(dataDir, "symptoms_guide.json", guide)
	return guide
}

// loadGuide fills dst from dataDir/name if present, otherwise from the
// embedded default. A guide that cannot be read or parsed stays empty; the
// conversation must keep working on generic responses.
func loadGuide(dataDir, name string, dst interface{}) {
	var data []byte
	var err error

	if dataDir != "" {
		path := filepath.Join(dataDir, name)
		if _, statErr := os.Stat(path); statErr == nil {
			data, err = os.ReadFile(path)
			if err != nil {
				log.Printf("Warning: failed to read %s: %v", path, err)
				return
			}
		}
	}

	if data == nil {
		data, err = defaultsFS.ReadFile("data/" + name)
		if err != nil {
			log.Printf("Warning: no embedded default for %s: %v", name, err)
			return
		}
	}

	if err := json.Unmarshal(data, dst); err != nil {
		log.Printf("Warning: failed to parse %s: %v", name, err)
	}
}
