package profile

import (
	"log"
	"strings"
	"time"

	"pregnancy-companion/internal/refdata"
)

// Record is the persisted pregnancy profile. A user has exactly one record;
// it is created with empty defaults on first access and only ever overwritten.
type Record struct {
	LMP             *time.Time `json:"lmp,omitempty"`
	DueDate         *time.Time `json:"due_date,omitempty"`
	CurrentWeek     int        `json:"current_week,omitempty"`
	Trimester       int        `json:"trimester,omitempty"`
	Allergies       []string   `json:"allergies"`
	FoodPreferences []string   `json:"food_preferences"`
	CreatedAt       time.Time  `json:"created_at"`
}

// Store persists the single profile record.
type Store interface {
	Load() (*Record, error)
	Save(*Record) error
}

// WeekInfo combines the current week number with its reference facts.
type WeekInfo struct {
	Week            int
	Trimester       int
	BabySize        string
	KeyDevelopments string
	CommonSymptoms  []string
	Tips            string
}

// Manager owns the pregnancy profile: timeline derivation from the due date,
// allergy and preference sets, and week fact lookups. Every mutation is
// persisted synchronously; persistence failures are logged, never raised,
// because a failed write must not break the conversation.
type Manager struct {
	store Store
	guide *refdata.WeekGuide
	rec   *Record
	now   func() time.Time
}

// NewManager loads the profile from the store, falling back to an empty
// record when the store has nothing or fails to read.
func NewManager(store Store, guide *refdata.WeekGuide) *Manager {
	m := &Manager{
		store: store,
		guide: guide,
		now:   time.Now,
	}

	rec, err := store.Load()
	if err != nil {
		log.Printf("Warning: failed to load profile, starting empty: %v", err)
	}
	if rec == nil {
		rec = &Record{
			Allergies:       []string{},
			FoodPreferences: []string{},
			CreatedAt:       m.now(),
		}
	}
	m.rec = rec
	m.recalculate()
	return m
}

// SetNowFunc overrides the clock, for tests.
func (m *Manager) SetNowFunc(now func() time.Time) {
	m.now = now
	m.recalculate()
}

// Record returns the current profile record.
func (m *Manager) Record() *Record {
	return m.rec
}

// SetLMP records the last menstrual period and derives the due date as
// LMP + 280 days.
func (m *Manager) SetLMP(lmp time.Time) {
	m.rec.LMP = &lmp
	due := lmp.AddDate(0, 0, 280)
	m.rec.DueDate = &due
	m.recalculate()
	m.persist()
}

// SetDueDate records the due date directly.
func (m *Manager) SetDueDate(due time.Time) {
	m.rec.DueDate = &due
	m.recalculate()
	m.persist()
}

// AddAllergy adds a lower-cased allergy to the set.
func (m *Manager) AddAllergy(allergy string) {
	allergy = strings.ToLower(strings.TrimSpace(allergy))
	if allergy == "" {
		return
	}
	for _, a := range m.rec.Allergies {
		if a == allergy {
			return
		}
	}
	m.rec.Allergies = append(m.rec.Allergies, allergy)
	m.persist()
}

// AddFoodPreference adds a food preference to the set.
func (m *Manager) AddFoodPreference(pref string) {
	pref = strings.TrimSpace(pref)
	if pref == "" {
		return
	}
	for _, p := range m.rec.FoodPreferences {
		if p == pref {
			return
		}
	}
	m.rec.FoodPreferences = append(m.rec.FoodPreferences, pref)
	m.persist()
}

// HasAllergy checks the allergy set, case-insensitively.
func (m *Manager) HasAllergy(allergen string) bool {
	allergen = strings.ToLower(allergen)
	for _, a := range m.rec.Allergies {
		if a == allergen {
			return true
		}
	}
	return false
}

// Allergies returns the stored allergy set.
func (m *Manager) Allergies() []string {
	return m.rec.Allergies
}

// CurrentWeek returns the derived week and trimester. ok is false when no
// due date has been set.
func (m *Manager) CurrentWeek() (week, trimester int, ok bool) {
	if m.rec.DueDate == nil {
		return 0, 0, false
	}
	week = weeksPregnant(*m.rec.DueDate, m.now())
	return week, trimesterFor(week), true
}

// WeekInfo looks up the reference facts for the current week. It returns nil
// when the week is unset or the guide has no containing range.
func (m *Manager) WeekInfo() *WeekInfo {
	week, _, ok := m.CurrentWeek()
	if !ok || m.guide == nil {
		return nil
	}

	fact := m.guide.Lookup(week)
	if fact == nil {
		return nil
	}

	return &WeekInfo{
		Week:            week,
		Trimester:       fact.Trimester,
		BabySize:        fact.BabySize,
		KeyDevelopments: fact.KeyDevelopments,
		CommonSymptoms:  fact.CommonSymptoms,
		Tips:            fact.Tips,
	}
}

// recalculate re-derives the stored week and trimester snapshot from the due
// date. Without a due date both stay unset.
func (m *Manager) recalculate() {
	if m.rec == nil || m.rec.DueDate == nil {
		return
	}
	week := weeksPregnant(*m.rec.DueDate, m.now())
	m.rec.CurrentWeek = week
	m.rec.Trimester = trimesterFor(week)
}

func (m *Manager) persist() {
	if err := m.store.Save(m.rec); err != nil {
		log.Printf("Warning: failed to save profile: %v", err)
	}
}

// weeksPregnant derives the pregnancy week from the due date, clamped to
// [1, 42]. daysUntilDue truncates toward zero; the week division floors, so
// past-due dates keep advancing the week until the clamp.
func weeksPregnant(due, now time.Time) int {
	daysUntilDue := int(due.Sub(now).Hours() / 24)
	week := 40 - floorDiv(daysUntilDue, 7)
	if week < 1 {
		week = 1
	} else if week > 42 {
		week = 42
	}
	return week
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func trimesterFor(week int) int {
	switch {
	case week <= 13:
		return 1
	case week <= 27:
		return 2
	default:
		return 3
	}
}
