package journal

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SymptomReport is one symptom mention within an entry.
type SymptomReport struct {
	Symptom     string    `json:"symptom"`
	IsEmergency bool      `json:"is_emergency"`
	Timestamp   time.Time `json:"timestamp"`
}

// NutritionNote is one food question and the answer it got.
type NutritionNote struct {
	Query     string    `json:"query"`
	Response  string    `json:"response"`
	Timestamp time.Time `json:"timestamp"`
}

// Entry is a persisted journal entry. Immutable once written; history is an
// ordered, append-only list.
type Entry struct {
	ID             string          `json:"id"`
	CreatedAt      time.Time       `json:"datetime"`
	PregnancyWeek  int             `json:"pregnancy_week,omitempty"`
	Trimester      int             `json:"trimester,omitempty"`
	EmotionalState string          `json:"emotional_state"`
	FatigueLevel   string          `json:"fatigue_level"`
	Symptoms       []SymptomReport `json:"symptoms"`
	NutritionNotes []NutritionNote `json:"nutrition_notes"`
	Tasks          []string        `json:"pregnancy_tasks"`
	Summary        string          `json:"summary"`
}

// HistoryStore persists the append-only entry history. Append is a
// read-modify-write over the full history; the store serializes it.
type HistoryStore interface {
	Load() ([]Entry, error)
	Append(Entry) error
}

// WeekSource supplies the pregnancy week snapshot taken at save time.
type WeekSource interface {
	CurrentWeek() (week, trimester int, ok bool)
}

const maxTasks = 3

// Sentiment keyword buckets for the emotion script. Positive is checked
// before negative; anything else gets the neutral reply.
var (
	positiveEmotions = []string{"happy", "excited", "joyful", "grateful", "peaceful", "content"}
	negativeEmotions = []string{"anxious", "scared", "overwhelmed", "sad", "worried", "stressed"}
)

// Session owns the in-progress journal entry for one conversation. Slots may
// be filled in any order; only Recap and Save gate on completeness. After a
// successful Save the session resets to empty.
type Session struct {
	history HistoryStore
	weeks   WeekSource

	symptoms       []SymptomReport
	emotionalState string
	fatigueLevel   string
	nutritionNotes []NutritionNote
	tasks          []string

	now func() time.Time
}

// NewSession creates an empty session over the given history store and week
// source.
func NewSession(history HistoryStore, weeks WeekSource) *Session {
	return &Session{
		history: history,
		weeks:   weeks,
		now:     time.Now,
	}
}

// SetNowFunc overrides the clock, for tests.
func (s *Session) SetNowFunc(now func() time.Time) {
	s.now = now
}

// RecordSymptom appends a symptom report with its classification outcome.
// Classification itself belongs to the safety analyzer; the caller invokes it
// once per reported symptom and records the result here exactly once.
func (s *Session) RecordSymptom(symptom string, isEmergency bool) {
	s.symptoms = append(s.symptoms, SymptomReport{
		Symptom:     symptom,
		IsEmergency: isEmergency,
		Timestamp:   s.now(),
	})
}

// RecordEmotion sets the emotional-state slot and returns the scripted
// acknowledgment plus the fatigue prompt.
func (s *Session) RecordEmotion(emotion string) string {
	s.emotionalState = emotion

	lower := strings.ToLower(emotion)
	var reply string
	switch {
	case containsAny(lower, positiveEmotions):
		reply = "That's wonderful! I'm so glad you're feeling good. Positive emotions are great for you and baby."
	case containsAny(lower, negativeEmotions):
		reply = "I hear you. Pregnancy can bring up a lot of emotions, and that's completely normal. Be gentle with yourself."
	default:
		reply = "Thank you for sharing how you're feeling. Your emotions matter."
	}

	return reply + " How are you managing fatigue today?"
}

// RecordFatigue sets the fatigue-level slot and returns the scripted
// acknowledgment plus the nutrition prompt.
func (s *Session) RecordFatigue(fatigue string) string {
	s.fatigueLevel = fatigue

	lower := strings.ToLower(fatigue)
	var reply string
	switch {
	case strings.Contains(lower, "exhaust") || strings.Contains(lower, "drain") || strings.Contains(lower, "very tired"):
		reply = "Fatigue is so common in pregnancy. Your body is doing amazing work. Rest when you can."
	case strings.Contains(lower, "energetic") || strings.Contains(lower, "good"):
		reply = "That's great! Having energy is wonderful. Make the most of it while being mindful not to overdo it."
	default:
		reply = "I understand. Fatigue levels can fluctuate a lot during pregnancy."
	}

	return reply + " What about nutrition? Any cravings, concerns, or foods you're wondering about?"
}

// RecordNutritionNote appends a food question and its answer.
func (s *Session) RecordNutritionNote(query, response string) {
	s.nutritionNotes = append(s.nutritionNotes, NutritionNote{
		Query:     query,
		Response:  response,
		Timestamp: s.now(),
	})
}

// RecordTasks parses a comma-separated task list, keeps at most three items,
// and replaces the task slot. Repeated calls overwrite, they never
// accumulate. If emotion and fatigue are already filled it returns the recap.
func (s *Session) RecordTasks(tasksCSV string) string {
	parts := strings.Split(tasksCSV, ",")
	tasks := make([]string, 0, maxTasks)
	for _, p := range parts {
		tasks = append(tasks, strings.TrimSpace(p))
		if len(tasks) == maxTasks {
			break
		}
	}
	s.tasks = tasks

	if s.emotionalState != "" && s.fatigueLevel != "" {
		recap := fmt.Sprintf("Let me recap your pregnancy update. You're feeling %s emotionally, with %s fatigue levels. ",
			s.emotionalState, s.fatigueLevel)
		if len(s.symptoms) > 0 {
			recap += fmt.Sprintf("You mentioned: %s. ", s.symptomCSV())
		}
		recap += fmt.Sprintf("Your pregnancy care tasks today are: %s. Does that sound right?", strings.Join(s.tasks, ", "))
		return recap
	}

	return "Thanks for sharing. Let me know if there's anything else."
}

// Recap renders the pre-save summary, or a prompt for whichever slot is
// still missing. It never fails.
func (s *Session) Recap() string {
	if s.emotionalState == "" || s.fatigueLevel == "" {
		return "I still need to know your emotional state and fatigue level. Can you share those?"
	}
	if len(s.tasks) == 0 {
		return "What about your pregnancy care tasks for today? Anything you'd like to focus on?"
	}

	recap := fmt.Sprintf("You're feeling %s emotionally with %s fatigue levels. ", s.emotionalState, s.fatigueLevel)
	if len(s.symptoms) > 0 {
		recap += fmt.Sprintf("You mentioned: %s. ", s.symptomCSV())
	}
	recap += fmt.Sprintf("Your pregnancy care tasks today are: %s. Does this sound right?", strings.Join(s.tasks, ", "))
	return recap
}

// Save persists the entry and resets the session. It fails softly: a missing
// slot or a storage failure comes back as a conversational reply with a nil
// entry, and the in-progress state is kept so nothing is lost.
func (s *Session) Save() (reply string, saved *Entry) {
	if s.emotionalState == "" || s.fatigueLevel == "" || len(s.tasks) == 0 {
		return "I need your emotional state, fatigue level, and at least one pregnancy care task before I can save this journal entry.", nil
	}

	week, trimester, hasWeek := 0, 0, false
	if s.weeks != nil {
		week, trimester, hasWeek = s.weeks.CurrentWeek()
	}

	weekLabel := "N/A"
	if hasWeek {
		weekLabel = fmt.Sprintf("%d", week)
	}
	summary := fmt.Sprintf("Week %s: Feeling %s, %s energy. Tasks: %s",
		weekLabel, s.emotionalState, s.fatigueLevel, strings.Join(s.tasks, ", "))
	if len(s.symptoms) > 0 {
		summary += fmt.Sprintf(". Symptoms: %s", s.symptomCSV())
	}

	entry := Entry{
		ID:             uuid.NewString(),
		CreatedAt:      s.now(),
		PregnancyWeek:  week,
		Trimester:      trimester,
		EmotionalState: s.emotionalState,
		FatigueLevel:   s.fatigueLevel,
		Symptoms:       s.symptoms,
		NutritionNotes: s.nutritionNotes,
		Tasks:          s.tasks,
		Summary:        summary,
	}

	if err := s.history.Append(entry); err != nil {
		log.Printf("Warning: failed to append journal entry: %v", err)
		return "I couldn't save your journal entry just now. Let's try again in a moment.", nil
	}

	s.reset()
	return "Perfect! Your pregnancy journal is saved. Would you like reminders for your tasks, or should I back this up to your notes?", &entry
}

// Emotion returns the emotional-state slot.
func (s *Session) Emotion() string { return s.emotionalState }

// Fatigue returns the fatigue-level slot.
func (s *Session) Fatigue() string { return s.fatigueLevel }

// Symptoms returns the accumulated symptom reports.
func (s *Session) Symptoms() []SymptomReport { return s.symptoms }

// Tasks returns the current task list.
func (s *Session) Tasks() []string { return s.tasks }

func (s *Session) symptomCSV() string {
	names := make([]string, len(s.symptoms))
	for i, sym := range s.symptoms {
		names[i] = sym.Symptom
	}
	return strings.Join(names, ", ")
}

func (s *Session) reset() {
	s.symptoms = nil
	s.emotionalState = ""
	s.fatigueLevel = ""
	s.nutritionNotes = nil
	s.tasks = nil
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}
