package telegram

import (
	"math/rand"
	"strings"
	"testing"

	"pregnancy-companion/internal/app"
	"pregnancy-companion/internal/closer"
	"pregnancy-companion/internal/journal"
	"pregnancy-companion/internal/nutrition"
	"pregnancy-companion/internal/profile"
	"pregnancy-companion/internal/refdata"
	"pregnancy-companion/internal/symptoms"
)

// --- Mocks ---

type MockProfileStore struct {
	Record *profile.Record
}

func (m *MockProfileStore) Load() (*profile.Record, error) { return m.Record, nil }
func (m *MockProfileStore) Save(rec *profile.Record) error { m.Record = rec; return nil }

type MockHistoryStore struct {
	Entries []journal.Entry
}

func (m *MockHistoryStore) Load() ([]journal.Entry, error) { return m.Entries, nil }
func (m *MockHistoryStore) Append(e journal.Entry) error {
	m.Entries = append(m.Entries, e)
	return nil
}

func testBot(t *testing.T) *Bot {
	t.Helper()

	symptomGuide := &refdata.SymptomGuide{
		EmergencyKeywords: []string{"heavy bleeding"},
		EscalationMessage: "Please call your provider right away.",
	}
	foodGuide := &refdata.FoodGuide{FoodsToAvoid: []string{"sushi"}}

	profileMgr := profile.NewManager(&MockProfileStore{}, &refdata.WeekGuide{})
	history := &MockHistoryStore{}
	session := journal.NewSession(history, profileMgr)

	application := app.NewApp(
		profileMgr,
		session,
		symptoms.NewAnalyzer(symptomGuide),
		nutrition.NewAdvisor(foodGuide, profileMgr),
		closer.NewSelector(rand.New(rand.NewSource(1))),
		history,
		nil,
		nil,
		nil,
	)

	return &Bot{app: application}
}

// --- Tests ---

func TestHandleCommand_Symptom(t *testing.T) {
	b := testBot(t)

	reply := b.handleCommand("symptom", "heavy bleeding")
	if reply != "Please call your provider right away." {
		t.Errorf("Expected the escalation message, got %q", reply)
	}

	reply = b.handleCommand("symptom", "")
	if !strings.Contains(reply, "/symptom nausea") {
		t.Errorf("Expected the usage hint, got %q", reply)
	}
}

func TestHandleCommand_MoodAndFatigue(t *testing.T) {
	b := testBot(t)

	reply := b.handleCommand("mood", "anxious")
	if !strings.Contains(reply, "How are you managing fatigue today?") {
		t.Errorf("Expected the fatigue prompt, got %q", reply)
	}

	reply = b.handleCommand("fatigue", "exhausted")
	if !strings.Contains(reply, "What about nutrition?") {
		t.Errorf("Expected the nutrition prompt, got %q", reply)
	}
}

func TestHandleCommand_Food(t *testing.T) {
	b := testBot(t)

	reply := b.handleCommand("food", "sushi")
	if !strings.Contains(reply, "sushi should be avoided during pregnancy.") {
		t.Errorf("Expected the avoid verdict, got %q", reply)
	}
}

func TestHandleCommand_DateSetters(t *testing.T) {
	b := testBot(t)

	reply := b.handleCommand("duedate", "2026-10-01")
	if !strings.Contains(reply, "week") {
		t.Errorf("Expected the week in the reply, got %q", reply)
	}

	reply = b.handleCommand("lmp", "not-a-date")
	if !strings.Contains(reply, "YYYY-MM-DD") {
		t.Errorf("Expected the format hint, got %q", reply)
	}
}

func TestHandleCommand_Unknown(t *testing.T) {
	b := testBot(t)

	reply := b.handleCommand("teleport", "")
	if !strings.Contains(reply, "didn't recognize that command") {
		t.Errorf("Expected the unknown-command reply, got %q", reply)
	}
}

func TestSmallTalk_WithoutModel(t *testing.T) {
	b := testBot(t)

	reply := b.smallTalk("how was your day?")
	if !strings.Contains(reply, "/symptom") {
		t.Errorf("Expected the scripted fallback, got %q", reply)
	}
}
