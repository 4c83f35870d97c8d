package closer

import (
	"math/rand"
	"strings"
	"testing"
)

func TestDetectClosure(t *testing.T) {
	s := NewSelector(nil)

	cases := []struct {
		message string
		want    bool
	}{
		{"Thanks!!", true},
		{"thank you so much", true},
		{"OK.", true},
		{"that's all for today", true},
		{"Bye!", true},
		{"I have a question about salmon", false},
		{"my back hurts", false},
	}

	for _, c := range cases {
		if got := s.DetectClosure(c.message); got != c.want {
			t.Errorf("DetectClosure(%q) = %v, want %v", c.message, got, c.want)
		}
	}
}

func TestSelectTask_EmotionOutranksEverything(t *testing.T) {
	s := NewSelector(rand.New(rand.NewSource(1)))

	// Anxious wins even with an exhausted fatigue level and symptoms present.
	task := s.SelectTask("anxious", []string{"headache"}, "exhausted", 30)
	if !contains(careTasks["breathing"], task) {
		t.Errorf("Expected a breathing task for an anxious state, got %q", task)
	}
}

func TestSelectTask_FatigueBeforeSymptoms(t *testing.T) {
	s := NewSelector(rand.New(rand.NewSource(1)))

	task := s.SelectTask("", []string{"headache"}, "totally drained", 30)
	if !contains(careTasks["rest"], task) {
		t.Errorf("Expected a rest task for a drained state, got %q", task)
	}
}

func TestSelectTask_SymptomBucketOrder(t *testing.T) {
	s := NewSelector(rand.New(rand.NewSource(1)))

	// Nausea wins even when the headache was mentioned first.
	task := s.SelectTask("", []string{"headache", "nausea"}, "", 0)
	if !contains(careTasks["nutrition"], task) {
		t.Errorf("Expected a nutrition task when nausea is present, got %q", task)
	}

	task = s.SelectTask("", []string{"headache"}, "", 0)
	if !contains(careTasks["hydration"], task) {
		t.Errorf("Expected a hydration task for a headache, got %q", task)
	}
}

func TestSelectTask_TrimesterDefault(t *testing.T) {
	s := NewSelector(rand.New(rand.NewSource(1)))

	if task := s.SelectTask("", nil, "", 10); !contains(careTasks["rest"], task) {
		t.Errorf("Expected a rest task in the first trimester, got %q", task)
	}
	if task := s.SelectTask("", nil, "", 20); !contains(careTasks["movement"], task) {
		t.Errorf("Expected a movement task in the second trimester, got %q", task)
	}
	if task := s.SelectTask("", nil, "", 0); !contains(careTasks["hydration"], task) {
		t.Errorf("Expected the hydration fallback without a week, got %q", task)
	}
}

func TestSelectTask_AvoidsImmediateRepeat(t *testing.T) {
	s := NewSelector(rand.New(rand.NewSource(42)))

	first := s.SelectTask("anxious", nil, "", 0)
	for i := 0; i < 20; i++ {
		next := s.SelectTask("anxious", nil, "", 0)
		if next == first {
			t.Fatalf("Iteration %d repeated task %q", i, next)
		}
		first = next
	}
}

func TestFormatConfirmation(t *testing.T) {
	s := NewSelector(nil)

	synced := s.FormatConfirmation("Take 5 slow deep breaths", true)
	if !strings.Contains(synced, "Take 5 slow deep breaths") {
		t.Error("Expected the task in the synced confirmation")
	}
	if !strings.Contains(synced, "saved it to your task list") {
		t.Errorf("Expected the synced wording, got %q", synced)
	}

	unsynced := s.FormatConfirmation("Take 5 slow deep breaths", false)
	if !strings.Contains(unsynced, "wasn't able to sync it") {
		t.Errorf("Expected the unsynced wording, got %q", unsynced)
	}
}

func TestCreateTaskLogEntry(t *testing.T) {
	s := NewSelector(rand.New(rand.NewSource(1)))
	s.SelectTask("anxious", nil, "", 0)

	entry := s.CreateTaskLogEntry("Take 5 slow deep breaths", true, "thanks", map[string]any{"pregnancy_week": 20})

	if entry.Event != "end_of_conversation_task" {
		t.Errorf("Unexpected event name: %q", entry.Event)
	}
	if !entry.Synced || entry.TriggerPhrase != "thanks" {
		t.Errorf("Unexpected entry fields: %+v", entry)
	}
	if entry.AssignmentCount != 1 {
		t.Errorf("Expected assignment count 1, got %d", entry.AssignmentCount)
	}
	if entry.Timestamp.IsZero() {
		t.Error("Expected a timestamp")
	}
}

func TestStats(t *testing.T) {
	s := NewSelector(rand.New(rand.NewSource(1)))

	task := s.SelectTask("", nil, "", 0)
	total, last := s.Stats()
	if total != 1 || last != task {
		t.Errorf("Expected (1, %q), got (%d, %q)", task, total, last)
	}
}

func contains(tasks []string, task string) bool {
	for _, t := range tasks {
		if t == task {
			return true
		}
	}
	return false
}
