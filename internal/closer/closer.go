package closer

import (
	"log"
	"math/rand"
	"strings"
	"time"
)

// closurePhrases trigger end-of-conversation handling. Matching is exact or
// containment, case-insensitive, with sentence punctuation stripped first.
var closurePhrases = []string{
	"thank you", "thanks", "thank u", "thx", "ty",
	"done", "i'm done", "that's all", "that's it",
	"ok", "okay", "ok thanks", "okay thanks",
	"got it", "understood", "appreciate it",
	"bye", "goodbye", "see you", "talk later",
	"that helps", "perfect", "sounds good",
}

// careTasks is the fixed category taxonomy of small care tasks.
var careTasks = map[string][]string{
	"hydration": {
		"Drink one glass of water now",
		"Have a glass of water before your next meal",
		"Sip some water slowly right now",
	},
	"rest": {
		"Rest on your left side for 10 minutes",
		"Lie down and elevate your feet for 5 minutes",
		"Take a 10-minute rest break",
	},
	"breathing": {
		"Take 5 slow deep breaths",
		"Practice 3 minutes of calm breathing",
		"Do 5 deep belly breaths",
	},
	"nutrition": {
		"Eat something light like fruit or nuts",
		"Have a healthy snack within the hour",
		"Eat a small protein-rich snack",
	},
	"connection": {
		"Send a message to someone you trust",
		"Call or text a loved one",
		"Share something positive with your partner",
	},
	"movement": {
		"Take a gentle 5-minute walk",
		"Do 3 gentle stretches",
		"Stand up and move around for 2 minutes",
	},
	"self_care": {
		"Put your feet up and relax for 5 minutes",
		"Listen to calming music for 10 minutes",
		"Write down one thing you're grateful for",
	},
}

// TaskLogEntry is an immutable audit record of one task assignment.
type TaskLogEntry struct {
	Timestamp       time.Time      `json:"timestamp"`
	Event           string         `json:"event"`
	Task            string         `json:"task"`
	Synced          bool           `json:"synced"`
	TriggerPhrase   string         `json:"trigger_phrase"`
	Context         map[string]any `json:"context"`
	AssignmentCount int            `json:"assignment_count"`
}

// Selector detects conversational closure and picks a small actionable care
// task for the way out. Last-task memory and the assignment counter live for
// the process lifetime only.
type Selector struct {
	rng              *rand.Rand
	lastTaskAssigned string
	assignmentCount  int
	now              func() time.Time
}

// NewSelector creates a Selector. A nil rng gets a time-seeded source; tests
// inject a fixed seed for determinism.
func NewSelector(rng *rand.Rand) *Selector {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Selector{rng: rng, now: time.Now}
}

// DetectClosure reports whether a message signals the conversation is ending.
func (s *Selector) DetectClosure(message string) bool {
	clean := strings.ToLower(strings.TrimSpace(message))
	clean = strings.NewReplacer(".", "", "!", "", "?", "").Replace(clean)

	for _, phrase := range closurePhrases {
		if phrase == clean || strings.Contains(clean, phrase) {
			log.Printf("Closure detected: %q matched %q", message, phrase)
			return true
		}
	}
	return false
}

// SelectTask picks a care task for the current context. The category comes
// from a strict priority order: emotion buckets, then fatigue, then symptoms,
// then a trimester default, then hydration. Within the category the pick is
// uniform, with a single re-pick when it would repeat the previous task.
func (s *Selector) SelectTask(emotionalState string, symptoms []string, fatigueLevel string, pregnancyWeek int) string {
	category := determineCategory(emotionalState, symptoms, fatigueLevel, pregnancyWeek)

	tasks, ok := careTasks[category]
	if !ok || len(tasks) == 0 {
		tasks = careTasks["hydration"]
	}

	task := tasks[s.rng.Intn(len(tasks))]
	if task == s.lastTaskAssigned && len(tasks) > 1 {
		remaining := make([]string, 0, len(tasks)-1)
		for _, t := range tasks {
			if t != task {
				remaining = append(remaining, t)
			}
		}
		task = remaining[s.rng.Intn(len(remaining))]
	}

	s.lastTaskAssigned = task
	s.assignmentCount++

	log.Printf("Selected task (category: %s): %s", category, task)
	return task
}

func determineCategory(emotionalState string, symptoms []string, fatigueLevel string, pregnancyWeek int) string {
	if emotionalState != "" {
		emotion := strings.ToLower(emotionalState)
		switch {
		case containsAny(emotion, "anxious", "stressed", "overwhelmed", "worried"):
			return "breathing"
		case containsAny(emotion, "sad", "lonely", "isolated"):
			return "connection"
		case containsAny(emotion, "tired", "exhausted"):
			return "rest"
		}
	}

	if fatigueLevel != "" {
		fatigue := strings.ToLower(fatigueLevel)
		switch {
		case containsAny(fatigue, "exhausted", "drained", "very tired"):
			return "rest"
		case containsAny(fatigue, "energetic", "good"):
			return "movement"
		}
	}

	if len(symptoms) > 0 {
		lowered := make([]string, len(symptoms))
		for i, raw := range symptoms {
			lowered[i] = strings.ToLower(raw)
		}
		// Bucket order outranks symptom order: nausea wins even when a
		// headache was mentioned first.
		switch {
		case anyContains(lowered, "nausea", "sick"):
			return "nutrition"
		case anyContains(lowered, "back pain", "pain"):
			return "rest"
		case anyContains(lowered, "headache"):
			return "hydration"
		}
	}

	if pregnancyWeek > 0 {
		switch {
		case pregnancyWeek <= 13:
			return "rest"
		case pregnancyWeek <= 27:
			return "movement"
		default:
			return "rest"
		}
	}

	return "hydration"
}

// FormatConfirmation renders the closing message. The two templates differ
// only by whether the task-tracker sync succeeded; both embed the task text.
func (s *Selector) FormatConfirmation(task string, syncSucceeded bool) string {
	if syncSucceeded {
		return "Before you go, I've added one small care task for you today:\n\n" +
			task + "\n\n" +
			"I've saved it to your task list for you.\n\n" +
			"Take care and check back anytime."
	}
	return "I saved a small care task for you here:\n\n" +
		task + "\n\n" +
		"I wasn't able to sync it to your task list, but it's safe here for you."
}

// CreateTaskLogEntry builds the audit record for a task assignment. It only
// reads the running counter; nothing is mutated.
func (s *Selector) CreateTaskLogEntry(task string, syncSucceeded bool, triggerPhrase string, context map[string]any) TaskLogEntry {
	return TaskLogEntry{
		Timestamp:       s.now(),
		Event:           "end_of_conversation_task",
		Task:            task,
		Synced:          syncSucceeded,
		TriggerPhrase:   triggerPhrase,
		Context:         context,
		AssignmentCount: s.assignmentCount,
	}
}

// Stats reports process-lifetime assignment totals.
func (s *Selector) Stats() (totalAssignments int, lastTask string) {
	return s.assignmentCount, s.lastTaskAssigned
}

func anyContains(texts []string, words ...string) bool {
	for _, t := range texts {
		if containsAny(t, words...) {
			return true
		}
	}
	return false
}

func containsAny(text string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}
