package app

import (
	"fmt"
	"log"
	"strings"
	"time"

	"pregnancy-companion/internal/closer"
	"pregnancy-companion/internal/journal"
	"pregnancy-companion/internal/nutrition"
	"pregnancy-companion/internal/profile"
	"pregnancy-companion/internal/symptoms"
	"pregnancy-companion/internal/tasktracker"

	notesdb "pregnancy-companion/internal/notes"
)

// TaskLogSink stores closing-task audit records.
type TaskLogSink interface {
	Append(closer.TaskLogEntry) error
}

// App wires the decision core to the dialogue driver and the external sinks.
// It owns one conversation session; all operations are synchronous and
// complete within a single turn.
type App struct {
	Profile  *profile.Manager
	Session  *journal.Session
	analyzer *symptoms.Analyzer
	advisor  *nutrition.Advisor
	selector *closer.Selector
	history  journal.HistoryStore

	tracker tasktracker.Client
	notes   notesdb.Client
	taskLog TaskLogSink
}

// NewApp creates and initializes a new App instance.
func NewApp(
	profileMgr *profile.Manager,
	session *journal.Session,
	analyzer *symptoms.Analyzer,
	advisor *nutrition.Advisor,
	selector *closer.Selector,
	history journal.HistoryStore,
	tracker tasktracker.Client,
	notes notesdb.Client,
	taskLog TaskLogSink,
) *App {
	return &App{
		Profile:  profileMgr,
		Session:  session,
		analyzer: analyzer,
		advisor:  advisor,
		selector: selector,
		history:  history,
		tracker:  tracker,
		notes:    notes,
		taskLog:  taskLog,
	}
}

// Greeting builds the conversation opener from the week facts and the most
// recent journal entry.
func (a *App) Greeting() string {
	var greeting string
	if info := a.Profile.WeekInfo(); info != nil {
		greeting = fmt.Sprintf(
			"Hi! Welcome to your pregnancy update. You're in week %d of trimester %d. "+
				"Your baby is about the size of a %s. How are you feeling today? Any symptoms?",
			info.Week, info.Trimester, info.BabySize)
	} else {
		greeting = "Hi! Welcome to your pregnancy companion. I'm here to support you through your journey. " +
			"How are you feeling today?"
	}

	if entries, err := a.history.Load(); err == nil && len(entries) > 0 {
		if emotion := entries[len(entries)-1].EmotionalState; emotion != "" {
			greeting += fmt.Sprintf(" Last time you were feeling %s.", emotion)
		}
	}
	return greeting
}

// HandleSymptom classifies a reported symptom, logs it into the in-progress
// entry exactly once, and returns the spoken reply. Emergencies get the
// escalation message with no follow-up prompt.
func (a *App) HandleSymptom(symptom string) (reply string, emergency bool) {
	trimester := a.currentTrimester()
	emergency, response := a.analyzer.Analyze(symptom, trimester)
	a.Session.RecordSymptom(symptom, emergency)

	if emergency {
		return response, true
	}
	return response + " Now, how's your emotional state today?", false
}

// HandleEmotion records the emotional state.
func (a *App) HandleEmotion(emotion string) string {
	return a.Session.RecordEmotion(emotion)
}

// HandleFatigue records the fatigue level.
func (a *App) HandleFatigue(fatigue string) string {
	return a.Session.RecordFatigue(fatigue)
}

// HandleFood answers a food question. Short queries get a safety check;
// longer ones get trimester recommendations. Either way the exchange is
// logged as a nutrition note.
func (a *App) HandleFood(query string) string {
	var response string
	if len(strings.Fields(query)) <= 3 {
		_, response = a.advisor.CheckFoodSafety(query)
	} else {
		response = a.advisor.SafeRecommendationsText(a.currentTrimester(), 3)
	}
	a.Session.RecordNutritionNote(query, response)

	return response + " Now, any pregnancy care tasks for today? Keep it to two or three things."
}

// Recommendations returns up to limit safe foods for the current trimester.
func (a *App) Recommendations(limit int) string {
	return a.advisor.SafeRecommendationsText(a.currentTrimester(), limit)
}

// HandleTasks records the comma-separated care tasks.
func (a *App) HandleTasks(tasksCSV string) string {
	return a.Session.RecordTasks(tasksCSV)
}

// Recap renders the pre-save recap.
func (a *App) Recap() string {
	return a.Session.Recap()
}

// SaveJournal persists the in-progress entry and relays it to the notes
// database. The relay is fire-and-forget: a sink failure is logged and the
// save still counts.
func (a *App) SaveJournal() (reply string, saved *journal.Entry) {
	reply, saved = a.Session.Save()
	if saved == nil {
		return reply, nil
	}

	if a.notes != nil {
		if page, err := a.notes.SaveEntry(*saved); err != nil {
			log.Printf("Warning: failed to relay entry to notes database: %v", err)
		} else {
			log.Printf("Journal entry relayed to notes page %s", page.ID)
		}
	}
	return reply, saved
}

// WeeklyReport renders the rolling seven-day trend summary.
func (a *App) WeeklyReport() string {
	entries, err := a.history.Load()
	if err != nil {
		log.Printf("Warning: failed to load journal history: %v", err)
		return "I couldn't load your pregnancy journal right now."
	}
	return journal.WeeklyReport(entries, time.Now())
}

// DetectClosure reports whether the message ends the conversation.
func (a *App) DetectClosure(message string) bool {
	return a.selector.DetectClosure(message)
}

// HandleClosure selects a context-aware care task, syncs it to the task
// tracker, appends the audit record, and returns the closing confirmation.
func (a *App) HandleClosure(message string) string {
	week, _, _ := a.Profile.CurrentWeek()

	var symptomNames []string
	for _, s := range a.Session.Symptoms() {
		symptomNames = append(symptomNames, s.Symptom)
	}

	task := a.selector.SelectTask(a.Session.Emotion(), symptomNames, a.Session.Fatigue(), week)

	synced := false
	if a.tracker != nil {
		synced = a.tracker.CreateTasks([]string{task}) == 1
	}

	entry := a.selector.CreateTaskLogEntry(task, synced, message, map[string]any{
		"emotional_state": a.Session.Emotion(),
		"fatigue_level":   a.Session.Fatigue(),
		"symptoms":        symptomNames,
		"pregnancy_week":  week,
	})
	if a.taskLog != nil {
		if err := a.taskLog.Append(entry); err != nil {
			log.Printf("Warning: failed to append task log entry: %v", err)
		}
	}

	return a.selector.FormatConfirmation(task, synced)
}

// SyncTasksToTracker pushes the current (or latest saved) care tasks to the
// task tracker and returns the spoken confirmation.
func (a *App) SyncTasksToTracker() string {
	tasks := a.Session.Tasks()
	if len(tasks) == 0 {
		if entries, err := a.history.Load(); err == nil && len(entries) > 0 {
			tasks = entries[len(entries)-1].Tasks
		}
	}
	if len(tasks) == 0 {
		return "I don't see any pregnancy care tasks to create reminders from. Would you like to set some tasks first?"
	}
	if a.tracker == nil {
		return "I'm having trouble connecting to your task list right now."
	}

	created := a.tracker.CreateTasks(tasks)
	switch {
	case created == 0:
		return "I had trouble creating those reminders. Please check your task list connection."
	case created == 1:
		return "Perfect! Your pregnancy reminder has been saved to your task list. Take care!"
	default:
		return fmt.Sprintf("Wonderful! All %d pregnancy reminders have been saved to your task list. Take care of yourself!", created)
	}
}

// WeekSummary renders the current week facts for the /week command.
func (a *App) WeekSummary() string {
	info := a.Profile.WeekInfo()
	if info == nil {
		return "I don't know your pregnancy week yet. Share your due date or the first day of your last period and I'll work it out."
	}
	return fmt.Sprintf(
		"You're in week %d, trimester %d. Your baby is about the size of a %s. %s Tip: %s",
		info.Week, info.Trimester, info.BabySize, info.KeyDevelopments, info.Tips)
}

func (a *App) currentTrimester() int {
	_, trimester, ok := a.Profile.CurrentWeek()
	if !ok {
		return 1
	}
	return trimester
}
