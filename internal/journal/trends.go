package journal

import (
	"fmt"
	"strings"
	"time"
)

// counter is a frequency table that remembers insertion order so that ties
// resolve to the first value encountered.
type counter struct {
	keys   []string
	counts map[string]int
}

func newCounter() *counter {
	return &counter{counts: map[string]int{}}
}

func (c *counter) add(key string) {
	if _, seen := c.counts[key]; !seen {
		c.keys = append(c.keys, key)
	}
	c.counts[key]++
}

func (c *counter) mostCommon() (key string, count int) {
	for _, k := range c.keys {
		if c.counts[k] > count {
			key, count = k, c.counts[k]
		}
	}
	return key, count
}

// WeeklyReport renders a natural-language summary of the entries from the
// past seven days. The sentence order and their inclusion conditions are
// fixed; changing either changes the spoken report shape.
func WeeklyReport(history []Entry, now time.Time) string {
	if len(history) == 0 {
		return "You don't have any journal entries yet. Let's start tracking your pregnancy journey!"
	}

	weekAgo := now.AddDate(0, 0, -7)
	var recent []Entry
	for _, entry := range history {
		if entry.CreatedAt.IsZero() {
			continue
		}
		if !entry.CreatedAt.Before(weekAgo) {
			recent = append(recent, entry)
		}
	}

	if len(recent) == 0 {
		return "You don't have any entries from the past week. Let's start fresh today!"
	}

	emotions := newCounter()
	symptoms := newCounter()
	nutritionCount := 0
	taskCount := 0

	for _, entry := range recent {
		if entry.EmotionalState != "" {
			emotions.add(entry.EmotionalState)
		}
		for _, sym := range entry.Symptoms {
			symptoms.add(sym.Symptom)
		}
		nutritionCount += len(entry.NutritionNotes)
		taskCount += len(entry.Tasks)
	}

	streak := len(recent)
	var parts []string

	switch {
	case streak == 1:
		parts = append(parts, "You've updated once this week.")
	case streak >= 5:
		parts = append(parts, fmt.Sprintf("Amazing! You've checked in %d times this week.", streak))
	default:
		parts = append(parts, fmt.Sprintf("You've checked in %d times this week.", streak))
	}

	if emotion, count := emotions.mostCommon(); count > 1 {
		parts = append(parts, fmt.Sprintf("Emotionally, you've been feeling %s most often.", emotion))
	} else if count == 1 {
		parts = append(parts, fmt.Sprintf("Your emotional state has been %s.", emotion))
	}

	if symptom, count := symptoms.mostCommon(); count > 1 {
		parts = append(parts, fmt.Sprintf("The most common symptom was %s, which you mentioned %d times.", symptom, count))
	} else if count == 1 {
		parts = append(parts, fmt.Sprintf("You mentioned %s as a symptom.", symptom))
	}

	if nutritionCount > 0 {
		parts = append(parts, fmt.Sprintf("You asked about nutrition %d times - great job staying informed!", nutritionCount))
	}

	if taskCount > 0 {
		parts = append(parts, fmt.Sprintf("You set %d pregnancy care tasks.", taskCount))
	}

	if streak >= 3 {
		parts = append(parts, "You're doing wonderful staying connected with your pregnancy journey!")
	}

	return strings.Join(parts, " ")
}
