package symptoms

import (
	"strings"
	"testing"

	"pregnancy-companion/internal/refdata"
)

func testGuide() *refdata.SymptomGuide {
	return &refdata.SymptomGuide{
		EmergencyKeywords: []string{"heavy bleeding", "bleeding", "severe pain"},
		EscalationMessage: "Please call your provider right away.",
		CommonSymptoms: map[string][]refdata.CommonSymptom{
			"trimester_1": {
				{Symptom: "nausea", Response: "Morning sickness is very common."},
				{Symptom: "fatigue", Response: "Rest whenever you can."},
			},
			"trimester_3": {
				{Symptom: "swelling", Response: "Elevate your feet."},
			},
		},
	}
}

func TestAnalyze_EmergencyKeyword(t *testing.T) {
	a := NewAnalyzer(testGuide())

	emergency, response := a.Analyze("I noticed some heavy bleeding this morning", 1)
	if !emergency {
		t.Fatal("Expected an emergency classification")
	}
	if response != "Please call your provider right away." {
		t.Errorf("Expected the escalation message, got %q", response)
	}
}

func TestAnalyze_EmergencyOutranksKnownSymptom(t *testing.T) {
	a := NewAnalyzer(testGuide())

	// "nausea" is a known symptom but "bleeding" must win.
	emergency, _ := a.Analyze("nausea and a little bleeding", 1)
	if !emergency {
		t.Error("Expected the emergency scan to run before the symptom scan")
	}
}

func TestAnalyze_KnownSymptom(t *testing.T) {
	a := NewAnalyzer(testGuide())

	emergency, response := a.Analyze("I've had NAUSEA all day", 1)
	if emergency {
		t.Fatal("Did not expect an emergency")
	}
	if response != "Morning sickness is very common." {
		t.Errorf("Expected the scripted nausea response, got %q", response)
	}
}

func TestAnalyze_TrimesterScopesSymptoms(t *testing.T) {
	a := NewAnalyzer(testGuide())

	_, response := a.Analyze("some swelling in my ankles", 3)
	if response != "Elevate your feet." {
		t.Errorf("Expected the trimester 3 swelling response, got %q", response)
	}

	// Trimester 1 has no swelling rule, so the generic response applies.
	_, response = a.Analyze("some swelling in my ankles", 1)
	if !strings.Contains(response, "Every pregnancy is unique") {
		t.Errorf("Expected the generic response, got %q", response)
	}
}

func TestAnalyze_UnknownSymptomNeverFails(t *testing.T) {
	a := NewAnalyzer(testGuide())

	emergency, response := a.Analyze("my elbow itches", 2)
	if emergency {
		t.Error("Unknown symptoms must not escalate")
	}
	if response == "" {
		t.Error("Expected a supportive response for an unknown symptom")
	}
}

func TestEscalationMessage_Default(t *testing.T) {
	a := NewAnalyzer(&refdata.SymptomGuide{})

	if a.EscalationMessage() != defaultEscalation {
		t.Errorf("Expected the built-in escalation default, got %q", a.EscalationMessage())
	}
}
