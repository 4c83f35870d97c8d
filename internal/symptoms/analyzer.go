package symptoms

import (
	"log"
	"strings"

	"pregnancy-companion/internal/refdata"
)

const genericResponse = "I hear you. Every pregnancy is unique. If this symptom is concerning you " +
	"or getting worse, it's always best to check with your healthcare provider. " +
	"They know your specific situation best."

const defaultEscalation = "Please contact your healthcare provider immediately."

// Analyzer classifies free-text symptom reports. Emergency keywords win over
// everything else; the rules are an ordered list evaluated short-circuit, so
// the stored keyword order decides ties.
type Analyzer struct {
	guide *refdata.SymptomGuide
}

// NewAnalyzer creates an Analyzer over the given symptom guide.
func NewAnalyzer(guide *refdata.SymptomGuide) *Analyzer {
	return &Analyzer{guide: guide}
}

// Analyze scans a symptom description and returns whether it is an emergency
// together with the spoken response. It never fails: unmatched input gets a
// generic supportive response. The caller is responsible for logging the
// symptom into the journal entry exactly once per report.
func (a *Analyzer) Analyze(symptomText string, trimester int) (emergency bool, response string) {
	lower := strings.ToLower(symptomText)

	for _, keyword := range a.guide.EmergencyKeywords {
		if strings.Contains(lower, keyword) {
			log.Printf("Emergency keyword detected: %s", keyword)
			return true, a.EscalationMessage()
		}
	}

	for _, known := range a.guide.SymptomsForTrimester(trimester) {
		if strings.Contains(lower, known.Symptom) {
			return false, known.Response
		}
	}

	return false, genericResponse
}

// EscalationMessage returns the configured escalation message, or a built-in
// default when the guide doesn't carry one.
func (a *Analyzer) EscalationMessage() string {
	if a.guide.EscalationMessage != "" {
		return a.guide.EscalationMessage
	}
	return defaultEscalation
}
