package wellness

import (
	"errors"
	"strings"
	"time"

	"github.com/harentsoaR/healthchain-api/internal/models"
)

const (
	DailyCalorieLimit = 2500.0
	// EntrySuggestion is returned whenever a nutrition entry is stored.
	EntrySuggestion = "Consider balancing your diet with more vegetables!"
)

type DailySummary struct {
	Calories   float64 `json:"calories"`
	Protein    float64 `json:"protein"`
	Fats       float64 `json:"fats"`
	Carbs      float64 `json:"carbs"`
	Suggestion string  `json:"suggestion"`
}

// StartOfDay returns local midnight of the day containing t.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// OnDay keeps the entries stamped within [midnight, next midnight) of the
// day containing now.
func OnDay(entries []models.NutritionEntry, now time.Time) []models.NutritionEntry {
	start := StartOfDay(now)
	end := start.AddDate(0, 0, 1)
	out := make([]models.NutritionEntry, 0, len(entries))
	for _, n := range entries {
		ts := n.Timestamp.In(now.Location())
		if ts.Before(start) || !ts.Before(end) {
			continue
		}
		out = append(out, n)
	}
	return out
}

// SummarizeDay totals the entries that fall on the same day as now.
func SummarizeDay(entries []models.NutritionEntry, now time.Time) DailySummary {
	var s DailySummary
	for _, n := range OnDay(entries, now) {
		s.Calories += n.Calories
		s.Protein += n.Protein
		s.Fats += n.Fats
		s.Carbs += n.Carbs
	}
	if s.Calories < DailyCalorieLimit {
		s.Suggestion = "You're on track!"
	} else {
		s.Suggestion = "Consider reducing calorie intake today."
	}
	return s
}

// InvalidLogMessage explains the accepted ranges to the client.
const InvalidLogMessage = "Invalid input: Sleep ≤ 10hrs, Water ≤ 5L, Exercise ≤ 300min"

var ErrInvalidLog = errors.New("health log out of range")

// ValidateLog checks that a health log stays within plausible daily ranges.
func ValidateLog(sleep, water, exercise float64) error {
	if sleep < 0 || water < 0 || exercise < 0 {
		return ErrInvalidLog
	}
	if sleep > 10 || water > 5 || exercise > 300 {
		return ErrInvalidLog
	}
	return nil
}

type MedicineSuggestion struct {
	Medicine string `json:"medicine"`
	Dosage   string `json:"dosage"`
}

var symptomRules = map[string]MedicineSuggestion{
	"fever":    {Medicine: "Paracetamol", Dosage: "500mg every 6 hours as needed"},
	"cough":    {Medicine: "Cough syrup", Dosage: "10ml every 8 hours as needed"},
	"headache": {Medicine: "Ibuprofen", Dosage: "200mg every 6 hours as needed"},
}

// SuggestMedicines maps known symptoms to over-the-counter suggestions, in
// symptom order.
func SuggestMedicines(symptoms []string) []MedicineSuggestion {
	out := []MedicineSuggestion{}
	for _, s := range symptoms {
		if rule, ok := symptomRules[strings.ToLower(strings.TrimSpace(s))]; ok {
			out = append(out, rule)
		}
	}
	return out
}
