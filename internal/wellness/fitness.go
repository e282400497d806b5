// Package wellness holds the fitness, nutrition and log heuristics.
package wellness

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/harentsoaR/healthchain-api/internal/models"
)

const (
	DefaultWeight    = 70.0
	CalorieThreshold = 2000.0
)

type Plan struct {
	Status                  string   `json:"status"`
	WorkoutSuggestion       string   `json:"workout_suggestion,omitempty"`
	EstimatedCaloriesBurned *float64 `json:"estimated_calories_burned,omitempty"`
	Weight                  *float64 `json:"weight,omitempty"`
	Goal                    string   `json:"goal,omitempty"`
	FitnessLevel            string   `json:"fitness_level,omitempty"`
	Message                 string   `json:"message,omitempty"`
	NutritionSummary        string   `json:"nutrition_summary,omitempty"`
}

// BuildPlan suggests a workout from the latest fitness entry and today's
// intake. latest may be nil.
func BuildPlan(latest *models.FitnessEntry, today []models.NutritionEntry) Plan {
	if latest == nil || latest.FitnessLevel == "" || latest.Goal == "" {
		return Plan{Status: "info", Message: "Please log a fitness session with goal and fitness level first."}
	}

	weight := DefaultWeight
	if latest.Weight != nil {
		weight = *latest.Weight
	}
	duration := float64(latest.Duration)
	if latest.Duration == 0 {
		duration = 30
	}

	var totalCalories, totalProtein float64
	for _, n := range today {
		totalCalories += n.Calories
		totalProtein += n.Protein
	}

	factor, modifier := 1.0, ""
	switch {
	case totalCalories > CalorieThreshold:
		factor, modifier = 1.2, " with increased intensity"
	case totalCalories < CalorieThreshold*0.8:
		factor, modifier = 0.8, " with lighter effort"
	}

	var suggestion string
	var met float64
	switch latest.Goal {
	case "lose weight":
		switch latest.FitnessLevel {
		case "beginner":
			suggestion, met = "30 minutes of brisk walking"+modifier, 3.0
		case "intermediate":
			suggestion, met = "20 minutes of jogging"+modifier, 7.0
		default:
			suggestion, met = "15 minutes of HIIT"+modifier, 8.0
		}
	case "gain muscle":
		suggestion = fmt.Sprintf("30 minutes of weightlifting%s (ensure %.0fg protein intake)", modifier, totalProtein*2.2)
		met = 5.0
	default:
		suggestion, met = "30 minutes of mixed cardio and strength"+modifier, 4.0
	}

	calories := round1(met * duration * weight * factor / 60)
	return Plan{
		Status:                  "success",
		WorkoutSuggestion:       suggestion,
		EstimatedCaloriesBurned: &calories,
		Weight:                  &weight,
		Goal:                    latest.Goal,
		FitnessLevel:            latest.FitnessLevel,
		NutritionSummary:        fmt.Sprintf("Today's Intake: %s kcal, Protein: %sg", formatAmount(totalCalories), formatAmount(totalProtein)),
	}
}

type WeeklyCalories struct {
	Week     string  `json:"week"`
	Calories float64 `json:"calories"`
}

type Trend struct {
	CurrentWeek   float64 `json:"current_week"`
	PreviousWeek  float64 `json:"previous_week"`
	ChangePercent float64 `json:"change_percent"`
}

type Progress struct {
	WeeklyCalories []WeeklyCalories `json:"weekly_calories"`
	DurationTrend  Trend            `json:"duration_trend"`
	IntensityTrend Trend            `json:"intensity_trend"`
}

// exerciseMET maps an exercise name to its metabolic equivalent.
func exerciseMET(name string) float64 {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "walking":
		return 3.0
	case "jogging":
		return 7.0
	case "hiit":
		return 8.0
	case "weightlifting":
		return 5.0
	default:
		return 3.0
	}
}

// WeekKey labels t with its ISO week, e.g. "2026-W07".
func WeekKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

type weekTotals struct {
	key       string
	duration  float64
	intensity float64
	calories  float64
	count     int
}

func (w *weekTotals) avgDuration() float64 {
	if w == nil || w.count == 0 {
		return 0
	}
	return w.duration / float64(w.count)
}

func (w *weekTotals) avgIntensity() float64 {
	if w == nil || w.count == 0 {
		return 0
	}
	return w.intensity / float64(w.count)
}

// BuildProgress groups entries by ISO week, newest first, and compares the
// two most recent weeks.
func BuildProgress(entries []models.FitnessEntry) Progress {
	byWeek := map[string]*weekTotals{}
	for _, e := range entries {
		key := WeekKey(e.Timestamp)
		w, ok := byWeek[key]
		if !ok {
			w = &weekTotals{key: key}
			byWeek[key] = w
		}
		weight := DefaultWeight
		if e.Weight != nil {
			weight = *e.Weight
		}
		w.duration += float64(e.Duration)
		w.intensity += float64(e.Intensity)
		w.calories += exerciseMET(e.ExerciseName) * float64(e.Duration) * weight
		w.count++
	}

	weeks := make([]*weekTotals, 0, len(byWeek))
	for _, w := range byWeek {
		weeks = append(weeks, w)
	}
	sort.Slice(weeks, func(i, j int) bool { return weeks[i].key > weeks[j].key })

	progress := Progress{WeeklyCalories: []WeeklyCalories{}}
	if len(weeks) == 0 {
		return progress
	}
	for i, w := range weeks {
		if i == 4 {
			break
		}
		progress.WeeklyCalories = append(progress.WeeklyCalories, WeeklyCalories{Week: w.key, Calories: w.calories / 60})
	}

	current := weeks[0]
	var previous *weekTotals
	if len(weeks) > 1 {
		previous = weeks[1]
	}
	progress.DurationTrend = newTrend(current.avgDuration(), previous.avgDuration())
	progress.IntensityTrend = newTrend(current.avgIntensity(), previous.avgIntensity())
	return progress
}

func newTrend(current, previous float64) Trend {
	t := Trend{CurrentWeek: current, PreviousWeek: previous}
	if current != 0 && previous != 0 {
		t.ChangePercent = (current - previous) / previous * 100
	}
	return t
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
