package forms

import (
	"math"
	"strconv"
	"strings"

	"github.com/2beens/gymlogger/internal/entries"
)

// SetInput holds the raw text of one weightlifting row.
type SetInput struct {
	Weight string
	Reps   string
	Sets   string
}

// Complete reports whether all three fields are filled in.
func (s SetInput) Complete() bool {
	return strings.TrimSpace(s.Weight) != "" &&
		strings.TrimSpace(s.Reps) != "" &&
		strings.TrimSpace(s.Sets) != ""
}

type Row struct {
	Exercise string
	Input    SetInput
}

type WeightliftingForm struct {
	Category  string
	exercises []string
	inputs    map[string]SetInput
}

func NewWeightliftingForm(category string) *WeightliftingForm {
	exercises := Exercises(category)
	inputs := make(map[string]SetInput, len(exercises))
	for _, e := range exercises {
		inputs[e] = SetInput{}
	}
	return &WeightliftingForm{
		Category:  category,
		exercises: exercises,
		inputs:    inputs,
	}
}

// Set stores the inputs of one exercise. Exercises outside the category
// are ignored.
func (f *WeightliftingForm) Set(exercise string, in SetInput) bool {
	if _, ok := f.inputs[exercise]; !ok {
		return false
	}
	f.inputs[exercise] = in
	return true
}

func (f *WeightliftingForm) Input(exercise string) SetInput {
	return f.inputs[exercise]
}

func (f *WeightliftingForm) Clear(exercise string) {
	if _, ok := f.inputs[exercise]; ok {
		f.inputs[exercise] = SetInput{}
	}
}

func (f *WeightliftingForm) Rows() []Row {
	rows := make([]Row, 0, len(f.exercises))
	for _, e := range f.exercises {
		rows = append(rows, Row{Exercise: e, Input: f.inputs[e]})
	}
	return rows
}

// Build turns the complete rows into records, in catalogue order. Rows
// with a missing field are skipped and keep their inputs.
func (f *WeightliftingForm) Build() ([]*entries.Weightlifting, error) {
	var lifts []*entries.Weightlifting
	for _, exercise := range f.exercises {
		in := f.inputs[exercise]
		if !in.Complete() {
			continue
		}

		weight, err := parseNumber(exercise, "weight", in.Weight)
		if err != nil {
			return nil, err
		}
		reps, err := parseCount(exercise, "reps", in.Reps)
		if err != nil {
			return nil, err
		}
		sets, err := parseCount(exercise, "sets", in.Sets)
		if err != nil {
			return nil, err
		}

		lifts = append(lifts, &entries.Weightlifting{
			Exercise: exercise,
			Category: f.Category,
			Sets:     sets,
			Reps:     reps,
			Weight:   weight,
		})
	}

	if len(lifts) == 0 {
		return nil, ErrNothingToLog
	}
	return lifts, nil
}

type BodyWeightForm struct {
	Weight string
}

func (f *BodyWeightForm) Build() (*entries.BodyWeight, error) {
	if strings.TrimSpace(f.Weight) == "" {
		return nil, ErrWeightMissing
	}
	weight, err := parseNumber("", "weight", f.Weight)
	if err != nil {
		return nil, err
	}
	if weight == 0 {
		return nil, &ValidationError{Field: "weight", Value: f.Weight, Reason: "must be greater than 0"}
	}
	return &entries.BodyWeight{Weight: weight}, nil
}

func (f *BodyWeightForm) Clear() {
	f.Weight = ""
}

type CardioForm struct {
	Section  entries.CardioSubtype
	Time     string
	Distance string
	Interval string
	Power    string
}

func NewCardioForm() *CardioForm {
	return &CardioForm{Section: entries.CardioRunning}
}

func (f *CardioForm) Build() (*entries.Cardio, error) {
	switch f.Section {
	case entries.CardioRunning:
		if strings.TrimSpace(f.Time) == "" || strings.TrimSpace(f.Distance) == "" {
			return nil, ErrRunningIncomplete
		}
		minutes, err := parseNumber("", "time", f.Time)
		if err != nil {
			return nil, err
		}
		distance, err := parseNumber("", "distance", f.Distance)
		if err != nil {
			return nil, err
		}
		return &entries.Cardio{Subtype: entries.CardioRunning, Time: minutes, Distance: distance}, nil

	case entries.CardioSprints:
		if strings.TrimSpace(f.Interval) == "" || strings.TrimSpace(f.Power) == "" {
			return nil, ErrSprintsIncomplete
		}
		power, err := parseNumber("", "power", f.Power)
		if err != nil {
			return nil, err
		}
		return &entries.Cardio{Subtype: entries.CardioSprints, Interval: strings.TrimSpace(f.Interval), Power: power}, nil

	default:
		return nil, ErrUnknownSection
	}
}

// Clear empties every cardio input but keeps the selected section.
func (f *CardioForm) Clear() {
	f.Time, f.Distance, f.Interval, f.Power = "", "", "", ""
}

func parseNumber(exercise, field, raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &ValidationError{Exercise: exercise, Field: field, Value: raw, Reason: "not a number"}
	}
	if v < 0 {
		return 0, &ValidationError{Exercise: exercise, Field: field, Value: raw, Reason: "must not be negative"}
	}
	return v, nil
}

func parseCount(exercise, field, raw string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, &ValidationError{Exercise: exercise, Field: field, Value: raw, Reason: "not a whole number"}
	}
	if v < 1 {
		return 0, &ValidationError{Exercise: exercise, Field: field, Value: raw, Reason: "must be at least 1"}
	}
	return v, nil
}
