package entries

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

// Kind can be one of:
//   - weightlifting
//   - body_weight
//   - cardio
type Kind string

const (
	KindWeightlifting Kind = "weightlifting"
	KindBodyWeight    Kind = "body_weight"
	KindCardio        Kind = "cardio"
)

// AllKinds lists kinds in the order the dashboard and the sync use them.
var AllKinds = []Kind{KindWeightlifting, KindBodyWeight, KindCardio}

func (k Kind) String() string {
	return string(k)
}

func (k Kind) IsValid() bool {
	switch k {
	case KindWeightlifting, KindBodyWeight, KindCardio:
		return true
	default:
		return false
	}
}

// Title is the human label used in messages and page headers.
func (k Kind) Title() string {
	switch k {
	case KindWeightlifting:
		return "Weightlifting"
	case KindBodyWeight:
		return "Body weight"
	case KindCardio:
		return "Cardio"
	default:
		return string(k)
	}
}

type CardioSubtype string

const (
	CardioRunning CardioSubtype = "running"
	CardioSprints CardioSubtype = "sprints"
)

func (s CardioSubtype) IsValid() bool {
	return s == CardioRunning || s == CardioSprints
}

var ErrInvalidEntry = errors.New("invalid entry")

// Details is the variant part of an Entry. It is implemented only by
// *Weightlifting, *BodyWeight and *Cardio.
type Details interface {
	Kind() Kind
	Validate() error
	isDetails()
}

type Weightlifting struct {
	Exercise string  `json:"exercise"`
	Category string  `json:"category"`
	Sets     int     `json:"sets"`
	Reps     int     `json:"reps"`
	Weight   float64 `json:"weight"`
}

func (*Weightlifting) Kind() Kind { return KindWeightlifting }
func (*Weightlifting) isDetails() {}

func (w *Weightlifting) Validate() error {
	switch {
	case strings.TrimSpace(w.Exercise) == "":
		return fmt.Errorf("%w: exercise empty", ErrInvalidEntry)
	case strings.TrimSpace(w.Category) == "":
		return fmt.Errorf("%w: category empty", ErrInvalidEntry)
	case w.Sets < 1:
		return fmt.Errorf("%w: sets must be at least 1", ErrInvalidEntry)
	case w.Reps < 1:
		return fmt.Errorf("%w: reps must be at least 1", ErrInvalidEntry)
	case w.Weight < 0:
		return fmt.Errorf("%w: weight negative", ErrInvalidEntry)
	}
	return nil
}

type BodyWeight struct {
	Weight float64 `json:"weight"`
}

func (*BodyWeight) Kind() Kind { return KindBodyWeight }
func (*BodyWeight) isDetails() {}

func (b *BodyWeight) Validate() error {
	if b.Weight <= 0 {
		return fmt.Errorf("%w: body weight must be positive", ErrInvalidEntry)
	}
	return nil
}

// Cardio is either a running session (Time in minutes, Distance in km) or
// a sprints session (Interval as active/rest text, Power in watts).
type Cardio struct {
	Subtype  CardioSubtype `json:"subtype"`
	Time     float64       `json:"time,omitempty"`
	Distance float64       `json:"distance,omitempty"`
	Interval string        `json:"interval,omitempty"`
	Power    float64       `json:"power,omitempty"`
}

func (*Cardio) Kind() Kind { return KindCardio }
func (*Cardio) isDetails() {}

func (c *Cardio) Validate() error {
	switch c.Subtype {
	case CardioRunning:
		if c.Time < 0 || c.Distance < 0 {
			return fmt.Errorf("%w: running time and distance must not be negative", ErrInvalidEntry)
		}
	case CardioSprints:
		if strings.TrimSpace(c.Interval) == "" {
			return fmt.Errorf("%w: sprints interval empty", ErrInvalidEntry)
		}
		if c.Power < 0 {
			return fmt.Errorf("%w: sprints power negative", ErrInvalidEntry)
		}
	default:
		return fmt.Errorf("%w: unknown cardio subtype [%s]", ErrInvalidEntry, c.Subtype)
	}
	return nil
}

// Entry is one logged record. ID stays empty until the entries service
// acknowledges the creation.
type Entry struct {
	ID        string
	Date      string
	Timestamp time.Time
	Details   Details
}

// New stamps a not-yet-stored entry. Date and Timestamp come from the same
// clock reading, with Date taken in loc.
func New(details Details, now time.Time, loc *time.Location) Entry {
	if loc == nil {
		loc = time.Local
	}
	return Entry{
		Date:      now.In(loc).Format(DateLayout),
		Timestamp: now,
		Details:   details,
	}
}

func (e Entry) Kind() Kind {
	if e.Details == nil {
		return ""
	}
	return e.Details.Kind()
}

func (e Entry) Validate() error {
	if e.Details == nil {
		return fmt.Errorf("%w: no details", ErrInvalidEntry)
	}
	if _, err := time.Parse(DateLayout, e.Date); err != nil {
		return fmt.Errorf("%w: date [%s] not in YYYY-MM-DD format", ErrInvalidEntry, e.Date)
	}
	if e.Timestamp.IsZero() {
		return fmt.Errorf("%w: timestamp missing", ErrInvalidEntry)
	}
	return e.Details.Validate()
}

// WithID returns a copy of the entry carrying the server assigned id.
func (e Entry) WithID(id string) Entry {
	e.ID = id
	return e
}

type entryHeader struct {
	ID        json.RawMessage `json:"id,omitempty"`
	Type      Kind            `json:"type"`
	Date      string          `json:"date"`
	Timestamp time.Time       `json:"timestamp"`
}

func (e Entry) MarshalJSON() ([]byte, error) {
	fields := map[string]any{
		"type":      e.Kind(),
		"date":      e.Date,
		"timestamp": e.Timestamp,
	}
	if e.ID != "" {
		fields["id"] = e.ID
	}

	switch d := e.Details.(type) {
	case *Weightlifting:
		fields["exercise"] = d.Exercise
		fields["category"] = d.Category
		fields["sets"] = d.Sets
		fields["reps"] = d.Reps
		fields["weight"] = d.Weight
	case *BodyWeight:
		fields["weight"] = d.Weight
	case *Cardio:
		fields["subtype"] = d.Subtype
		switch d.Subtype {
		case CardioRunning:
			fields["time"] = d.Time
			fields["distance"] = d.Distance
		case CardioSprints:
			fields["interval"] = d.Interval
			fields["power"] = d.Power
		}
	case nil:
		return nil, fmt.Errorf("%w: no details", ErrInvalidEntry)
	default:
		return nil, fmt.Errorf("%w: unexpected details %T", ErrInvalidEntry, d)
	}

	return json.Marshal(fields)
}

func (e *Entry) UnmarshalJSON(data []byte) error {
	var header entryHeader
	if err := json.Unmarshal(data, &header); err != nil {
		return err
	}

	id, err := parseID(header.ID)
	if err != nil {
		return err
	}

	details, err := NewDetails(header.Type)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, details); err != nil {
		return fmt.Errorf("unmarshal %s details: %w", header.Type, err)
	}

	*e = Entry{
		ID:        id,
		Date:      header.Date,
		Timestamp: header.Timestamp,
		Details:   details,
	}
	return nil
}

// NewDetails returns an empty variant for the given kind, ready to be
// decoded into.
func NewDetails(kind Kind) (Details, error) {
	switch kind {
	case KindWeightlifting:
		return &Weightlifting{}, nil
	case KindBodyWeight:
		return &BodyWeight{}, nil
	case KindCardio:
		return &Cardio{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown type [%s]", ErrInvalidEntry, kind)
	}
}

// the service hands out string ids, but older records may carry numeric ones
func parseID(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("%w: id [%s] neither string nor number", ErrInvalidEntry, raw)
	}
	if _, err := strconv.ParseFloat(n.String(), 64); err != nil {
		return "", fmt.Errorf("%w: id [%s]: %s", ErrInvalidEntry, raw, err)
	}
	return n.String(), nil
}
