package ledger

import (
	"encoding/json"
	"fmt"
	"strings"
)

// EventKind is what a planned event turns into when it is marked done.
type EventKind string

const (
	KindMeal    EventKind = "meal"
	KindWorkout EventKind = "workout"
)

// ParseEventKind validates a kind string from the boundary.
func ParseEventKind(s string) (EventKind, error) {
	switch k := EventKind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindMeal, KindWorkout:
		return k, nil
	default:
		return "", invalidf("kind must be meal or workout, got %q", s)
	}
}

// PlannedStatus is the lifecycle state of a planned event.
type PlannedStatus string

const (
	StatusPlanned PlannedStatus = "planned"
	StatusDone    PlannedStatus = "done"
	StatusSkipped PlannedStatus = "skipped"
)

// ParsePlannedStatus validates a status read from storage or a filter.
func ParsePlannedStatus(s string) (PlannedStatus, error) {
	switch st := PlannedStatus(s); st {
	case StatusPlanned, StatusDone, StatusSkipped:
		return st, nil
	default:
		return "", invalidf("unknown planned status %q", s)
	}
}

type plannedAction int

const (
	actionMarkDone plannedAction = iota
	actionSkip
	actionDelete
)

func (a plannedAction) String() string {
	switch a {
	case actionMarkDone:
		return "mark_done"
	case actionSkip:
		return "skip"
	case actionDelete:
		return "delete"
	}
	return "unknown"
}

// transition is the outcome of applying an action to a status.
type transition struct {
	next PlannedStatus
	// noop means the event is already in the target state: nothing is written.
	noop bool
	// cascade means the linked actual entry must be deleted along with the event.
	cascade bool
}

// nextStatus is the planned-event state machine. Every (status, action) pair
// is handled explicitly; done is terminal apart from deletion.
func nextStatus(from PlannedStatus, action plannedAction) (transition, error) {
	switch from {
	case StatusPlanned, StatusSkipped:
		switch action {
		case actionMarkDone:
			return transition{next: StatusDone}, nil
		case actionSkip:
			return transition{next: StatusSkipped, noop: from == StatusSkipped}, nil
		case actionDelete:
			return transition{}, nil
		}
	case StatusDone:
		switch action {
		case actionMarkDone:
			return transition{next: StatusDone, noop: true}, nil
		case actionSkip:
			return transition{}, fmt.Errorf("%w: cannot skip a done event", ErrInvalidTransition)
		case actionDelete:
			return transition{cascade: true}, nil
		}
	}
	return transition{}, fmt.Errorf("%w: %s from status %q", ErrInvalidTransition, action, from)
}

const plannedPrefix = "[Planned] "

// plannedProvenance records which planned event spawned an actual entry.
func plannedProvenance(eventID string) string {
	b, _ := json.Marshal(struct {
		Source         string `json:"source"`
		PlannedEventID string `json:"planned_event_id"`
	}{Source: "plan", PlannedEventID: eventID})
	return string(b)
}

// PlannedInput is a single user-authored planned event.
type PlannedInput struct {
	Date             DateOnly
	Time             string
	Kind             EventKind
	Title            string
	ExpectedCalories *float64
	DurationMin      *int
	Notes            string
}

func (in PlannedInput) validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return invalidf("title is required")
	}
	if err := validateClock(in.Time); err != nil {
		return err
	}
	if in.ExpectedCalories != nil {
		if err := validCalories("expected_calories", *in.ExpectedCalories); err != nil {
			return err
		}
	}
	if in.DurationMin != nil {
		if in.Kind == KindMeal {
			return invalidf("duration_min applies to workouts only")
		}
		if *in.DurationMin <= 0 {
			return invalidf("duration_min must be > 0")
		}
	}
	return nil
}

// MarkDoneResult reports the actual entry linked to the event. Replay is true
// when the event was already done and nothing was written.
type MarkDoneResult struct {
	Event    PlannedEvent `json:"event"`
	ActualID string       `json:"actual_id"`
	Replay   bool         `json:"replay"`
}
