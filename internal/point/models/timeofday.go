package models

import (
	"encoding/json"
	"fmt"
	"time"

	dErrors "donapoint/pkg/domain-errors"
)

// TimeOfDay is a wall-clock opening hour without a date. It crosses the HTTP
// boundary as a 24-hour "HH:MM" string.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay constructs a TimeOfDay from its "HH:MM" representation.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return TimeOfDay{}, dErrors.New(dErrors.CodeValidation, fmt.Sprintf("invalid time of day: %q, expected HH:MM", s))
	}
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// MinuteOfDay returns the minutes elapsed since midnight, the form the
// postgres store persists.
func (t TimeOfDay) MinuteOfDay() int {
	return t.Hour*60 + t.Minute
}

// FromMinuteOfDay rebuilds a TimeOfDay from its persisted form.
func FromMinuteOfDay(m int) TimeOfDay {
	return TimeOfDay{Hour: m / 60, Minute: m % 60}
}

func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
