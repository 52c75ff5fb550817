// internal/domain/notification/setting.go
package notification

import (
	"encoding/json"
	"fmt"
	"time"
)

// TimeOfDay is an "HH:MM" wall clock time.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// DefaultTimeOfDay is 09:00.
var DefaultTimeOfDay = TimeOfDay{Hour: 9}

func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("invalid time of day %q, expected HH:MM", s)
	}
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("time of day must be a string: %w", err)
	}
	parsed, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// On returns the given date at this time of day in loc.
func (t TimeOfDay) On(year int, month time.Month, day int, loc *time.Location) time.Time {
	return time.Date(year, month, day, t.Hour, t.Minute, 0, 0, loc)
}

type IngredientSetting struct {
	Enabled bool      `json:"enabled"`
	Day     int       `json:"day"`
	Time    TimeOfDay `json:"time"`
}

type HolidaySetting struct {
	Enabled    bool      `json:"enabled"`
	DaysBefore int       `json:"dDay"`
	Time       TimeOfDay `json:"time"`
}

// Setting is the user's persisted notification preferences. It is replaced wholesale on save.
type Setting struct {
	Ingredient IngredientSetting `json:"ingredient"`
	Holiday    HolidaySetting    `json:"holiday"`
}

// DefaultSetting has both reminders off: the 1st of the month for ingredients and
// three days ahead for holidays, both at 09:00.
func DefaultSetting() Setting {
	return Setting{
		Ingredient: IngredientSetting{Enabled: false, Day: 1, Time: DefaultTimeOfDay},
		Holiday:    HolidaySetting{Enabled: false, DaysBefore: 3, Time: DefaultTimeOfDay},
	}
}

// MergeSetting decodes a stored record over the defaults; fields missing from the
// record keep their default values. An empty payload yields the defaults.
func MergeSetting(payload []byte) (Setting, error) {
	s := DefaultSetting()
	if len(payload) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(payload, &s); err != nil {
		return DefaultSetting(), fmt.Errorf("decoding stored settings: %w", err)
	}
	return s, nil
}

// AnyEnabled reports whether at least one reminder family is switched on.
func (s Setting) AnyEnabled() bool {
	return s.Ingredient.Enabled || s.Holiday.Enabled
}
