// internal/domain/holiday/holiday.go
package holiday

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// RuleType selects how a holiday's solar date is derived when no override exists.
type RuleType string

const (
	RuleSolar   RuleType = "solar"
	RuleLunar   RuleType = "lunar"
	RuleDynamic RuleType = "dynamic"
)

// DateRule is the "date" object of a holiday record.
type DateRule struct {
	Type  RuleType `json:"type"`
	Month int      `json:"month,omitempty"`
	Day   int      `json:"day,omitempty"`
}

// MonthDay is one entry of a per-year override table. The data files write it either
// as "MM-DD" or as {"month": m, "day": d}. A null or unreadable entry decodes to the
// zero value, which never overrides, so the holiday falls back to its date rule.
type MonthDay struct {
	Month int `json:"month"`
	Day   int `json:"day"`
}

func (md *MonthDay) UnmarshalJSON(data []byte) error {
	*md = MonthDay{}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		mm, dd, ok := strings.Cut(s, "-")
		if !ok {
			return nil
		}
		month, errM := strconv.Atoi(mm)
		day, errD := strconv.Atoi(dd)
		if errM != nil || errD != nil {
			return nil
		}
		md.Month, md.Day = month, day
		return nil
	}

	var obj struct {
		Month int `json:"month"`
		Day   int `json:"day"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil
	}
	md.Month, md.Day = obj.Month, obj.Day
	return nil
}

func (md MonthDay) valid() bool {
	return md.Month >= 1 && md.Month <= 12 && md.Day >= 1 && md.Day <= 31
}

// Story is an optional anecdote shown with the holiday detail.
type Story struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Item is a named food or custom with a short description.
type Item struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type Details struct {
	Foods   []Item `json:"foods"`
	Customs []Item `json:"customs"`
}

// Holiday is an immutable reference record from data/holidays.json.
type Holiday struct {
	Name           string              `json:"name"`
	Summary        string              `json:"summary"`
	Date           DateRule            `json:"date"`
	SolarOverrides map[string]MonthDay `json:"solar_overrides,omitempty"`
	MainFood       string              `json:"main_food"`
	Story          *Story              `json:"story,omitempty"`
	Details        Details             `json:"details"`
	Image          string              `json:"image"`
}

// FoodNames returns up to limit representative food names in list order.
func (h Holiday) FoodNames(limit int) []string {
	var out []string
	for _, f := range h.Details.Foods {
		if len(out) == limit {
			break
		}
		out = append(out, f.Name)
	}
	return out
}

// Resolved annotates a holiday with the solar date of its next occurrence.
type Resolved struct {
	Holiday
	SolarDate time.Time
}
