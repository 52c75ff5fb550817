// internal/domain/season/period.go
package season

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Decile is one of the three ten-day parts of a month.
type Decile int

const (
	Early Decile = iota // 1st..10th
	Mid                 // 11th..20th
	Late                // 21st..end of month
)

// PeriodCount is the number of ten-day periods in a year.
const PeriodCount = 36

var decileLabels = [...]string{"초순", "중순", "하순"}

// Deciles lists the deciles in calendar order.
var Deciles = []Decile{Early, Mid, Late}

func (d Decile) String() string {
	if d < Early || d > Late {
		return fmt.Sprintf("Decile(%d)", int(d))
	}
	return decileLabels[d]
}

// ParseDecile accepts the Korean label used by the data files.
func ParseDecile(s string) (Decile, error) {
	for i, label := range decileLabels {
		if strings.TrimSpace(s) == label {
			return Decile(i), nil
		}
	}
	return 0, fmt.Errorf("unknown decile %q", s)
}

func (d Decile) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Decile) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("decile must be a string: %w", err)
	}
	parsed, err := ParseDecile(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// DecileOfDay maps a day of month to its decile.
func DecileOfDay(day int) Decile {
	if day <= 10 {
		return Early
	}
	if day <= 20 {
		return Mid
	}
	return Late
}

// Period is a (month, decile) pair. The JSON shape matches the ingredient data files.
type Period struct {
	Month  int    `json:"month"`
	Decile Decile `json:"ten"`
}

// Index returns the position of the period in the 0..35 grid.
func Index(month int, d Decile) int {
	return (month-1)*3 + int(d)
}

func (p Period) Index() int {
	return Index(p.Month, p.Decile)
}

// Key is the canonical identity string, e.g. "3-초순".
func (p Period) Key() string {
	return Key(p.Month, p.Decile)
}

func Key(month int, d Decile) string {
	return strconv.Itoa(month) + "-" + d.String()
}

// Label is the human label, e.g. "3월 초순".
func (p Period) Label() string {
	return Label(p.Month, p.Decile)
}

func Label(month int, d Decile) string {
	return fmt.Sprintf("%d월 %s", month, d)
}

// PeriodOf returns the period a moment falls in, using the moment's own location.
func PeriodOf(t time.Time) Period {
	return Period{Month: int(t.Month()), Decile: DecileOfDay(t.Day())}
}

// FromIndex is the inverse of Index.
func FromIndex(i int) (Period, error) {
	if i < 0 || i >= PeriodCount {
		return Period{}, fmt.Errorf("period index %d out of range", i)
	}
	return Period{Month: i/3 + 1, Decile: Decile(i % 3)}, nil
}

// ParseKey parses a canonical key back into a period.
func ParseKey(key string) (Period, error) {
	monthPart, decilePart, ok := strings.Cut(key, "-")
	if !ok {
		return Period{}, fmt.Errorf("malformed period key %q", key)
	}
	month, err := strconv.Atoi(monthPart)
	if err != nil || month < 1 || month > 12 {
		return Period{}, fmt.Errorf("malformed period key %q", key)
	}
	d, err := ParseDecile(decilePart)
	if err != nil {
		return Period{}, fmt.Errorf("malformed period key %q: %w", key, err)
	}
	return Period{Month: month, Decile: d}, nil
}

// All returns the 36 periods, month-major.
func All() []Period {
	list := make([]Period, 0, PeriodCount)
	for m := 1; m <= 12; m++ {
		for _, d := range Deciles {
			list = append(list, Period{Month: m, Decile: d})
		}
	}
	return list
}
