package holiday

import (
	"encoding/json"
	"testing"
	"time"
)

var kst = time.FixedZone("KST", 9*60*60)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, kst)
}

func TestNextOccurrence_FixedRollsToNextYear(t *testing.T) {
	christmas := Holiday{Name: "성탄절", Date: DateRule{Type: RuleSolar, Month: 12, Day: 25}}

	got, ok := Upcoming([]Holiday{christmas}, time.Date(2026, time.December, 26, 15, 30, 0, 0, kst))
	if !ok {
		t.Fatal("expected a holiday")
	}
	if !got.SolarDate.Equal(date(2027, time.December, 25)) {
		t.Fatalf("got %v, want 2027-12-25", got.SolarDate)
	}
}

func TestNextOccurrence_TodayCounts(t *testing.T) {
	christmas := Holiday{Date: DateRule{Type: RuleSolar, Month: 12, Day: 25}}
	got := christmas.NextOccurrence(time.Date(2026, time.December, 25, 23, 59, 0, 0, kst))
	if !got.Equal(date(2026, time.December, 25)) {
		t.Fatalf("got %v", got)
	}
}

func TestDateIn_OverrideBeatsLunarFallback(t *testing.T) {
	seollal := Holiday{
		Name: "설날",
		Date: DateRule{Type: RuleLunar, Month: 1, Day: 1},
		SolarOverrides: map[string]MonthDay{
			"2026": {Month: 2, Day: 17},
		},
	}
	if got := seollal.DateIn(2026, kst); !got.Equal(date(2026, time.February, 17)) {
		t.Fatalf("override ignored: %v", got)
	}
	if got := seollal.DateIn(2027, kst); !got.Equal(date(2027, time.January, 1)) {
		t.Fatalf("fallback should reuse month/day as solar: %v", got)
	}
}

func TestNextOccurrence_NextYearUsesItsOwnOverride(t *testing.T) {
	chuseok := Holiday{
		Date: DateRule{Type: RuleLunar, Month: 8, Day: 15},
		SolarOverrides: map[string]MonthDay{
			"2026": {Month: 9, Day: 25},
			"2027": {Month: 9, Day: 15},
		},
	}
	got := chuseok.NextOccurrence(date(2026, time.October, 18))
	if !got.Equal(date(2027, time.September, 15)) {
		t.Fatalf("got %v, want 2027-09-15", got)
	}
}

func TestDateIn_Dynamic(t *testing.T) {
	dongji := Holiday{Date: DateRule{Type: RuleDynamic}}
	for _, year := range []int{2025, 2026, 2031} {
		if got := dongji.DateIn(year, kst); !got.Equal(date(year, time.December, 22)) {
			t.Errorf("year %d: got %v", year, got)
		}
	}
	withOverride := Holiday{Date: DateRule{Type: RuleDynamic}, SolarOverrides: map[string]MonthDay{"2027": {12, 21}}}
	if got := withOverride.DateIn(2027, kst); !got.Equal(date(2027, time.December, 21)) {
		t.Errorf("override must win over dynamic rule: %v", got)
	}
}

func TestUpcoming_PicksSoonestAndFirstOnTie(t *testing.T) {
	list := []Holiday{
		{Name: "A", Date: DateRule{Type: RuleSolar, Month: 12, Day: 22}},
		{Name: "B", Date: DateRule{Type: RuleSolar, Month: 11, Day: 1}},
		{Name: "C", Date: DateRule{Type: RuleDynamic}},
		{Name: "D", Date: DateRule{Type: RuleSolar, Month: 11, Day: 1}},
	}
	got, ok := Upcoming(list, date(2026, time.October, 18))
	if !ok || got.Name != "B" {
		t.Fatalf("got %+v", got)
	}
}

func TestUpcoming_Empty(t *testing.T) {
	if _, ok := Upcoming(nil, time.Now()); ok {
		t.Fatal("expected nothing for an empty list")
	}
}

func TestResolveAll_KeepsOrder(t *testing.T) {
	list := []Holiday{
		{Name: "late", Date: DateRule{Type: RuleSolar, Month: 12, Day: 1}},
		{Name: "early", Date: DateRule{Type: RuleSolar, Month: 11, Day: 1}},
	}
	got := ResolveAll(list, date(2026, time.October, 18))
	if len(got) != 2 || got[0].Name != "late" || got[1].Name != "early" {
		t.Fatalf("unexpected order %+v", got)
	}
}

func TestDaysUntil(t *testing.T) {
	r := Resolved{SolarDate: date(2026, time.October, 21)}
	if got := r.DaysUntil(time.Date(2026, time.October, 18, 22, 0, 0, 0, kst)); got != 3 {
		t.Fatalf("DaysUntil = %d", got)
	}
}

func TestHolidayJSON_OverrideForms(t *testing.T) {
	raw := `{
		"name": "설날",
		"date": {"type": "lunar", "month": 1, "day": 1},
		"solar_overrides": {"2025": "01-29", "2026": {"month": 2, "day": 17}},
		"main_food": "떡국을",
		"details": {"foods": [{"name": "떡국"}, {"name": "전"}, {"name": "식혜"}], "customs": []}
	}`
	var h Holiday
	if err := json.Unmarshal([]byte(raw), &h); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if h.SolarOverrides["2025"] != (MonthDay{1, 29}) || h.SolarOverrides["2026"] != (MonthDay{2, 17}) {
		t.Fatalf("unexpected overrides %+v", h.SolarOverrides)
	}
	if foods := h.FoodNames(2); len(foods) != 2 || foods[1] != "전" {
		t.Fatalf("FoodNames = %v", foods)
	}

}

func TestHolidayJSON_UnusableOverridesFallBackToRule(t *testing.T) {
	raw := `[
		{"name": "추석", "date": {"type": "lunar", "month": 8, "day": 15},
		 "solar_overrides": {"2026": "09-25", "2030": "0912", "2031": null, "2032": "TBD", "2033": 7, "2034": "13-40"}},
		{"name": "동지", "date": {"type": "dynamic"}, "solar_overrides": {"2026": null}}
	]`
	var list []Holiday
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		t.Fatalf("one bad override must not reject the list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("got %d holidays", len(list))
	}

	chuseok := list[0]
	if got := chuseok.DateIn(2026, kst); got.Month() != time.September || got.Day() != 25 {
		t.Fatalf("valid override ignored: %v", got)
	}
	for _, year := range []int{2030, 2031, 2032, 2033, 2034} {
		got := chuseok.DateIn(year, kst)
		if got.Month() != time.August || got.Day() != 15 {
			t.Errorf("%d: expected the lunar rule fallback, got %v", year, got)
		}
	}
	if got := list[1].DateIn(2026, kst); got.Month() != time.December || got.Day() != 22 {
		t.Fatalf("dynamic fallback: %v", got)
	}
}
