package notification

import (
	"encoding/json"
	"testing"
	"time"
)

func TestMergeSetting_Empty(t *testing.T) {
	s, err := MergeSetting(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s != DefaultSetting() {
		t.Fatalf("expected defaults, got %+v", s)
	}
}

func TestMergeSetting_PartialRecordKeepsDefaults(t *testing.T) {
	s, err := MergeSetting([]byte(`{"ingredient": {"enabled": true, "day": 15}, "holiday": {"dDay": 7}}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !s.Ingredient.Enabled || s.Ingredient.Day != 15 || s.Ingredient.Time != DefaultTimeOfDay {
		t.Fatalf("unexpected ingredient setting %+v", s.Ingredient)
	}
	if s.Holiday.Enabled || s.Holiday.DaysBefore != 7 || s.Holiday.Time != DefaultTimeOfDay {
		t.Fatalf("unexpected holiday setting %+v", s.Holiday)
	}
}

func TestMergeSetting_Corrupt(t *testing.T) {
	s, err := MergeSetting([]byte(`{not json`))
	if err == nil {
		t.Fatal("expected error")
	}
	if s != DefaultSetting() {
		t.Fatal("corrupt record should fall back to defaults")
	}
}

func TestSettingRoundTrip(t *testing.T) {
	in := Setting{
		Ingredient: IngredientSetting{Enabled: true, Day: 31, Time: TimeOfDay{Hour: 7, Minute: 30}},
		Holiday:    HolidaySetting{Enabled: true, DaysBefore: 1, Time: TimeOfDay{Hour: 20}},
	}
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	out, err := MergeSetting(data)
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if out != in {
		t.Fatalf("got %+v, want %+v", out, in)
	}
}

func TestParseTimeOfDay(t *testing.T) {
	tod, err := ParseTimeOfDay("18:05")
	if err != nil || tod != (TimeOfDay{Hour: 18, Minute: 5}) {
		t.Fatalf("got %v %v", tod, err)
	}
	for _, bad := range []string{"", "25:00", "9시", "12:60"} {
		if _, err := ParseTimeOfDay(bad); err == nil {
			t.Errorf("ParseTimeOfDay(%q) should fail", bad)
		}
	}
	at := tod.On(2026, time.March, 1, time.UTC)
	if at.Hour() != 18 || at.Minute() != 5 {
		t.Fatalf("On() = %v", at)
	}
}
