package season

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDecileOfDay_Monotonic(t *testing.T) {
	prev := Early
	for day := 1; day <= 31; day++ {
		d := DecileOfDay(day)
		if d != Early && d != Mid && d != Late {
			t.Fatalf("day %d: unexpected decile %v", day, d)
		}
		if d < prev {
			t.Fatalf("day %d: decile %v decreased from %v", day, d, prev)
		}
		prev = d
	}
}

func TestDecileOfDay_Boundaries(t *testing.T) {
	tests := []struct {
		day  int
		want Decile
	}{
		{1, Early},
		{10, Early},
		{11, Mid},
		{20, Mid},
		{21, Late},
		{31, Late},
	}
	for _, test := range tests {
		if got := DecileOfDay(test.day); got != test.want {
			t.Errorf("DecileOfDay(%d) = %v, want %v", test.day, got, test.want)
		}
	}
}

func TestIndex_Bijection(t *testing.T) {
	seen := make(map[int]bool)
	for m := 1; m <= 12; m++ {
		for _, d := range Deciles {
			i := Index(m, d)
			if i < 0 || i >= PeriodCount {
				t.Fatalf("Index(%d, %v) = %d out of range", m, d, i)
			}
			if seen[i] {
				t.Fatalf("Index(%d, %v) = %d already taken", m, d, i)
			}
			seen[i] = true

			p, err := FromIndex(i)
			if err != nil {
				t.Fatalf("FromIndex(%d): %v", i, err)
			}
			if p.Month != m || p.Decile != d {
				t.Fatalf("FromIndex(%d) = %+v, want month %d decile %v", i, p, m, d)
			}
		}
	}
	if len(seen) != PeriodCount {
		t.Fatalf("expected %d indices, got %d", PeriodCount, len(seen))
	}
}

func TestAll_OrderMatchesIndex(t *testing.T) {
	all := All()
	if len(all) != PeriodCount {
		t.Fatalf("expected %d periods, got %d", PeriodCount, len(all))
	}
	for i, p := range all {
		if p.Index() != i {
			t.Fatalf("period %s at position %d has index %d", p.Key(), i, p.Index())
		}
	}
}

func TestKeyAndLabel(t *testing.T) {
	p := Period{Month: 3, Decile: Early}
	if p.Key() != "3-초순" {
		t.Errorf("Key() = %q", p.Key())
	}
	if p.Label() != "3월 초순" {
		t.Errorf("Label() = %q", p.Label())
	}

	parsed, err := ParseKey("12-하순")
	if err != nil {
		t.Fatalf("ParseKey: %v", err)
	}
	if parsed != (Period{Month: 12, Decile: Late}) {
		t.Errorf("ParseKey = %+v", parsed)
	}

	for _, bad := range []string{"", "3", "13-초순", "0-중순", "3-early"} {
		if _, err := ParseKey(bad); err == nil {
			t.Errorf("ParseKey(%q) should fail", bad)
		}
	}
}

func TestPeriodOf(t *testing.T) {
	loc := time.FixedZone("KST", 9*60*60)
	got := PeriodOf(time.Date(2026, time.October, 18, 23, 0, 0, 0, loc))
	if got != (Period{Month: 10, Decile: Mid}) {
		t.Fatalf("PeriodOf = %+v", got)
	}
}

func TestPeriodJSON(t *testing.T) {
	var p Period
	if err := json.Unmarshal([]byte(`{"month": 4, "ten": "중순"}`), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if p != (Period{Month: 4, Decile: Mid}) {
		t.Fatalf("unexpected period %+v", p)
	}
	if err := json.Unmarshal([]byte(`{"month": 4, "ten": "mid"}`), &p); err == nil {
		t.Fatal("expected error for unknown decile label")
	}
}

func TestSeasonOf(t *testing.T) {
	tests := map[int]Season{
		1: Winter, 2: Winter, 3: Spring, 5: Spring, 6: Summer,
		8: Summer, 9: Autumn, 11: Autumn, 12: Winter,
	}
	for month, want := range tests {
		if got := SeasonOf(month); got != want {
			t.Errorf("SeasonOf(%d) = %s, want %s", month, got, want)
		}
	}
}
