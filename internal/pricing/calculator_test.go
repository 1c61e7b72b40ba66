package pricing

import (
	"math"
	"testing"
)

func TestMileageDepreciation(t *testing.T) {
	tests := []struct {
		mileage int
		want    float64
	}{
		{0, 0},
		{-5, 0},
		{50000, 0.05},
		{75311, 0.100622},
		{100000, 0.15},
		{133334, 0.25},
		{500000, 0.25},
	}

	for _, tt := range tests {
		got := MileageDepreciation(tt.mileage)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Fatalf("MileageDepreciation(%d) = %v, want %v", tt.mileage, got, tt.want)
		}
	}
}

func TestMileageDepreciationMonotonic(t *testing.T) {
	prev := -1.0
	for m := 0; m <= 200000; m += 1000 {
		got := MileageDepreciation(m)
		if got < prev {
			t.Fatalf("depreciation decreased at %d km: %v < %v", m, got, prev)
		}
		if got > 0.25 {
			t.Fatalf("depreciation exceeded cap at %d km: %v", m, got)
		}
		prev = got
	}
}

func TestAdjustWorkedExample(t *testing.T) {
	// 100000 base, 75311 km (10.0622%), 4 hands (24%), 5 years (15%),
	// condition "טוב" (x1.0): 100000 * 0.899378 * 0.76 * 0.85.
	got := Adjust(100000, Adjustments{
		Mileage:    75311,
		HandsCount: 4,
		AgeYears:   5,
		Condition:  "טוב",
	})
	want := 58099.8188
	if math.Abs(got-want) > 0.01 {
		t.Fatalf("Adjust = %v, want %v", got, want)
	}
}

func TestAdjustNoAdjustmentsHitsCeiling(t *testing.T) {
	got := Adjust(100000, Adjustments{})
	if got != 90000 {
		t.Fatalf("Adjust with zero adjustments = %v, want exactly 90000", got)
	}
}

func TestAdjustClampFloor(t *testing.T) {
	// Stack every maximum discount; the floor must hold.
	got := Adjust(100000, Adjustments{
		Mileage:    300000,
		HandsCount: 10,
		AgeYears:   30,
		Condition:  "לא טוב",
	})
	if got != 30000 {
		t.Fatalf("Adjust = %v, want floor 30000", got)
	}
}

func TestAdjustClampProperty(t *testing.T) {
	cases := []Adjustments{
		{},
		{Mileage: 10000},
		{HandsCount: 3},
		{AgeYears: 2, Condition: "מצוין"},
		{Mileage: 90000, HandsCount: 2, AgeYears: 4, Condition: "בינוני"},
	}
	for _, adj := range cases {
		got := Adjust(50000, adj)
		if got < 15000 || got > 45000 {
			t.Fatalf("Adjust(50000, %+v) = %v outside [15000, 45000]", adj, got)
		}
	}
}

func TestAdjustZeroBase(t *testing.T) {
	if got := Adjust(0, Adjustments{Mileage: 50000}); got != 0 {
		t.Fatalf("Adjust with zero base = %v, want 0", got)
	}
}

func TestConditionMultiplier(t *testing.T) {
	tests := []struct {
		condition string
		want      float64
	}{
		{"", 1.0},
		{"מצוין", 1.02},
		{"מצוין מאוד", 1.02},
		{"טוב", 1.0},
		{"טוב מאוד", 1.0},
		{"בינוני", 0.95},
		{"לא טוב", 0.85},
		{"רע", 0.85},
		{"משהו אחר", 1.0},
	}
	for _, tt := range tests {
		if got := conditionMultiplier(tt.condition); got != tt.want {
			t.Fatalf("conditionMultiplier(%q) = %v, want %v", tt.condition, got, tt.want)
		}
	}
}
