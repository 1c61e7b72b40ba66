package models

import (
	"testing"
	"time"
)

func TestUsable(t *testing.T) {
	tests := []struct {
		name   string
		record *VehicleRecord
		want   bool
	}{
		{"nil", nil, false},
		{"empty", &VehicleRecord{}, false},
		{"vehicle number only", &VehicleRecord{VehicleNumber: "1234567"}, true},
		{"full triple", &VehicleRecord{Manufacturer: "קיה", Model: "פיקנטו", Year: 2020}, true},
		{"missing year", &VehicleRecord{Manufacturer: "קיה", Model: "פיקנטו"}, false},
		{"mileage only", &VehicleRecord{Mileage: 75311}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.record.Usable(); got != tt.want {
				t.Fatalf("Usable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFingerprint(t *testing.T) {
	a := &VehicleRecord{VehicleNumber: "1234567", Manufacturer: "קיה", Model: "פיקנטו", Year: 2020}
	b := &VehicleRecord{VehicleNumber: "1234567", Manufacturer: "קיה", Model: "פיקנטו", Year: 2020, Mileage: 99999}
	if a.Fingerprint() != b.Fingerprint() {
		t.Fatal("mileage must not change the fingerprint")
	}

	c := &VehicleRecord{VehicleNumber: "7654321", Manufacturer: "קיה", Model: "פיקנטו", Year: 2020}
	if a.Fingerprint() == c.Fingerprint() {
		t.Fatal("different vehicles must not share a fingerprint")
	}
}

func TestValidYear(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	if !ValidYear(1990, now) || !ValidYear(2027, now) {
		t.Fatal("window bounds must be inclusive")
	}
	if ValidYear(1989, now) || ValidYear(2028, now) {
		t.Fatal("years outside the window must be rejected")
	}
}

func TestNewPriceEstimateWidensRange(t *testing.T) {
	estimate := NewPriceEstimate(100000, 80000, &PriceRange{Min: 85000, Max: 95000}, SourceByDetails)
	if estimate.PriceRange.Min != 80000 {
		t.Fatalf("Min = %v, expected widened to weighted", estimate.PriceRange.Min)
	}

	estimate = NewPriceEstimate(100000, 98000, &PriceRange{Min: 85000, Max: 95000}, SourceByDetails)
	if estimate.PriceRange.Max != 98000 {
		t.Fatalf("Max = %v, expected widened to weighted", estimate.PriceRange.Max)
	}
}

func TestHasPrice(t *testing.T) {
	if (&PriceEstimate{}).HasPrice() {
		t.Fatal("empty estimate must not report a price")
	}
	if !(&PriceEstimate{WeightedPrice: 58100}).HasPrice() {
		t.Fatal("weighted price counts")
	}
	if !(&PriceEstimate{PriceRange: &PriceRange{Min: 1, Max: 2}}).HasPrice() {
		t.Fatal("range counts")
	}
	var nilEstimate *PriceEstimate
	if nilEstimate.HasPrice() {
		t.Fatal("nil estimate must not report a price")
	}
}
