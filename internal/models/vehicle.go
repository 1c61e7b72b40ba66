package models

import (
	"fmt"
	"strings"
	"time"
)

// MinYear is the oldest production year considered valid anywhere in the pipeline.
const MinYear = 1990

// VehicleRecord is the canonical description of a vehicle assembled from one
// extraction pass over an auction page. Zero values mean "not found" — the
// extractors never fail, they just leave fields empty.
type VehicleRecord struct {
	VehicleNumber string `json:"vehicleNumber,omitempty"` // registration number, separators stripped
	Manufacturer  string `json:"manufacturer,omitempty"`
	Model         string `json:"model,omitempty"`
	Year          int    `json:"year,omitempty"`
	TrimLevel     string `json:"trimLevel,omitempty"`
	Mileage       int    `json:"mileage,omitempty"` // km
	EngineSize    int    `json:"engineSize,omitempty"` // cc
	HandsCount    int    `json:"handsCount,omitempty"` // 1-10
	Condition     string `json:"condition,omitempty"`
	Price         int    `json:"price,omitempty"` // listed/opening price on the auction page
	SourceURL     string `json:"sourceUrl"`
}

// Usable reports whether the record carries enough identity for price
// resolution: either the registration number or the full
// manufacturer/model/year triple.
func (v *VehicleRecord) Usable() bool {
	if v == nil {
		return false
	}
	if v.VehicleNumber != "" {
		return true
	}
	return v.Manufacturer != "" && v.Model != "" && v.Year != 0
}

// Fingerprint derives the dedup and cache key for this record.
func (v *VehicleRecord) Fingerprint() string {
	year := ""
	if v.Year != 0 {
		year = fmt.Sprintf("%d", v.Year)
	}
	return strings.Join([]string{v.VehicleNumber, v.Manufacturer, v.Model, year}, "-")
}

// ValidYear reports whether y is inside the accepted production-year window.
// The upper bound allows next-year models already on the road.
func ValidYear(y int, now time.Time) bool {
	return y >= MinYear && y <= now.Year()+1
}
