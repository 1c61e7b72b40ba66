package models

import "time"

// PriceSource identifies which resolution phase produced an estimate.
type PriceSource string

const (
	SourceDirect           PriceSource = "direct"
	SourceByDetails        PriceSource = "by_details"
	SourceSearch           PriceSource = "search"
	SourceCalculator       PriceSource = "calculator"
	SourceMarketEstimation PriceSource = "market_estimation"
)

// PriceRange is the min/max band quoted alongside an estimate.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// PriceEstimate is the outcome of one price resolution. Zero prices mean the
// value was not produced by the source.
type PriceEstimate struct {
	BasePrice     float64     `json:"basePrice,omitempty"`
	WeightedPrice float64     `json:"weightedPrice,omitempty"`
	PriceRange    *PriceRange `json:"priceRange,omitempty"`
	Source        PriceSource `json:"source"`
	RetrievedAt   time.Time   `json:"retrievedAt"`
}

// NewPriceEstimate builds an estimate and enforces the range invariant:
// when both a weighted price and a range are present, the range is widened so
// that min <= weighted <= max always holds.
func NewPriceEstimate(base, weighted float64, r *PriceRange, source PriceSource) *PriceEstimate {
	if r != nil && weighted > 0 {
		if r.Min > weighted {
			r.Min = weighted
		}
		if r.Max < weighted {
			r.Max = weighted
		}
	}
	return &PriceEstimate{
		BasePrice:     base,
		WeightedPrice: weighted,
		PriceRange:    r,
		Source:        source,
		RetrievedAt:   time.Now(),
	}
}

// HasPrice reports whether the estimate carries any usable price information.
func (p *PriceEstimate) HasPrice() bool {
	if p == nil {
		return false
	}
	return p.BasePrice > 0 || p.WeightedPrice > 0 || p.PriceRange != nil
}
