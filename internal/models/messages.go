package models

import "encoding/json"

// ExtractRequest is the payload posted by the auction-page client. Either the
// raw page capture or an already-extracted record must be present.
type ExtractRequest struct {
	PageText      string          `json:"pageText,omitempty"`
	EmbeddedState json.RawMessage `json:"embeddedState,omitempty"` // serialized server-rendered state, if the page had one
	SourceURL     string          `json:"sourceUrl" binding:"required"`
	Record        *VehicleRecord  `json:"record,omitempty"`
}

// PriceRequest asks the coordinator to resolve a price for a record. When the
// record is omitted the current stored record is used.
type PriceRequest struct {
	Record *VehicleRecord `json:"record,omitempty"`
}

// PricePageResult is the payload posted by the price-list-page client after it
// observed calculator output.
type PricePageResult struct {
	BasePrice     float64     `json:"basePrice,omitempty"`
	WeightedPrice float64     `json:"weightedPrice,omitempty"`
	PriceRange    *PriceRange `json:"priceRange,omitempty"`
}

// PendingFillRequest is persisted when a calculator tab has been opened and is
// waiting to be filled with the record's mileage and hands count.
type PendingFillRequest struct {
	Record       *VehicleRecord `json:"record"`
	TargetHandle string         `json:"targetHandle"`
	Timestamp    int64          `json:"timestamp"`
}
