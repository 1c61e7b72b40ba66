package extract

import "auctionpricer/internal/models"

// Normalize merges a structured-source record over a text-source record into
// one canonical record. Structured fields win per field because the embedded
// state is server-rendered data; regex captures are best-effort fallbacks.
// Never fails: either input may be nil and absent fields stay zero.
func Normalize(structured, text *models.VehicleRecord) *models.VehicleRecord {
	if structured == nil && text == nil {
		return &models.VehicleRecord{}
	}
	if structured == nil {
		out := *text
		return &out
	}
	if text == nil {
		out := *structured
		return &out
	}

	out := *text
	if structured.VehicleNumber != "" {
		out.VehicleNumber = structured.VehicleNumber
	}
	if structured.Manufacturer != "" {
		out.Manufacturer = structured.Manufacturer
	}
	if structured.Model != "" {
		out.Model = structured.Model
	}
	if structured.Year != 0 {
		out.Year = structured.Year
	}
	if structured.TrimLevel != "" {
		out.TrimLevel = structured.TrimLevel
	}
	if structured.Mileage != 0 {
		out.Mileage = structured.Mileage
	}
	if structured.EngineSize != 0 {
		out.EngineSize = structured.EngineSize
	}
	if structured.HandsCount != 0 {
		out.HandsCount = structured.HandsCount
	}
	if structured.Condition != "" {
		out.Condition = structured.Condition
	}
	if structured.Price != 0 {
		out.Price = structured.Price
	}
	if structured.SourceURL != "" {
		out.SourceURL = structured.SourceURL
	}
	return &out
}
