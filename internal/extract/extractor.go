package extract

import (
	"net/url"
	"strings"
	"time"

	"auctionpricer/internal/models"
)

// FromText runs every field extractor over one page-text snapshot and returns
// the partial record. It never fails; fields that no rule matched stay zero.
func FromText(text, sourceURL string, now time.Time) *models.VehicleRecord {
	record := &models.VehicleRecord{SourceURL: sourceURL}

	if value, ok := applyRules(text, vehicleNumberRules); ok {
		record.VehicleNumber = strings.ReplaceAll(value, "-", "")
	}

	if manufacturer, model, ok := splitSlug(sourceURL); ok {
		record.Manufacturer = manufacturer
		record.Model = model
	}

	record.Year = ExtractYear(text, now)

	if value, ok := applyRules(text, mileageRules); ok {
		if n, ok := ParseNumber(value); ok {
			record.Mileage = n
		}
	}

	if value, ok := applyRules(text, engineSizeRules); ok {
		if n, ok := ParseNumber(value); ok {
			record.EngineSize = n
		}
	}

	if value, ok := applyRules(text, trimRules); ok {
		record.TrimLevel = value
	}

	// Hands and condition validate the captured text; a rule whose capture
	// fails validation does not stop the lower-priority rules.
	for _, rule := range handsRules {
		value, ok := rule.Extract(text)
		if !ok {
			continue
		}
		if hands := ParseHands(value); hands != 0 {
			record.HandsCount = hands
			break
		}
	}

	for _, rule := range conditionRules {
		value, ok := rule.Extract(text)
		if !ok {
			continue
		}
		if cond := ParseCondition(value); cond != "" {
			record.Condition = cond
			break
		}
	}

	if value, ok := applyRules(text, priceRules); ok {
		if n, ok := ParseNumber(value); ok {
			record.Price = n
		}
	}

	return record
}

// splitSlug derives manufacturer and model from the last dash-delimited path
// segment of the listing URL. This is a heuristic, not a lookup: multi-word
// brand names mis-split and stay that way.
func splitSlug(sourceURL string) (manufacturer, model string, ok bool) {
	parsed, err := url.Parse(sourceURL)
	if err != nil {
		return "", "", false
	}
	segments := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	if len(segments) == 0 {
		return "", "", false
	}
	last, err := url.PathUnescape(segments[len(segments)-1])
	if err != nil {
		last = segments[len(segments)-1]
	}
	parts := strings.Split(last, "-")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}
