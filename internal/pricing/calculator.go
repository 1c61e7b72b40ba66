package pricing

import "strings"

const (
	// mileageDepreciationCap bounds the total mileage discount.
	mileageDepreciationCap = 0.25
	// handDepreciation is applied per ownership hand beyond the first.
	handDepreciation = 0.08
	// ageDepreciationPerYear accrues per year since production, up to the cap.
	ageDepreciationPerYear = 0.03
	ageDepreciationCap     = 0.20
	// clampFloor/clampCeil bound the final price relative to base. The ceiling
	// applies even when nothing depreciates; a weighted price never reaches
	// the full base price.
	clampFloor = 0.3
	clampCeil  = 0.9
)

// Adjustments are the depreciation inputs for one vehicle. Zero values mean
// "unknown" and contribute no adjustment.
type Adjustments struct {
	Mileage    int // km
	AgeYears   int
	HandsCount int
	Condition  string
}

// MileageDepreciation maps mileage to a depreciation fraction. Piecewise
// linear with steepening slopes, continuous at the breakpoints (5% at 50k km,
// 15% at 100k km) and capped at 25% (reached near 133k km).
func MileageDepreciation(mileage int) float64 {
	if mileage <= 0 {
		return 0
	}
	m := float64(mileage)
	var fraction float64
	switch {
	case mileage <= 50000:
		fraction = m * 1e-6
	case mileage <= 100000:
		fraction = 0.05 + (m-50000)*2e-6
	default:
		fraction = 0.15 + (m-100000)*3e-6
	}
	if fraction > mileageDepreciationCap {
		fraction = mileageDepreciationCap
	}
	return fraction
}

// conditionMultiplier returns the fixed multiplier for a condition
// descriptor; unrecognized text adjusts nothing.
func conditionMultiplier(condition string) float64 {
	switch {
	case condition == "":
		return 1.0
	case strings.Contains(condition, "מצוין"):
		return 1.02
	case strings.Contains(condition, "לא טוב"), strings.Contains(condition, "רע"):
		return 0.85
	case strings.Contains(condition, "בינוני"):
		return 0.95
	case strings.Contains(condition, "טוב"):
		return 1.0
	}
	return 1.0
}

// Adjust computes the depreciation-weighted price for a base price. The
// adjustments apply multiplicatively in a fixed order (mileage, hands, age,
// condition) and the result is clamped into [0.3·base, 0.9·base]. The clamp
// is a sanity bound and applies unconditionally, so with no adjustments at
// all the result is exactly 0.9·base.
func Adjust(basePrice float64, adj Adjustments) float64 {
	if basePrice <= 0 {
		return 0
	}

	price := basePrice

	price *= 1 - MileageDepreciation(adj.Mileage)

	if adj.HandsCount > 1 {
		price *= 1 - float64(adj.HandsCount-1)*handDepreciation
	}

	if adj.AgeYears > 0 {
		age := float64(adj.AgeYears) * ageDepreciationPerYear
		if age > ageDepreciationCap {
			age = ageDepreciationCap
		}
		price *= 1 - age
	}

	price *= conditionMultiplier(adj.Condition)

	if floor := basePrice * clampFloor; price < floor {
		price = floor
	}
	if ceil := basePrice * clampCeil; price > ceil {
		price = ceil
	}
	return price
}
