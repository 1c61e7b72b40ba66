package validation

import (
	"fmt"
	"regexp"
	"time"

	"auctionpricer/internal/models"
)

var vehicleNumberPattern = regexp.MustCompile(`^\d{7,8}$`)

// ValidateVehicleNumber validates the registration identifier format (7 or 8
// digits).
func ValidateVehicleNumber(number string) error {
	if !vehicleNumberPattern.MatchString(number) {
		return fmt.Errorf("vehicle number must be 7 or 8 digits")
	}
	return nil
}

// ValidateYear validates a production year against the accepted window.
func ValidateYear(year int) error {
	if !models.ValidYear(year, time.Now()) {
		return fmt.Errorf("year %d is outside the accepted range %d-%d", year, models.MinYear, time.Now().Year()+1)
	}
	return nil
}

// ValidateHandsCount validates the owner count.
func ValidateHandsCount(hands int) error {
	if hands < 1 || hands > 10 {
		return fmt.Errorf("hands count must be between 1 and 10")
	}
	return nil
}

// ValidateRecord validates every present field of a record; absent (zero)
// fields pass.
func ValidateRecord(record *models.VehicleRecord) error {
	if record.VehicleNumber != "" {
		if err := ValidateVehicleNumber(record.VehicleNumber); err != nil {
			return err
		}
	}
	if record.Year != 0 {
		if err := ValidateYear(record.Year); err != nil {
			return err
		}
	}
	if record.HandsCount != 0 {
		if err := ValidateHandsCount(record.HandsCount); err != nil {
			return err
		}
	}
	if record.Mileage < 0 {
		return fmt.Errorf("mileage cannot be negative")
	}
	if record.Price < 0 {
		return fmt.Errorf("price cannot be negative")
	}
	return nil
}
