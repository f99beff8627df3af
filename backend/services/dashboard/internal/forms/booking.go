package forms

import (
	"time"

	"greendash/backend/services/dashboard/internal/models"
)

// BookingInput confirms the calendar selection with a vehicle. VehicleID zero picks the user's
// first vehicle.
type BookingInput struct {
	VehicleID int64 `json:"vehicleId"`
}

// Booking is a checked request ready to be sent as a session.
type Booking struct {
	SpotID   int64
	Vehicle  models.Vehicle
	Start    time.Time
	Duration int64
}

// ValidateBooking resolves the vehicle and checks the selected range against the spot's
// sessions and the current time.
func ValidateBooking(in BookingInput, vehicles []models.Vehicle, spotID int64, start time.Time, duration int64, hasSelection bool, sessions []models.Session, now time.Time) (Booking, error) {
	var errs ValidationErrors
	b := Booking{SpotID: spotID, Start: start, Duration: duration}

	switch {
	case len(vehicles) == 0:
		errs.add("vehicleId", "add a vehicle before booking")
	case in.VehicleID == 0:
		b.Vehicle = vehicles[0]
	default:
		found := false
		for _, v := range vehicles {
			if v.ID == in.VehicleID {
				b.Vehicle = v
				found = true
				break
			}
		}
		if !found {
			errs.add("vehicleId", "is not one of your vehicles")
		}
	}

	if !hasSelection || duration <= 0 {
		errs.add("selection", "select a time range in the calendar")
		return b, errs.err()
	}
	if start.Before(now) {
		errs.add("selection", "starts in the past")
	}
	end := start.Add(time.Duration(duration) * time.Second)
	for _, s := range sessions {
		if s.SpotID() != 0 && s.SpotID() != spotID {
			continue
		}
		if s.Overlaps(start, end) {
			errs.add("selection", "overlaps an existing session")
			break
		}
	}
	return b, errs.err()
}
