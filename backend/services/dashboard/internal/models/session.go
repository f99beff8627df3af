package models

import "time"

// Session is a booked charging slot on a spot.
type Session struct {
	ID            int64    `json:"id,omitempty"`
	UUID          string   `json:"uuid"`
	Vehicle       *Vehicle `json:"vehicle,omitempty"`
	ChargingSpot  *Spot    `json:"chargingSpot,omitempty"`
	StartTime     Instant  `json:"startTime"`
	Duration      int64    `json:"duration"`
	TotalCost     *float64 `json:"totalCost,omitempty"`
	PaymentStatus string   `json:"paymentStatus,omitempty"`
}

// End is the exclusive end of the booked interval.
func (s Session) End() time.Time {
	return s.StartTime.Add(time.Duration(s.Duration) * time.Second)
}

// Covers reports whether t lies in [start, start+duration).
func (s Session) Covers(t time.Time) bool {
	return !t.Before(s.StartTime.Time) && t.Before(s.End())
}

// Overlaps reports whether [from, to) intersects the session interval.
func (s Session) Overlaps(from, to time.Time) bool {
	return s.StartTime.Before(to) && s.End().After(from)
}

// SpotID returns the referenced spot id or zero.
func (s Session) SpotID() int64 {
	if s.ChargingSpot == nil {
		return 0
	}
	return s.ChargingSpot.ID
}

// Vehicle is a user's electric vehicle.
type Vehicle struct {
	ID            int64         `json:"id,omitempty"`
	Brand         string        `json:"brand"`
	Model         string        `json:"model"`
	LicensePlate  string        `json:"licensePlate"`
	ConnectorType ConnectorType `json:"connectorType"`
}

// PaymentIntent is the processor handle returned by the API for a session.
type PaymentIntent struct {
	ClientSecret    string `json:"clientSecret"`
	PaymentIntentID string `json:"paymentIntentId"`
}
