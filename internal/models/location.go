package models

import "time"

// DriverLocation is the latest reported position of a driver.
// Snapshots are ephemeral and replaced wholesale on every poll.
type DriverLocation struct {
	DriverID   string  `json:"driver_id"`
	DriverName string  `json:"driver_name"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	Speed      float64 `json:"speed"` // km/h
	Heading    float64 `json:"heading"`
	Accuracy   float64 `json:"accuracy"`
	LastUpdate string  `json:"last_update"`
	Status     string  `json:"status"`
}

// LocationUpdate is the payload a driver device posts to /api/tracking/location.
type LocationUpdate struct {
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Speed     *float64  `json:"speed,omitempty"`
	Heading   *float64  `json:"heading,omitempty"`
	Accuracy  float64   `json:"accuracy"`
	Timestamp time.Time `json:"timestamp"`
}

// LocationPoint is a single historical position of a driver.
type LocationPoint struct {
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Speed     float64   `json:"speed"`
	Heading   float64   `json:"heading"`
	Timestamp time.Time `json:"timestamp"`
}

// DriverStatusUpdate is the body of PUT /api/tracking/drivers/:id/status.
type DriverStatusUpdate struct {
	Status string `json:"status"`
}
