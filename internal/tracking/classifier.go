package tracking

import (
	"strings"
	"time"

	"github.com/benmeehan/fleetops/internal/models"
)

// MovementStatus is derived from a location snapshot; it is never stored on its own.
type MovementStatus string

const (
	StatusMoving  MovementStatus = "moving"
	StatusIdle    MovementStatus = "idle"
	StatusOffline MovementStatus = "offline"
)

const (
	// DefaultStaleAfter is how long a driver may stay silent before being offline.
	DefaultStaleAfter = 5 * time.Minute
	// DefaultMovingThresholdKmh is the speed above which a driver counts as moving.
	DefaultMovingThresholdKmh = 5.0
)

// Classifier holds the thresholds used to derive a MovementStatus.
type Classifier struct {
	StaleAfter         time.Duration
	MovingThresholdKmh float64
}

// NewClassifier returns a Classifier; zero arguments fall back to the defaults.
func NewClassifier(staleAfter time.Duration, movingThresholdKmh float64) Classifier {
	if staleAfter <= 0 {
		staleAfter = DefaultStaleAfter
	}
	if movingThresholdKmh <= 0 {
		movingThresholdKmh = DefaultMovingThresholdKmh
	}
	return Classifier{StaleAfter: staleAfter, MovingThresholdKmh: movingThresholdKmh}
}

// Classify uses the default thresholds.
func Classify(speedKmh float64, lastUpdate string, now time.Time) MovementStatus {
	return NewClassifier(0, 0).Classify(speedKmh, lastUpdate, now)
}

// Classify returns offline for a missing, unparsable or stale lastUpdate,
// moving above the speed threshold, and idle otherwise.
func (c Classifier) Classify(speedKmh float64, lastUpdate string, now time.Time) MovementStatus {
	updatedAt, ok := ParseTimestamp(lastUpdate)
	if !ok || now.Sub(updatedAt) > c.StaleAfter {
		return StatusOffline
	}
	if ClampSpeed(speedKmh) > c.MovingThresholdKmh {
		return StatusMoving
	}
	return StatusIdle
}

// ClampSpeed maps negative readings (GPS noise) to zero. Use it for display as well.
func ClampSpeed(speedKmh float64) float64 {
	if speedKmh < 0 || speedKmh != speedKmh {
		return 0
	}
	return speedKmh
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
}

// ParseTimestamp accepts ISO-8601 timestamps with or without a zone. Zoneless values are UTC.
func ParseTimestamp(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DriverStatus is a location snapshot annotated with its derived movement status.
type DriverStatus struct {
	models.DriverLocation
	Movement MovementStatus `json:"movement"`
}

// Annotate derives the movement status of every snapshot and clamps its speed.
func (c Classifier) Annotate(locations []models.DriverLocation, now time.Time) []DriverStatus {
	statuses := make([]DriverStatus, 0, len(locations))
	for _, loc := range locations {
		loc.Speed = ClampSpeed(loc.Speed)
		statuses = append(statuses, DriverStatus{
			DriverLocation: loc,
			Movement:       c.Classify(loc.Speed, loc.LastUpdate, now),
		})
	}
	return statuses
}

// Counts tallies statuses per movement state.
func Counts(statuses []DriverStatus) map[MovementStatus]int {
	counts := map[MovementStatus]int{StatusMoving: 0, StatusIdle: 0, StatusOffline: 0}
	for _, s := range statuses {
		counts[s.Movement]++
	}
	return counts
}
