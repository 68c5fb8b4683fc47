package location

// Location is a single position reading of the device.
type Location struct {
	Latitude  float64
	Longitude float64
	Accuracy  float64  // metres, or HDOP for GPS readings
	Speed     *float64 // km/h, nil when the provider cannot measure it
	Heading   *float64 // degrees from true north
}
