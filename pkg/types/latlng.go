package types

import "fmt"

// LatLng is a WGS84 coordinate pair chosen on the delivery map.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Validate rejects coordinates outside the WGS84 envelope.
func (l LatLng) Validate() error {
	if l.Lat < -90 || l.Lat > 90 {
		return fmt.Errorf("latitude %f out of range [-90, 90]", l.Lat)
	}
	if l.Lng < -180 || l.Lng > 180 {
		return fmt.Errorf("longitude %f out of range [-180, 180]", l.Lng)
	}
	return nil
}

// String renders the pair with six decimal places, matching the map display.
func (l LatLng) String() string {
	return fmt.Sprintf("%.6f, %.6f", l.Lat, l.Lng)
}
