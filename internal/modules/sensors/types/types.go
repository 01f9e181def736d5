package types

import "ukmap/internal/geo"

type Record struct {
	ID        string  `json:"id"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type Marker struct {
	Record
	Pixel geo.Pixel `json:"pixel"`
}
