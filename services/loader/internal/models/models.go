package models

import (
	"fmt"
	"time"
)

// Coordinate is one location the loader requests data for.
type Coordinate struct {
	Name string  `yaml:"name"`
	Lat  float64 `yaml:"lat"`
	Lon  float64 `yaml:"lon"`
}

// String renders the coordinate for log lines.
func (c Coordinate) String() string {
	if c.Name != "" {
		return fmt.Sprintf("%s (%.6f,%.6f)", c.Name, c.Lat, c.Lon)
	}
	return fmt.Sprintf("(%.6f,%.6f)", c.Lat, c.Lon)
}

// Window is the requested time span, both ends in UTC.
type Window struct {
	Start time.Time
	End   time.Time
}

// Observation is one parsed row of the upstream CSV payload.
type Observation struct {
	PeriodEnd         time.Time
	AirTemp           *float64
	GTI               *float64
	PrecipitationRate *float64
	WindDirection10m  *float64
	WindSpeed10m      *float64
}

// Reading is an observation bound to the location it was requested for.
// It maps one-to-one onto a row of the irradiance table.
type Reading struct {
	Timestamp         time.Time
	Latitude          float64
	Longitude         float64
	AirTemp           *float64
	GTI               *float64
	PrecipitationRate *float64
	WindDirection10m  *float64
	WindSpeed10m      *float64
}

// AttachLocation converts observations into readings carrying the caller's
// coordinate unchanged. Order is preserved.
func AttachLocation(coord Coordinate, observations []Observation) []Reading {
	readings := make([]Reading, 0, len(observations))
	for _, obs := range observations {
		readings = append(readings, Reading{
			Timestamp:         obs.PeriodEnd,
			Latitude:          coord.Lat,
			Longitude:         coord.Lon,
			AirTemp:           obs.AirTemp,
			GTI:               obs.GTI,
			PrecipitationRate: obs.PrecipitationRate,
			WindDirection10m:  obs.WindDirection10m,
			WindSpeed10m:      obs.WindSpeed10m,
		})
	}
	return readings
}
