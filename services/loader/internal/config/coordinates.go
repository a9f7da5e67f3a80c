package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/02loveslollipop/solcast-irradiance-loader/services/loader/internal/models"
)

// DefaultCoordinates is used when neither COORDINATES_FILE nor
// IRRADIANCE_COORDINATES is set.
var DefaultCoordinates = []models.Coordinate{
	{Name: "Sydney Opera House", Lat: -33.856784, Lon: 151.215297},
	{Name: "Grand Canyon Village", Lat: 36.099763, Lon: -112.112485},
	{Name: "Stonehenge", Lat: 51.178882, Lon: -1.826215},
	{Name: "Colosseum", Lat: 41.89021, Lon: 12.492231},
	{Name: "Giza", Lat: 29.977296, Lon: 31.132496},
	{Name: "Taj Mahal", Lat: 27.175145, Lon: 78.042142},
	{Lat: 48.30783, Lon: -105.1017},
	{Lat: 34.2547, Lon: -89.8729},
}

type coordinatesFile struct {
	Coordinates []models.Coordinate `yaml:"coordinates"`
}

func loadCoordinates(getenv func(string) string) ([]models.Coordinate, error) {
	if path := strings.TrimSpace(getenv("COORDINATES_FILE")); path != "" {
		coords, err := ReadCoordinatesFile(path)
		if err != nil {
			return nil, fmt.Errorf("invalid COORDINATES_FILE: %w", err)
		}
		return coords, nil
	}

	if v := strings.TrimSpace(getenv("IRRADIANCE_COORDINATES")); v != "" {
		coords, err := ParseCoordinates(v)
		if err != nil {
			return nil, fmt.Errorf("invalid IRRADIANCE_COORDINATES: %w", err)
		}
		return coords, nil
	}

	out := make([]models.Coordinate, len(DefaultCoordinates))
	copy(out, DefaultCoordinates)
	return out, nil
}

// ParseCoordinates parses "lat,lon;lat,lon" pairs.
func ParseCoordinates(s string) ([]models.Coordinate, error) {
	var coords []models.Coordinate
	for i, pair := range strings.Split(s, ";") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		parts := strings.Split(pair, ",")
		if len(parts) != 2 {
			return nil, fmt.Errorf("pair %d %q: expected lat,lon", i+1, pair)
		}
		lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		if err != nil {
			return nil, fmt.Errorf("pair %d latitude: %w", i+1, err)
		}
		lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("pair %d longitude: %w", i+1, err)
		}
		coords = append(coords, models.Coordinate{Lat: lat, Lon: lon})
	}
	if len(coords) == 0 {
		return nil, errors.New("no coordinates given")
	}
	return coords, nil
}

// ReadCoordinatesFile loads a YAML document of the form
//
//	coordinates:
//	  - name: Stonehenge
//	    lat: 51.178882
//	    lon: -1.826215
func ReadCoordinatesFile(path string) ([]models.Coordinate, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var doc coordinatesFile
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if len(doc.Coordinates) == 0 {
		return nil, fmt.Errorf("%s: no coordinates listed", path)
	}
	return doc.Coordinates, nil
}
