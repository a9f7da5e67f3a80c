package solcast

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/02loveslollipop/solcast-irradiance-loader/services/loader/internal/models"
)

// ErrMissingColumn is returned when the CSV header lacks a required column.
var ErrMissingColumn = errors.New("missing required column")

const periodEndColumn = "period_end"

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
}

// DecodeCSV parses the API's CSV payload. Columns are located by header
// name; unknown columns (e.g. "period") are ignored. Empty cells decode to nil.
func DecodeCSV(r io.Reader) ([]models.Observation, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: empty payload", ErrMissingColumn)
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		index[strings.ToLower(name)] = i
	}

	required := append([]string{periodEndColumn}, OutputParameters...)
	for _, col := range required {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
	}

	observations := make([]models.Observation, 0)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record: %w", err)
		}
		line, _ := reader.FieldPos(0)

		if isBlank(record) {
			continue
		}

		cell := func(col string) string {
			i := index[col]
			if i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		var obs models.Observation
		obs.PeriodEnd, err = parseTimestamp(cell(periodEndColumn))
		if err != nil {
			return nil, fmt.Errorf("line %d column %s: %w", line, periodEndColumn, err)
		}

		fields := []struct {
			col string
			dst **float64
		}{
			{"air_temp", &obs.AirTemp},
			{"gti", &obs.GTI},
			{"precipitation_rate", &obs.PrecipitationRate},
			{"wind_direction_10m", &obs.WindDirection10m},
			{"wind_speed_10m", &obs.WindSpeed10m},
		}
		for _, f := range fields {
			v, err := parseOptionalFloat(cell(f.col))
			if err != nil {
				return nil, fmt.Errorf("line %d column %s: %w", line, f.col, err)
			}
			*f.dst = v
		}

		observations = append(observations, obs)
	}

	return observations, nil
}

func parseTimestamp(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, errors.New("empty timestamp")
	}
	var lastErr error
	for _, layout := range timestampLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

func parseOptionalFloat(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func isBlank(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}
