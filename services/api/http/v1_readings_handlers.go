package http

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/02loveslollipop/solcast-irradiance-loader/services/api/db"
)

// handleV1ListLocations returns every coordinate present in the table
// GET /api/v1/locations
func (s *Server) handleV1ListLocations(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	locations, err := s.store.ListLocations(ctx)
	if err != nil {
		s.logger.Errorw("list locations", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": locations,
		"meta": gin.H{
			"count": len(locations),
		},
	})
}

// handleV1Readings returns readings for one coordinate
// GET /api/v1/readings?lat=51.178882&lon=-1.826215&start=...&end=...&limit=100
func (s *Server) handleV1Readings(c *gin.Context) {
	lat, lon, ok := coordinateParams(c)
	if !ok {
		return
	}
	since, until, ok := timeRangeParams(c)
	if !ok {
		return
	}

	limit := s.cfg.DefaultLimit
	if limitStr := c.Query("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed <= 0 || parsed > s.cfg.MaxLimit {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid limit, expected 1-%d", s.cfg.MaxLimit)})
			return
		}
		limit = parsed
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	readings, err := s.store.FetchReadings(ctx, db.ReadingQuery{
		Lat:   lat,
		Lon:   lon,
		Limit: limit,
		Since: since,
		Until: until,
	})
	if err != nil {
		s.logger.Errorw("fetch readings", "lat", lat, "lon", lon, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": readings,
		"meta": gin.H{
			"lat":   lat,
			"lon":   lon,
			"limit": limit,
			"count": len(readings),
		},
	})
}

// handleV1ReadingsSummary returns aggregate statistics for one coordinate
// GET /api/v1/readings/summary?lat=...&lon=...
func (s *Server) handleV1ReadingsSummary(c *gin.Context) {
	lat, lon, ok := coordinateParams(c)
	if !ok {
		return
	}
	since, until, ok := timeRangeParams(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	summary, err := s.store.Summarize(ctx, lat, lon, since, until)
	if err != nil {
		s.logger.Errorw("summarize readings", "lat", lat, "lon", lon, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if summary.Count == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "no readings for location"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": summary})
}

func coordinateParams(c *gin.Context) (float64, float64, bool) {
	latStr, lonStr := c.Query("lat"), c.Query("lon")
	if latStr == "" || lonStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lat and lon are required"})
		return 0, 0, false
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid lat"})
		return 0, 0, false
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid lon"})
		return 0, 0, false
	}
	return lat, lon, true
}

func timeRangeParams(c *gin.Context) (*time.Time, *time.Time, bool) {
	var since, until *time.Time

	if startStr := c.Query("start"); startStr != "" {
		t, err := time.Parse(time.RFC3339, startStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start timestamp, expected RFC3339"})
			return nil, nil, false
		}
		tt := t.UTC()
		since = &tt
	}

	if endStr := c.Query("end"); endStr != "" {
		t, err := time.Parse(time.RFC3339, endStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end timestamp, expected RFC3339"})
			return nil, nil, false
		}
		tt := t.UTC()
		until = &tt
	}

	if since != nil && until != nil && until.Before(*since) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end must not be before start"})
		return nil, nil, false
	}

	return since, until, true
}
