package http

import "github.com/gin-gonic/gin"

// registerV1Routes sets up /api/v1/locations and /api/v1/readings.
func (s *Server) registerV1Routes() {
	v1 := s.engine.Group("/api/v1")
	v1.Use(apiVersionMiddleware())

	v1.GET("/locations", s.handleV1ListLocations)

	readings := v1.Group("/readings")
	{
		readings.GET("", s.handleV1Readings)
		readings.GET("/summary", s.handleV1ReadingsSummary)
	}
}

func apiVersionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-API-Version", "v1")
		c.Next()
	}
}
