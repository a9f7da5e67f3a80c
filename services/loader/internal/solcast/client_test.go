package solcast

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/02loveslollipop/solcast-irradiance-loader/services/loader/internal/models"
)

const samplePayload = `period_end,period,air_temp,gti,precipitation_rate,wind_direction_10m,wind_speed_10m
2024-03-15T12:00:00Z,PT30M,24.5,812.25,0,135,4.1
2024-03-15T11:30:00Z,PT30M,24.1,790,0.2,140,3.9
2024-03-15T11:00:00Z,PT30M,23.8,,0,142,3.7
`

func TestFetchRequestsFourteenDayWindowOnce(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 7, 33, 421, time.UTC)

	var requests []*url.URL
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests = append(requests, r.URL)
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte(samplePayload))
	}))
	defer srv.Close()

	client := NewClient(srv.Client(), srv.URL+"/data/historic/radiation_and_weather", "secret-key")
	client.Now = func() time.Time { return now }

	coord := models.Coordinate{Lat: 51.178882, Lon: -1.826215}
	obs, window, err := client.Fetch(context.Background(), coord)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(requests) != 1 {
		t.Fatalf("expected exactly one request, got %d", len(requests))
	}
	q := requests[0].Query()

	start, err := time.Parse(TimeLayout, q.Get("start"))
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	end, err := time.Parse(TimeLayout, q.Get("end"))
	if err != nil {
		t.Fatalf("end: %v", err)
	}
	if got := end.Sub(start); got != 14*24*time.Hour {
		t.Errorf("window spans %s, want 336h", got)
	}
	if d := now.Sub(end); d < 0 || d >= time.Second {
		t.Errorf("end %s is not the invocation time %s", end, now)
	}
	if !window.End.Equal(end) || !window.Start.Equal(start) {
		t.Errorf("returned window %v does not match request", window)
	}

	want := map[string]string{
		"latitude":          "51.178882",
		"longitude":         "-1.826215",
		"output_parameters": "air_temp,gti,precipitation_rate,wind_direction_10m,wind_speed_10m",
		"format":            "csv",
		"api_key":           "secret-key",
	}
	for k, v := range want {
		if got := q.Get(k); got != v {
			t.Errorf("query %s = %q, want %q", k, got, v)
		}
	}
	if requests[0].Path != "/data/historic/radiation_and_weather" {
		t.Errorf("unexpected path %s", requests[0].Path)
	}

	if len(obs) != 3 {
		t.Fatalf("expected 3 observations, got %d", len(obs))
	}
}

func TestFetchNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"response_status":{"error_code":"Unauthorized"}}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewClient(srv.Client(), srv.URL, "bad-key")
	obs, _, err := client.Fetch(context.Background(), models.Coordinate{Lat: 1, Lon: 2})
	if err == nil {
		t.Fatal("expected error")
	}

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected *StatusError, got %T: %v", err, err)
	}
	if statusErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("status %d, want 401", statusErr.StatusCode)
	}
	if !strings.Contains(statusErr.Body, "Unauthorized") {
		t.Errorf("body snippet %q missing upstream message", statusErr.Body)
	}
	if obs != nil {
		t.Errorf("expected no observations, got %d", len(obs))
	}
}

func TestFetchTransportErrorHidesKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	base := srv.URL
	srv.Close()

	client := NewClient(&http.Client{Timeout: time.Second}, base, "top-secret")
	_, _, err := client.Fetch(context.Background(), models.Coordinate{Lat: 1, Lon: 2})
	if err == nil {
		t.Fatal("expected transport error")
	}
	if strings.Contains(err.Error(), "top-secret") {
		t.Errorf("error leaks api key: %v", err)
	}
}

func TestWindowAtUsesConfiguredSpan(t *testing.T) {
	client := NewClient(nil, "http://example.invalid", "k")
	client.Window = 72 * time.Hour

	now := time.Date(2024, 1, 4, 0, 0, 0, 0, time.FixedZone("CET", 3600))
	w := client.WindowAt(now)

	if w.End.Location() != time.UTC {
		t.Errorf("end should be UTC, got %s", w.End.Location())
	}
	if got := w.End.Sub(w.Start); got != 72*time.Hour {
		t.Errorf("span %s, want 72h", got)
	}
	if w.End.Format(TimeLayout) != "2024-01-03T23:00:00Z" {
		t.Errorf("end formatted as %s", w.End.Format(TimeLayout))
	}
}

func TestBuildURLKeepsExistingQuery(t *testing.T) {
	client := NewClient(nil, "https://api.example.com/data?tz=utc", "k")
	raw, err := client.BuildURL(models.Coordinate{Lat: -33.856784, Lon: 151.215297}, client.WindowAt(time.Unix(0, 0)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	u, _ := url.Parse(raw)
	if u.Query().Get("tz") != "utc" {
		t.Errorf("existing query parameter dropped: %s", raw)
	}
	if u.Query().Get("start") != "1969-12-18T00:00:00Z" {
		t.Errorf("start = %s", u.Query().Get("start"))
	}
}
