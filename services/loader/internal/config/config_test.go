package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func baseEnv() map[string]string {
	return map[string]string{
		"API_URL":      "https://api.solcast.com.au/data/historic/radiation_and_weather",
		"API_KEY":      "key",
		"DATABASE_URL": "postgres://localhost/irradiance",
	}
}

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv(envMap(baseEnv()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.RequestTimeout != 30*time.Second || cfg.RunTimeout != 10*time.Minute {
		t.Errorf("unexpected timeouts: %s / %s", cfg.RequestTimeout, cfg.RunTimeout)
	}
	if cfg.Window != 14*24*time.Hour {
		t.Errorf("window = %s", cfg.Window)
	}
	if len(cfg.Coordinates) != 8 {
		t.Fatalf("expected the 8 default coordinates, got %d", len(cfg.Coordinates))
	}
	if cfg.Coordinates[0].Lat != -33.856784 || cfg.Coordinates[7].Lon != -89.8729 {
		t.Errorf("default coordinates changed: %+v", cfg.Coordinates)
	}
	if cfg.DryRun || cfg.Debug {
		t.Error("dry-run and debug should default to false")
	}
}

func TestFromEnvRequired(t *testing.T) {
	for _, key := range []string{"API_URL", "API_KEY", "DATABASE_URL"} {
		t.Run(key, func(t *testing.T) {
			env := baseEnv()
			delete(env, key)
			_, err := FromEnv(envMap(env))
			if err == nil || !strings.Contains(err.Error(), key) {
				t.Fatalf("expected error naming %s, got %v", key, err)
			}
		})
	}
}

func TestFromEnvDryRunWithoutDatabase(t *testing.T) {
	env := baseEnv()
	delete(env, "DATABASE_URL")
	env["DRY_RUN"] = "true"

	cfg, err := FromEnv(envMap(env))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.DryRun {
		t.Error("expected dry-run")
	}
}

func TestFromEnvInvalidDuration(t *testing.T) {
	env := baseEnv()
	env["LOADER_REQUEST_TIMEOUT"] = "soon"
	if _, err := FromEnv(envMap(env)); err == nil || !strings.Contains(err.Error(), "LOADER_REQUEST_TIMEOUT") {
		t.Fatalf("expected LOADER_REQUEST_TIMEOUT error, got %v", err)
	}

	env = baseEnv()
	env["LOADER_WINDOW"] = "-1h"
	if _, err := FromEnv(envMap(env)); err == nil {
		t.Fatal("expected error for negative window")
	}
}

func TestFromEnvCoordinateList(t *testing.T) {
	env := baseEnv()
	env["IRRADIANCE_COORDINATES"] = " 10.5, -20.25 ; 0,0;"

	cfg, err := FromEnv(envMap(env))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Coordinates) != 2 {
		t.Fatalf("expected 2 coordinates, got %d", len(cfg.Coordinates))
	}
	if cfg.Coordinates[0].Lat != 10.5 || cfg.Coordinates[0].Lon != -20.25 {
		t.Errorf("unexpected first coordinate %+v", cfg.Coordinates[0])
	}
}

func TestParseCoordinatesErrors(t *testing.T) {
	for _, in := range []string{"", ";;", "1", "1,2,3", "north,2", "1,east"} {
		if _, err := ParseCoordinates(in); err == nil {
			t.Errorf("ParseCoordinates(%q): expected error", in)
		}
	}
}

func TestCoordinatesFileOverridesList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "coords.yaml")
	doc := `coordinates:
  - name: Stonehenge
    lat: 51.178882
    lon: -1.826215
  - lat: 34.2547
    lon: -89.8729
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	env := baseEnv()
	env["COORDINATES_FILE"] = path
	env["IRRADIANCE_COORDINATES"] = "1,1"

	cfg, err := FromEnv(envMap(env))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Coordinates) != 2 {
		t.Fatalf("expected 2 coordinates, got %d", len(cfg.Coordinates))
	}
	if cfg.Coordinates[0].Name != "Stonehenge" || cfg.Coordinates[1].Lat != 34.2547 {
		t.Errorf("unexpected coordinates %+v", cfg.Coordinates)
	}
}

func TestCoordinatesFileEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "coords.yaml")
	if err := os.WriteFile(path, []byte("coordinates: []\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadCoordinatesFile(path); err == nil {
		t.Fatal("expected error for empty list")
	}
}

func TestLoadReadsProcessEnv(t *testing.T) {
	t.Setenv("API_URL", "https://example.com")
	t.Setenv("API_KEY", "k")
	t.Setenv("DATABASE_URL", "postgres://db")
	t.Setenv("IRRADIANCE_COORDINATES", "1,2")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.APIURL != "https://example.com" || len(cfg.Coordinates) != 1 {
		t.Errorf("unexpected config %+v", cfg)
	}
}
