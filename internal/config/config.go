package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all runtime configuration for the server.
// Every value has a development default; production deployments override via
// environment variables.
type Config struct {
	Env  string `env:"ARCAGYM_ENV" envDefault:"development"`
	Addr string `env:"ARCAGYM_ADDR" envDefault:":4000"`

	DBPath string `env:"ARCAGYM_DB_PATH" envDefault:"arcagym.db"`

	// TimeZone is the fixed civil zone for all local-day and slot-time math.
	TimeZone string `env:"ARCAGYM_TIMEZONE" envDefault:"America/Argentina/Buenos_Aires"`

	// AccessWindow is how long after a reservation's base instant self-service
	// entry stays permitted.
	AccessWindow time.Duration `env:"ARCAGYM_ACCESS_WINDOW" envDefault:"2h"`

	// Facility geofence: one fixed coordinate plus an allowed radius.
	FacilityLatitude  float64 `env:"ARCAGYM_FACILITY_LAT" envDefault:"-34.76058070354081"`
	FacilityLongitude float64 `env:"ARCAGYM_FACILITY_LON" envDefault:"-58.345231758538894"`
	GeofenceRadiusM   float64 `env:"ARCAGYM_GEOFENCE_RADIUS_M" envDefault:"100"`

	// TokenSecret signs short-lived QR access tokens. Required in production.
	TokenSecret string        `env:"ARCAGYM_TOKEN_SECRET"`
	TokenTTL    time.Duration `env:"ARCAGYM_TOKEN_TTL" envDefault:"5m"`

	// Email delivery (Resend). Empty key means the noop sender is used.
	ResendKey   string `env:"ARCAGYM_RESEND_KEY"`
	EmailFrom   string `env:"ARCAGYM_EMAIL_FROM" envDefault:"El Arca <noreply@elarcagym.com.ar>"`
	EmailReply  string `env:"ARCAGYM_EMAIL_REPLY_TO" envDefault:"info@elarcagym.com.ar"`
	CSRFKeyHex  string `env:"ARCAGYM_CSRF_KEY"`
	AdminEmail  string `env:"ARCAGYM_ADMIN_EMAIL" envDefault:"admin@elarcagym.com.ar"`
	AdminPasswd string `env:"ARCAGYM_ADMIN_PASSWORD" envDefault:"cambiar esta clave"`
}

// Load parses configuration from the environment and resolves the time zone.
// POST: Returns a validated Config and the loaded *time.Location
func Load() (Config, *time.Location, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, nil, fmt.Errorf("parse env: %w", err)
	}
	loc, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		return Config{}, nil, fmt.Errorf("load time zone %q: %w", cfg.TimeZone, err)
	}
	if cfg.AccessWindow <= 0 {
		return Config{}, nil, fmt.Errorf("access window must be positive, got %s", cfg.AccessWindow)
	}
	if cfg.GeofenceRadiusM <= 0 {
		return Config{}, nil, fmt.Errorf("geofence radius must be positive, got %f", cfg.GeofenceRadiusM)
	}
	if cfg.Env == "production" && cfg.TokenSecret == "" {
		return Config{}, nil, fmt.Errorf("ARCAGYM_TOKEN_SECRET is required in production")
	}
	return cfg, loc, nil
}
