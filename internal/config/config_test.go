package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("JWT_SECRET_KEY", "test-secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "09:00", cfg.Attendance.WorkStartTime)
	assert.Equal(t, 0, cfg.Attendance.LateGraceMinutes)
	assert.Equal(t, 8.0, cfg.Attendance.StandardWorkHours)
	assert.Equal(t, 100.0, cfg.Office.MaxDistanceKm)
	assert.True(t, cfg.Office.LocationValidationEnabled)
	assert.Equal(t, 1000, cfg.Notification.QueueSize)

	start, err := cfg.WorkStart()
	require.NoError(t, err)
	assert.Equal(t, 9*time.Hour, start)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("JWT_SECRET_KEY", "test-secret")
	t.Setenv("WORK_START_TIME", "08:30")
	t.Setenv("LATE_GRACE_MINUTES", "15")
	t.Setenv("LOCATION_VALIDATION_ENABLED", "false")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	start, err := cfg.WorkStart()
	require.NoError(t, err)
	assert.Equal(t, 8*time.Hour+30*time.Minute, start)
	assert.Equal(t, 15, cfg.Attendance.LateGraceMinutes)
	assert.False(t, cfg.Office.LocationValidationEnabled)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.App.CORSOrigins)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"missing secret", map[string]string{"DB_DRIVER": "sqlite", "JWT_SECRET_KEY": ""}, "JWT_SECRET_KEY is required"},
		{"unknown driver", map[string]string{"DB_DRIVER": "mysql", "JWT_SECRET_KEY": "s"}, "DB_DRIVER must be"},
		{"postgres without password", map[string]string{"DB_DRIVER": "postgres", "JWT_SECRET_KEY": "s"}, "DB_PASSWORD is required"},
		{"bad work start", map[string]string{"DB_DRIVER": "sqlite", "JWT_SECRET_KEY": "s", "WORK_START_TIME": "9am"}, "WORK_START_TIME must be HH:MM"},
		{"bad timezone", map[string]string{"DB_DRIVER": "sqlite", "JWT_SECRET_KEY": "s", "APP_TIMEZONE": "Mars/Olympus"}, "APP_TIMEZONE is invalid"},
		{"bad number", map[string]string{"DB_DRIVER": "sqlite", "JWT_SECRET_KEY": "s", "MAX_DISTANCE_KM": "far"}, "invalid MAX_DISTANCE_KM"},
		{"admin email without password", map[string]string{"DB_DRIVER": "sqlite", "JWT_SECRET_KEY": "s", "ADMIN_EMAIL": "root@example.com"}, "must be set together"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
