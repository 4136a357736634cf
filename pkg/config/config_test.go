package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper(overrides map[string]interface{}) *viper.Viper {
	v := viper.New()
	setDefaults(v)
	for k, val := range overrides {
		v.Set(k, val)
	}
	return v
}

func TestFromViperDefaults(t *testing.T) {
	cfg, err := fromViper(newViper(nil))
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, BackendHTTP, cfg.Backend.Driver)
	assert.Equal(t, 10*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, 30, cfg.Booking.HorizonDays)
	assert.Equal(t, 7, cfg.Booking.OpenHour)
	assert.Equal(t, 18, cfg.Booking.CloseHour)
	assert.False(t, cfg.Booking.LenientEnd)
	assert.Equal(t, 10*time.Minute, cfg.Directory.CacheTTL)
	assert.True(t, cfg.Reports.ExportEnabled)
}

func TestFromViperOverrides(t *testing.T) {
	cfg, err := fromViper(newViper(map[string]interface{}{
		"BACKEND_DRIVER":      "Postgres",
		"BACKEND_TIMEOUT":     "bogus",
		"ALLOWED_ORIGINS":     " http://a.test , ,http://b.test",
		"BOOKING_LENIENT_END": true,
		"BOOKING_TIMEZONE":    "Not/AZone",
	}))
	require.NoError(t, err)

	assert.Equal(t, BackendPostgres, cfg.Backend.Driver)
	assert.Equal(t, 10*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORS.AllowedOrigins)
	assert.True(t, cfg.Booking.LenientEnd)
	assert.Equal(t, time.UTC, cfg.Booking.Location())
}

func TestFromViperRejectsUnknownDriver(t *testing.T) {
	_, err := fromViper(newViper(map[string]interface{}{"BACKEND_DRIVER": "mongo"}))
	assert.Error(t, err)

	_, err = fromViper(newViper(map[string]interface{}{"BACKEND_BASE_URL": ""}))
	assert.Error(t, err)
}

func TestFromViperResolvesTimezone(t *testing.T) {
	cfg, err := fromViper(newViper(nil))
	require.NoError(t, err)
	assert.Equal(t, "America/Mexico_City", cfg.Booking.Location().String())

	cfg, err = fromViper(newViper(map[string]interface{}{"BOOKING_TIMEZONE": ""}))
	require.NoError(t, err)
	assert.Equal(t, time.UTC, cfg.Booking.Location())

	_, err = fromViper(newViper(map[string]interface{}{"BOOKING_TIMEZONE": "America/Mexico_Cty"}))
	assert.ErrorContains(t, err, "BOOKING_TIMEZONE")
}
