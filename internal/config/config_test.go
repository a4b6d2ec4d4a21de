package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, -3, cfg.Schedule.UTCOffsetHours)
	assert.Equal(t, 2, cfg.Schedule.StoreCapacity)
	assert.Equal(t, 1, cfg.Schedule.MobileCapacity)
	assert.Equal(t, []int{1, 2}, cfg.Schedule.StoreWeekdays)
	assert.Len(t, cfg.Schedule.Condominiums, 3)
	assert.False(t, cfg.Schedule.BlockForwardOverlap)
	assert.Equal(t, 12*time.Second, cfg.Webhooks.Timeout)
	assert.Equal(t, 10.0, cfg.Pricing.SubscriptionDiscount)
	assert.Len(t, cfg.Pricing.Tiers, 7)

	policy := cfg.Schedule.Policy()
	wd, ok := policy.CondominiumWeekday("vitta parque")
	require.True(t, ok)
	assert.Equal(t, time.Wednesday, wd)
}

func TestLoadFileAndEnvironment(t *testing.T) {
	dir := t.TempDir()
	yaml := `
schedule:
  store_capacity: 3
  store_weekdays: [1, 2, 6]
  condominiums:
    - name: Vitta Parque
      weekday: 4
  recurrence_horizon: "2026-06-30"
webhooks:
  store_created: https://hooks.example/store
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600))

	t.Setenv("SCHEDULE_MOBILE_CAPACITY", "0")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("BOOKING_SESSION_TTL", "30m")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, ":9090", cfg.Addr())
	assert.Equal(t, 3, cfg.Schedule.StoreCapacity)
	assert.Equal(t, 1, cfg.Schedule.MobileCapacity, "zero falls back to the default")
	assert.Equal(t, []int{1, 2, 6}, cfg.Schedule.StoreWeekdays)
	assert.Equal(t, "2026-06-30", cfg.Schedule.RecurrenceHorizon)
	assert.Equal(t, "https://hooks.example/store", cfg.Webhooks.StoreCreated)
	assert.Equal(t, 30*time.Minute, cfg.Booking.SessionTTL)

	policy := cfg.Schedule.Policy()
	wd, ok := policy.CondominiumWeekday("Vitta Parque")
	require.True(t, ok)
	assert.Equal(t, time.Thursday, wd)
	assert.Contains(t, policy.StoreWeekdays, time.Saturday)
}
