package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"API_URL", "HTTP_TIMEOUT", "LOG_LEVEL", "DEBUG", "WEIGHT_LIMIT_KG", "VOLUME_LIMIT_CM3", "USER_ID", "TRIP_ID"} {
		t.Setenv(Prefix+"_"+k, "")
		_ = os.Unsetenv(Prefix + "_" + k)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8000", cfg.APIURL)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 20.0, cfg.WeightLimitKg)
	assert.Equal(t, 40000.0, cfg.VolumeLimitCm3)
	assert.Empty(t, cfg.TripID)
}

func TestLoad_EnvOverride(t *testing.T) {
	clearEnv(t)
	t.Setenv("PACKMATE_API_URL", "http://api.test")
	t.Setenv("PACKMATE_HTTP_TIMEOUT", "5s")
	t.Setenv("PACKMATE_TRIP_ID", "t1")
	t.Setenv("PACKMATE_WEIGHT_LIMIT_KG", "23")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "http://api.test", cfg.APIURL)
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "t1", cfg.TripID)
	assert.Equal(t, 23.0, cfg.WeightLimitKg)
}

func TestLoad_DotEnvFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("PACKMATE_USER_ID=u42\nPACKMATE_LOG_LEVEL=debug\n"), 0o600))
	t.Cleanup(func() {
		_ = os.Unsetenv("PACKMATE_USER_ID")
		_ = os.Unsetenv("PACKMATE_LOG_LEVEL")
	})

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "u42", cfg.UserID)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_EnvWinsOverDotEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PACKMATE_TRIP_ID", "from-env")
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("PACKMATE_TRIP_ID=from-file\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.TripID)
}

func TestLoad_Invalid(t *testing.T) {
	clearEnv(t)
	t.Setenv("PACKMATE_LOG_LEVEL", "chatty")
	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)

	clearEnv(t)
	t.Setenv("PACKMATE_HTTP_TIMEOUT", "0s")
	_, err = Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]zerolog.Level{
		"debug": zerolog.DebugLevel,
		"INFO":  zerolog.InfoLevel,
		"":      zerolog.InfoLevel,
		"Warn":  zerolog.WarnLevel,
		"error": zerolog.ErrorLevel,
	} {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestInitLoggerTo_RendersStack(t *testing.T) {
	prev := log.Logger
	t.Cleanup(func() { log.Logger = prev })

	var buf bytes.Buffer
	InitLoggerTo(&buf)
	SetLogLevel(zerolog.DebugLevel)
	log.Error().Stack().Err(errors.New("boom")).Msg("failed")

	out := buf.String()
	assert.Contains(t, out, "failed")
	assert.Contains(t, out, "boom")
	assert.Contains(t, out, "stack")
}
