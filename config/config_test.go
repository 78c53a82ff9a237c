package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Dosada05/league-engine/standings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost/league?sslmode=disable")
	t.Setenv("JWT_SECRET_KEY", "secret")
	t.Setenv("SERVER_PORT", "")
	t.Setenv("AUTO_CONFIRM_AFTER", "")
	t.Setenv("AUTO_CONFIRM_INTERVAL", "")
	t.Setenv("SCHEDULER", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")
	t.Setenv("TOURNAMENT_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
}

func TestLoad_Defaults(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("TOURNAMENT_CONFIG", "")
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, 24*time.Hour, cfg.AutoConfirmAfter)
	assert.Equal(t, 15*time.Minute, cfg.AutoConfirmInterval)
	assert.Equal(t, SchedulerRiver, cfg.Scheduler)
	assert.Equal(t, standings.DefaultPointsPolicy(), cfg.Tournament.Points)
	assert.False(t, cfg.R2Enabled())
	assert.Empty(t, cfg.AllowedOrigins)
}

func TestLoad_AllowedOrigins(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://league.example , ,http://localhost:3000")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://league.example", "http://localhost:3000"}, cfg.AllowedOrigins)
}

func TestLoad_MissingRequired(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("DATABASE_URL", "")
	_, err := Load()
	assert.ErrorContains(t, err, "DATABASE_URL")

	setBaseEnv(t)
	t.Setenv("JWT_SECRET_KEY", "")
	_, err = Load()
	assert.ErrorContains(t, err, "JWT_SECRET_KEY")
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"port not a number", "SERVER_PORT", "http"},
		{"port out of range", "SERVER_PORT", "70000"},
		{"bad duration", "AUTO_CONFIRM_AFTER", "a day"},
		{"negative interval", "AUTO_CONFIRM_INTERVAL", "-1m"},
		{"unknown scheduler", "SCHEDULER", "cron"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setBaseEnv(t)
			t.Setenv(tt.key, tt.val)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoad_ExplicitTournamentFileMustExist(t *testing.T) {
	setBaseEnv(t)
	_, err := Load()
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_TournamentFileAndEnvOverride(t *testing.T) {
	setBaseEnv(t)
	path := filepath.Join(t.TempDir(), "tournament.yaml")
	require.NoError(t, os.WriteFile(path, []byte("points:\n  win: 3\nauto_confirm_after: 12h\n"), 0o600))
	t.Setenv("TOURNAMENT_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Tournament.Points.Win)
	assert.Equal(t, 12*time.Hour, cfg.AutoConfirmAfter)

	t.Setenv("AUTO_CONFIRM_AFTER", "48h")
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, 48*time.Hour, cfg.AutoConfirmAfter)
}

func TestParseTournament_PartialPoints(t *testing.T) {
	raw := []byte(`
points:
  win: 3
  ot_loss: 2
  bonus: 5
`)
	tour, err := ParseTournament(raw)
	require.NoError(t, err)

	want := standings.DefaultPointsPolicy()
	want.Win = 3
	want.OTLoss = 2
	assert.Equal(t, want, tour.Points)
	assert.Equal(t, []string{"bonus"}, tour.UnknownPointKeys)
	assert.Zero(t, tour.AutoConfirmAfter)
}

func TestParseTournament_Invalid(t *testing.T) {
	_, err := ParseTournament([]byte("points: [1, 2]"))
	assert.Error(t, err)

	_, err = ParseTournament([]byte("auto_confirm_after: soon"))
	assert.Error(t, err)
}
