package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	SchedulerRiver  = "river"
	SchedulerTicker = "ticker"

	defaultAutoConfirmAfter    = 24 * time.Hour
	defaultAutoConfirmInterval = 15 * time.Minute
	defaultTournamentConfig    = "tournament.yaml"
)

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	DatabaseURL  string
	JWTSecretKey string
	ServerPort   int

	// пусто, если CORS_ALLOWED_ORIGINS не задан
	AllowedOrigins []string

	AutoConfirmAfter    time.Duration
	AutoConfirmInterval time.Duration
	Scheduler           string

	TournamentConfigPath string
	Tournament           *Tournament

	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicBaseURL   string
}

// R2Enabled reports whether screenshot uploads are configured.
func (c *Config) R2Enabled() bool {
	return c.R2AccountID != "" && c.R2AccessKeyID != "" && c.R2SecretAccessKey != "" &&
		c.R2BucketName != "" && c.R2PublicBaseURL != ""
}

// Load загружает конфигурацию из переменных окружения.
// Опционально подгружает .env файл (полезно для локальной разработки).
func Load() (*Config, error) {
	// Загружаем .env файл, если он есть. Ошибку не считаем фатальной.
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	jwtKey := os.Getenv("JWT_SECRET_KEY")
	if jwtKey == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY environment variable is not set")
	}

	portStr := os.Getenv("SERVER_PORT")
	if portStr == "" {
		portStr = "8080" // Порт по умолчанию
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT environment variable: %w", err)
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}

	interval, err := durationEnv("AUTO_CONFIRM_INTERVAL", defaultAutoConfirmInterval)
	if err != nil {
		return nil, err
	}

	scheduler := os.Getenv("SCHEDULER")
	switch scheduler {
	case "":
		scheduler = SchedulerRiver
	case SchedulerRiver, SchedulerTicker:
	default:
		return nil, fmt.Errorf("SCHEDULER must be %q or %q, got %q", SchedulerRiver, SchedulerTicker, scheduler)
	}

	tournamentPath := os.Getenv("TOURNAMENT_CONFIG")
	explicitPath := tournamentPath != ""
	if !explicitPath {
		tournamentPath = defaultTournamentConfig
	}
	tournament, err := LoadTournament(tournamentPath)
	switch {
	case errors.Is(err, os.ErrNotExist) && !explicitPath:
		tournament = DefaultTournament()
	case err != nil:
		return nil, err
	}

	// переменная окружения важнее файла
	autoConfirmAfter := tournament.AutoConfirmAfter
	if autoConfirmAfter <= 0 {
		autoConfirmAfter = defaultAutoConfirmAfter
	}
	if autoConfirmAfter, err = durationEnv("AUTO_CONFIRM_AFTER", autoConfirmAfter); err != nil {
		return nil, err
	}

	cfg := &Config{
		DatabaseURL:          dbURL,
		JWTSecretKey:         jwtKey,
		ServerPort:           port,
		AllowedOrigins:       splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
		AutoConfirmAfter:     autoConfirmAfter,
		AutoConfirmInterval:  interval,
		Scheduler:            scheduler,
		TournamentConfigPath: tournamentPath,
		Tournament:           tournament,
		R2AccountID:          os.Getenv("R2_ACCOUNT_ID"),
		R2AccessKeyID:        os.Getenv("R2_ACCESS_KEY_ID"),
		R2SecretAccessKey:    os.Getenv("R2_SECRET_ACCESS_KEY"),
		R2BucketName:         os.Getenv("R2_BUCKET_NAME"),
		R2PublicBaseURL:      os.Getenv("R2_PUBLIC_BASE_URL"),
	}

	return cfg, nil
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", key, d)
	}
	return d, nil
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
