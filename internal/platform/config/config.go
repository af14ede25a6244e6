// Pacote config centraliza o carregamento das variáveis de ambiente usadas pelos binários.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config agrega todos os parâmetros necessários para API, worker e votectl.
type Config struct {
	HTTPAddress string
	LogLevel    string

	DBDriver   string
	SQLitePath string

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	OTPQueueKey string

	RateLimitEnabled       bool
	RateLimitMaxActions    int
	RateLimitWindowSeconds int
	RateLimitKeyPrefix     string

	AutoMigrate bool

	WorkerMetricsAddress string

	JWTSecret string
	TokenTTL  time.Duration
	OTPTTL    time.Duration
}

// Load lê um .env opcional do diretório corrente antes das variáveis do processo.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("config: ler .env: %w", err)
	}
	return FromEnv()
}

// FromEnv monta a Config apenas com o ambiente já carregado.
func FromEnv() (Config, error) {
	// Defaults priorizam execução local; variáveis permitem sobrescrever em Docker/K8s.
	cfg := Config{
		HTTPAddress:            getEnv("HTTP_ADDRESS", ":8080"),
		LogLevel:               getEnv("LOG_LEVEL", "info"),
		DBDriver:               getEnv("DB_DRIVER", DriverPostgres),
		SQLitePath:             getEnv("SQLITE_PATH", "urna.db"),
		PostgresHost:           getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:           getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:           getEnv("POSTGRES_USER", "urna"),
		PostgresPassword:       getEnv("POSTGRES_PASSWORD", "urna"),
		PostgresDB:             getEnv("POSTGRES_DB", "urna_online"),
		PostgresSSLMode:        getEnv("POSTGRES_SSLMODE", "disable"),
		RedisAddr:              getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:          os.Getenv("REDIS_PASSWORD"),
		OTPQueueKey:            getEnv("REDIS_OTP_QUEUE", "fila:otp"),
		RateLimitEnabled:       getEnvAsBool("ANTIFRAUDE_RATE_LIMIT_ENABLED", true),
		RateLimitMaxActions:    getEnvAsInt("ANTIFRAUDE_RATE_LIMIT_MAX", 30),
		RateLimitWindowSeconds: getEnvAsInt("ANTIFRAUDE_RATE_LIMIT_WINDOW", 60),
		RateLimitKeyPrefix:     getEnv("ANTIFRAUDE_RATE_LIMIT_PREFIX", "ratelimit"),
		AutoMigrate:            getEnvAsBool("DB_AUTO_MIGRATE", true),
		WorkerMetricsAddress:   getEnv("WORKER_METRICS_ADDRESS", ":9090"),
		JWTSecret:              os.Getenv("JWT_SECRET"),
	}

	dbInt, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return Config{}, fmt.Errorf("config: REDIS_DB invalido: %w", err)
	}
	cfg.RedisDB = dbInt

	tokenMin, err := strconv.Atoi(getEnv("TOKEN_TTL_MINUTES", "60"))
	if err != nil || tokenMin <= 0 {
		return Config{}, fmt.Errorf("config: TOKEN_TTL_MINUTES invalido: %q", os.Getenv("TOKEN_TTL_MINUTES"))
	}
	cfg.TokenTTL = time.Duration(tokenMin) * time.Minute

	otpMin, err := strconv.Atoi(getEnv("OTP_TTL_MINUTES", "10"))
	if err != nil || otpMin <= 0 {
		return Config{}, fmt.Errorf("config: OTP_TTL_MINUTES invalido: %q", os.Getenv("OTP_TTL_MINUTES"))
	}
	cfg.OTPTTL = time.Duration(otpMin) * time.Minute

	switch cfg.DBDriver {
	case DriverPostgres, DriverSQLite:
	default:
		return Config{}, fmt.Errorf("config: DB_DRIVER desconhecido: %q", cfg.DBDriver)
	}

	return cfg, nil
}

// RequireJWTSecret é chamado apenas pelos binários que emitem ou validam tokens.
func (c Config) RequireJWTSecret() error {
	if c.JWTSecret == "" {
		return errors.New("config: JWT_SECRET obrigatorio")
	}
	return nil
}

func (c Config) RateLimitWindow() time.Duration {
	return time.Duration(c.RateLimitWindowSeconds) * time.Second
}

func (c Config) PostgresDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.PostgresUser,
		c.PostgresPassword,
		c.PostgresHost,
		c.PostgresPort,
		c.PostgresDB,
		c.PostgresSSLMode,
	)
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getEnvAsInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return i
}

func getEnvAsBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	switch value {
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return true
	}
}
