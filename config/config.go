package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config хранит все конфигурационные параметры приложения.
// Создаётся один раз в main и передаётся компонентам явно.
type Config struct {
	AppName    string
	AppVersion string
	Debug      bool
	ServerPort int
	LogLevel   slog.Level

	DatabaseURL string
	AutoMigrate bool

	JWTSecretKey      string
	JWTAlgorithm      string
	AccessTokenExpiry time.Duration

	UploadDir     string
	MaxUploadSize int64

	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicBaseURL   string

	SMSAPIKey string
	SMSAPIURL string

	CORSOrigins []string
	// TrustProxy включает разбор X-Forwarded-For; только за доверенным прокси.
	TrustProxy bool
}

// Load загружает конфигурацию из переменных окружения.
// Опционально подгружает .env файл (полезно для локальной разработки).
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromLookup(os.LookupEnv)
}

// FromLookup собирает Config через произвольный источник переменных.
func FromLookup(lookup func(string) (string, bool)) (*Config, error) {
	get := func(key, def string) string {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return def
	}

	cfg := &Config{
		AppName:           get("APP_NAME", "CAMMA API"),
		AppVersion:        get("APP_VERSION", "1.0.0"),
		DatabaseURL:       get("DATABASE_URL", ""),
		JWTSecretKey:      get("JWT_SECRET_KEY", ""),
		JWTAlgorithm:      strings.ToUpper(get("JWT_ALGORITHM", "HS256")),
		UploadDir:         get("UPLOAD_DIR", "uploads"),
		R2AccountID:       get("R2_ACCOUNT_ID", ""),
		R2AccessKeyID:     get("R2_ACCESS_KEY_ID", ""),
		R2SecretAccessKey: get("R2_SECRET_ACCESS_KEY", ""),
		R2BucketName:      get("R2_BUCKET_NAME", ""),
		R2PublicBaseURL:   get("R2_PUBLIC_BASE_URL", ""),
		SMSAPIKey:         get("SMS_API_KEY", ""),
		SMSAPIURL:         get("SMS_API_URL", ""),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}
	if cfg.JWTSecretKey == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY environment variable is not set")
	}
	switch cfg.JWTAlgorithm {
	case "HS256", "HS384", "HS512":
	default:
		return nil, fmt.Errorf("unsupported JWT_ALGORITHM %q: expected HS256, HS384 or HS512", cfg.JWTAlgorithm)
	}

	port, err := strconv.Atoi(get("SERVER_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT environment variable: %w", err)
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}
	cfg.ServerPort = port

	minutes, err := strconv.Atoi(get("ACCESS_TOKEN_EXPIRE_MINUTES", "30"))
	if err != nil || minutes <= 0 {
		return nil, fmt.Errorf("ACCESS_TOKEN_EXPIRE_MINUTES must be a positive integer")
	}
	cfg.AccessTokenExpiry = time.Duration(minutes) * time.Minute

	maxUpload, err := strconv.ParseInt(get("MAX_UPLOAD_SIZE", "10485760"), 10, 64)
	if err != nil || maxUpload <= 0 {
		return nil, fmt.Errorf("MAX_UPLOAD_SIZE must be a positive integer")
	}
	cfg.MaxUploadSize = maxUpload

	if cfg.Debug, err = strconv.ParseBool(get("DEBUG", "false")); err != nil {
		return nil, fmt.Errorf("invalid DEBUG environment variable: %w", err)
	}
	if cfg.AutoMigrate, err = strconv.ParseBool(get("AUTO_MIGRATE", "true")); err != nil {
		return nil, fmt.Errorf("invalid AUTO_MIGRATE environment variable: %w", err)
	}
	if cfg.TrustProxy, err = strconv.ParseBool(get("TRUST_PROXY", "false")); err != nil {
		return nil, fmt.Errorf("invalid TRUST_PROXY environment variable: %w", err)
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(get("LOG_LEVEL", "INFO"))); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL environment variable: %w", err)
	}

	for _, origin := range strings.Split(get("CORS_ORIGINS", "*"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, origin)
		}
	}

	return cfg, nil
}
