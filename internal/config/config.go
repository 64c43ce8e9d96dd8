package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"remitra/internal/recon"
)

// Config holds all application configuration.
type Config struct {
	Server ServerConfig
	DB     DBConfig
	JWT    JWTConfig
	S3     S3Config
	Log    LogConfig
	Parser ParserConfig
	CORS   CORSConfig
	Queue  QueueConfig
	Email  EmailConfig
	Recon  ReconConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// JWTConfig holds JWT signing and expiry settings.
type JWTConfig struct {
	Secret             string        `mapstructure:"secret"`
	AccessTokenExpiry  time.Duration `mapstructure:"access_expiry"`
	RefreshTokenExpiry time.Duration `mapstructure:"refresh_expiry"`
	Issuer             string        `mapstructure:"issuer"`
}

// S3Config holds AWS S3 settings.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	MaxFileSizeMB int64  `mapstructure:"max_file_size_mb"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ParserConfig holds LLM document parser settings.
type ParserConfig struct {
	Provider     string `mapstructure:"provider"`
	APIKey       string `mapstructure:"api_key"`
	DefaultModel string `mapstructure:"default_model"`
	MaxRetries   int    `mapstructure:"max_retries"`
	TimeoutSecs  int    `mapstructure:"timeout_secs"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// QueueConfig holds upload pipeline worker settings.
type QueueConfig struct {
	Concurrency int `mapstructure:"concurrency"`
}

// EmailConfig holds email delivery settings.
type EmailConfig struct {
	Provider    string `mapstructure:"provider"`
	Region      string `mapstructure:"region"`
	FromAddress string `mapstructure:"from_address"`
	FromName    string `mapstructure:"from_name"`
	FrontendURL string `mapstructure:"frontend_url"`
}

// ReconConfig holds reconciliation engine tunables. Confusion sets are not
// exposed through the environment; the calibrated defaults apply.
type ReconConfig struct {
	TextThreshold   float64 `mapstructure:"text_threshold"`
	PlateThreshold  float64 `mapstructure:"plate_threshold"`
	NameThreshold   float64 `mapstructure:"name_threshold"`
	OCRCost         float64 `mapstructure:"ocr_cost"`
	MaxLengthDiff   int     `mapstructure:"max_length_diff"`
	ZeroCostCarrier string  `mapstructure:"zero_cost_carrier"`
}

// Engine converts the environment-facing settings into an engine config.
func (r *ReconConfig) Engine() recon.Config {
	cfg := recon.DefaultConfig()
	cfg.TextThreshold = r.TextThreshold
	cfg.PlateThreshold = r.PlateThreshold
	cfg.NameThreshold = r.NameThreshold
	cfg.OCRCost = r.OCRCost
	cfg.MaxLengthDiff = r.MaxLengthDiff
	cfg.ZeroCostCarrier = r.ZeroCostCarrier
	return cfg
}

// Load reads configuration from environment variables with the REMITRA_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("REMITRA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "remitra")
	v.SetDefault("db.password", "remitra_secret")
	v.SetDefault("db.name", "remitra_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// JWT defaults
	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.access_expiry", "15m")
	v.SetDefault("jwt.refresh_expiry", "168h")
	v.SetDefault("jwt.issuer", "remitra")

	// S3 defaults
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "remitra-waybills")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.max_file_size_mb", 50)
	v.SetDefault("s3.presign_expiry", 3600)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// Parser defaults
	v.SetDefault("parser.provider", "openai")
	v.SetDefault("parser.api_key", "")
	v.SetDefault("parser.default_model", "gpt-4o")
	v.SetDefault("parser.max_retries", 2)
	v.SetDefault("parser.timeout_secs", 120)

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Queue defaults
	v.SetDefault("queue.concurrency", 4)

	// Email defaults
	v.SetDefault("email.provider", "noop")
	v.SetDefault("email.region", "us-east-1")
	v.SetDefault("email.from_address", "noreply@remitra.pe")
	v.SetDefault("email.from_name", "Remitra")
	v.SetDefault("email.frontend_url", "http://localhost:3000")

	// Recon defaults mirror recon.DefaultConfig
	rd := recon.DefaultConfig()
	v.SetDefault("recon.text_threshold", rd.TextThreshold)
	v.SetDefault("recon.plate_threshold", rd.PlateThreshold)
	v.SetDefault("recon.name_threshold", rd.NameThreshold)
	v.SetDefault("recon.ocr_cost", rd.OCRCost)
	v.SetDefault("recon.max_length_diff", rd.MaxLengthDiff)
	v.SetDefault("recon.zero_cost_carrier", rd.ZeroCostCarrier)

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":             "REMITRA_SERVER_PORT",
		"server.read_timeout":     "REMITRA_SERVER_READ_TIMEOUT",
		"server.write_timeout":    "REMITRA_SERVER_WRITE_TIMEOUT",
		"server.environment":      "REMITRA_SERVER_ENVIRONMENT",
		"db.host":                 "REMITRA_DB_HOST",
		"db.port":                 "REMITRA_DB_PORT",
		"db.user":                 "REMITRA_DB_USER",
		"db.password":             "REMITRA_DB_PASSWORD",
		"db.name":                 "REMITRA_DB_NAME",
		"db.sslmode":              "REMITRA_DB_SSLMODE",
		"db.max_open":             "REMITRA_DB_MAX_OPEN",
		"db.max_idle":             "REMITRA_DB_MAX_IDLE",
		"jwt.secret":              "REMITRA_JWT_SECRET",
		"jwt.access_expiry":       "REMITRA_JWT_ACCESS_EXPIRY",
		"jwt.refresh_expiry":      "REMITRA_JWT_REFRESH_EXPIRY",
		"jwt.issuer":              "REMITRA_JWT_ISSUER",
		"s3.region":               "REMITRA_S3_REGION",
		"s3.bucket":               "REMITRA_S3_BUCKET",
		"s3.endpoint":             "REMITRA_S3_ENDPOINT",
		"s3.access_key":           "REMITRA_S3_ACCESS_KEY",
		"s3.secret_key":           "REMITRA_S3_SECRET_KEY",
		"s3.max_file_size_mb":     "REMITRA_S3_MAX_FILE_SIZE_MB",
		"s3.presign_expiry":       "REMITRA_S3_PRESIGN_EXPIRY",
		"log.level":               "REMITRA_LOG_LEVEL",
		"log.format":              "REMITRA_LOG_FORMAT",
		"parser.provider":         "REMITRA_PARSER_PROVIDER",
		"parser.api_key":          "REMITRA_PARSER_API_KEY",
		"parser.default_model":    "REMITRA_PARSER_DEFAULT_MODEL",
		"parser.max_retries":      "REMITRA_PARSER_MAX_RETRIES",
		"parser.timeout_secs":     "REMITRA_PARSER_TIMEOUT_SECS",
		"cors.allowed_origins":    "REMITRA_CORS_ALLOWED_ORIGINS",
		"queue.concurrency":       "REMITRA_QUEUE_CONCURRENCY",
		"email.provider":          "REMITRA_EMAIL_PROVIDER",
		"email.region":            "REMITRA_EMAIL_REGION",
		"email.from_address":      "REMITRA_EMAIL_FROM_ADDRESS",
		"email.from_name":         "REMITRA_EMAIL_FROM_NAME",
		"email.frontend_url":      "REMITRA_EMAIL_FRONTEND_URL",
		"recon.text_threshold":    "REMITRA_RECON_TEXT_THRESHOLD",
		"recon.plate_threshold":   "REMITRA_RECON_PLATE_THRESHOLD",
		"recon.name_threshold":    "REMITRA_RECON_NAME_THRESHOLD",
		"recon.ocr_cost":          "REMITRA_RECON_OCR_COST",
		"recon.max_length_diff":   "REMITRA_RECON_MAX_LENGTH_DIFF",
		"recon.zero_cost_carrier": "REMITRA_RECON_ZERO_COST_CARRIER",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if REMITRA_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("REMITRA_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.JWT = JWTConfig{
		Secret:             v.GetString("jwt.secret"),
		AccessTokenExpiry:  v.GetDuration("jwt.access_expiry"),
		RefreshTokenExpiry: v.GetDuration("jwt.refresh_expiry"),
		Issuer:             v.GetString("jwt.issuer"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		MaxFileSizeMB: v.GetInt64("s3.max_file_size_mb"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.Parser = ParserConfig{
		Provider:     v.GetString("parser.provider"),
		APIKey:       v.GetString("parser.api_key"),
		DefaultModel: v.GetString("parser.default_model"),
		MaxRetries:   v.GetInt("parser.max_retries"),
		TimeoutSecs:  v.GetInt("parser.timeout_secs"),
	}

	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: corsOrigins,
	}

	cfg.Queue = QueueConfig{
		Concurrency: v.GetInt("queue.concurrency"),
	}

	cfg.Email = EmailConfig{
		Provider:    v.GetString("email.provider"),
		Region:      v.GetString("email.region"),
		FromAddress: v.GetString("email.from_address"),
		FromName:    v.GetString("email.from_name"),
		FrontendURL: v.GetString("email.frontend_url"),
	}

	cfg.Recon = ReconConfig{
		TextThreshold:   v.GetFloat64("recon.text_threshold"),
		PlateThreshold:  v.GetFloat64("recon.plate_threshold"),
		NameThreshold:   v.GetFloat64("recon.name_threshold"),
		OCRCost:         v.GetFloat64("recon.ocr_cost"),
		MaxLengthDiff:   v.GetInt("recon.max_length_diff"),
		ZeroCostCarrier: v.GetString("recon.zero_cost_carrier"),
	}

	return cfg, nil
}
