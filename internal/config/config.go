package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// DSN returns the GORM/pgx connection string.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// DatabaseURL returns the URL form used by golang-migrate.
func (c DatabaseConfig) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode)
}

// JWTConfig holds token signing settings.
type JWTConfig struct {
	Secret string
}

// KafkaConfig holds broker and consumer-group settings.
type KafkaConfig struct {
	Brokers     []string
	GroupPrefix string
}

// AdminConfig holds the bootstrap admin account. The password is stored as a
// bcrypt hash; the legacy client-side passcode gate is intentionally gone.
type AdminConfig struct {
	Email        string
	PasswordHash string
}

// ServiceConfig holds all configuration for the pricing service.
type ServiceConfig struct {
	Port               string
	AppEnv             string
	CORSAllowedOrigins []string
	DBConfig           DatabaseConfig
	JWTConfig          JWTConfig
	KafkaConfig        KafkaConfig
	AdminConfig        AdminConfig
	ValidateRatePerSec float64
	ValidateRateBurst  int
}

// Load reads configuration from the environment (and .env in development)
// and returns a ServiceConfig.
func Load() (*ServiceConfig, error) {
	// .env is a development convenience; missing file is fine.
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("APP_ENV", "development")
	v.SetDefault("SERVICE_PORT", "8086")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "pricing")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("KAFKA_BROKERS", "localhost:9092")
	v.SetDefault("KAFKA_GROUP_PREFIX", "ammstro-")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("VALIDATE_RATE_PER_SEC", 5.0)
	v.SetDefault("VALIDATE_RATE_BURST", 10)

	if v.GetString("APP_ENV") != "development" && v.GetString("JWT_SECRET") == "" {
		return nil, fmt.Errorf("JWT_SECRET is required outside development")
	}

	cfg := &ServiceConfig{
		Port:               ":" + strings.TrimPrefix(v.GetString("SERVICE_PORT"), ":"),
		AppEnv:             v.GetString("APP_ENV"),
		CORSAllowedOrigins: splitCSV(v.GetString("CORS_ALLOWED_ORIGINS")),
		DBConfig: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		JWTConfig: JWTConfig{
			Secret: withDefault(v.GetString("JWT_SECRET"), "dev-secret-do-not-use"),
		},
		KafkaConfig: KafkaConfig{
			Brokers:     splitCSV(v.GetString("KAFKA_BROKERS")),
			GroupPrefix: v.GetString("KAFKA_GROUP_PREFIX"),
		},
		AdminConfig: AdminConfig{
			Email:        v.GetString("ADMIN_EMAIL"),
			PasswordHash: v.GetString("ADMIN_PASSWORD_HASH"),
		},
		ValidateRatePerSec: v.GetFloat64("VALIDATE_RATE_PER_SEC"),
		ValidateRateBurst:  v.GetInt("VALIDATE_RATE_BURST"),
	}

	return cfg, nil
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func withDefault(val, fallback string) string {
	if val == "" {
		return fallback
	}
	return val
}
