package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	MailModeMailto = "mailto"
	MailModeSMTP   = "smtp"
)

type Config struct {
	Port         string
	DBDriver     string
	DatabaseURL  string
	UploadDir    string
	LogLevel     string
	SettingsFile string

	JWTSecret string
	TokenTTL  time.Duration

	AdminUsername        string
	AdminPasswordHash    string
	EmployeePasswordHash string

	Mail MailConfig
}

type MailConfig struct {
	Mode     string
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Load reads configuration from the environment. Variables from the settings
// file (SETTINGS_FILE, default .env) are applied first without overriding
// anything already set in the process environment.
func Load() (Config, error) {
	settingsFile := getEnv("SETTINGS_FILE", ".env")
	if _, err := os.Stat(settingsFile); err == nil {
		if err := applySettingsFile(settingsFile); err != nil {
			return Config{}, fmt.Errorf("load settings file %s: %w", settingsFile, err)
		}
	}

	cfg := Config{
		Port:          getEnv("APP_PORT", "8080"),
		DBDriver:      strings.ToLower(getEnv("DB_DRIVER", DriverSQLite)),
		DatabaseURL:   getEnv("DATABASE_URL", "onboarding.db"),
		UploadDir:     getEnv("UPLOAD_DIR", "uploaded_requirements"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		SettingsFile:  settingsFile,
		JWTSecret:     os.Getenv("JWT_SECRET"),
		AdminUsername: getEnv("ADMIN_USERNAME", "admin"),

		AdminPasswordHash:    os.Getenv("ADMIN_PASSWORD_HASH"),
		EmployeePasswordHash: os.Getenv("EMPLOYEE_PASSWORD_HASH"),

		Mail: MailConfig{
			Mode:     strings.ToLower(getEnv("MAIL_MODE", MailModeMailto)),
			Host:     os.Getenv("SMTP_HOST"),
			Username: os.Getenv("SMTP_USERNAME"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     os.Getenv("SMTP_FROM"),
		},
	}

	ttl, err := time.ParseDuration(getEnv("TOKEN_TTL", "24h"))
	if err != nil {
		return Config{}, fmt.Errorf("TOKEN_TTL: %w", err)
	}
	cfg.TokenTTL = ttl

	port, err := strconv.Atoi(getEnv("SMTP_PORT", "587"))
	if err != nil {
		return Config{}, fmt.Errorf("SMTP_PORT: %w", err)
	}
	cfg.Mail.Port = port

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.DBDriver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("DB_DRIVER must be one of: %s, %s", DriverSQLite, DriverPostgres)
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET required")
	}
	if c.AdminPasswordHash == "" {
		return fmt.Errorf("ADMIN_PASSWORD_HASH required")
	}
	if c.EmployeePasswordHash == "" {
		return fmt.Errorf("EMPLOYEE_PASSWORD_HASH required")
	}

	switch c.Mail.Mode {
	case MailModeMailto:
	case MailModeSMTP:
		if c.Mail.Host == "" || c.Mail.From == "" {
			return fmt.Errorf("SMTP_HOST and SMTP_FROM required when MAIL_MODE=smtp")
		}
	default:
		return fmt.Errorf("MAIL_MODE must be one of: %s, %s", MailModeMailto, MailModeSMTP)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return defaultValue
}
