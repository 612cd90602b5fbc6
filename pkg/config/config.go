package config

import (
	"os"
	"strconv"
)

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

// MQConfig holds the RabbitMQ connection URL.
type MQConfig struct {
	URL string `yaml:"url"`
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// JWTConfig holds the token signing secret.
type JWTConfig struct {
	Secret string `yaml:"secret"`
}

// ServerConfig holds the HTTP listen port.
type ServerConfig struct {
	Port string `yaml:"port"`
}

// MailConfig holds SMTP delivery settings for the mailer worker.
type MailConfig struct {
	Host        string `yaml:"host"`
	Port        int    `yaml:"port"`
	Username    string `yaml:"username"`
	Password    string `yaml:"password"`
	FromName    string `yaml:"from_name"`
	FromAddress string `yaml:"from_address"`
	FrontendURL string `yaml:"frontend_url"`
}

// ReminderConfig controls the deadline reminder scheduler.
type ReminderConfig struct {
	Enabled        bool `yaml:"enabled"`
	ScanIntervalMS int  `yaml:"scan_interval_ms"`
}

// OverrideDBFromEnv overrides DB settings from environment variables.
func OverrideDBFromEnv(cfg *DBConfig) {
	if host := os.Getenv("DB_HOST"); host != "" {
		cfg.Host = host
	}
	if port := os.Getenv("DB_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Port = p
		}
	}
	if user := os.Getenv("DB_USER"); user != "" {
		cfg.User = user
	}
	if password := os.Getenv("DB_PASSWORD"); password != "" {
		cfg.Password = password
	}
	if name := os.Getenv("DB_NAME"); name != "" {
		cfg.Name = name
	}
}

// OverrideMQFromEnv overrides the MQ URL from environment variables.
func OverrideMQFromEnv(cfg *MQConfig) {
	if url := os.Getenv("MQ_URL"); url != "" {
		cfg.URL = url
	}
}

// OverrideRedisFromEnv overrides Redis settings from environment variables.
func OverrideRedisFromEnv(cfg *RedisConfig) {
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cfg.Addr = addr
	}
	if password := os.Getenv("REDIS_PASSWORD"); password != "" {
		cfg.Password = password
	}
}

// OverrideJWTFromEnv overrides the JWT secret from environment variables.
func OverrideJWTFromEnv(cfg *JWTConfig) {
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		cfg.Secret = secret
	}
}

// OverrideServerFromEnv overrides the HTTP port from environment variables.
func OverrideServerFromEnv(cfg *ServerConfig) {
	if port := os.Getenv("SERVER_PORT"); port != "" {
		cfg.Port = port
	}
}

// OverrideMailFromEnv overrides SMTP settings from environment variables.
func OverrideMailFromEnv(cfg *MailConfig) {
	if host := os.Getenv("SMTP_HOST"); host != "" {
		cfg.Host = host
	}
	if port := os.Getenv("SMTP_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Port = p
		}
	}
	if user := os.Getenv("SMTP_USERNAME"); user != "" {
		cfg.Username = user
	}
	if password := os.Getenv("SMTP_PASSWORD"); password != "" {
		cfg.Password = password
	}
	if from := os.Getenv("SMTP_FROM_ADDRESS"); from != "" {
		cfg.FromAddress = from
	}
	if url := os.Getenv("FRONTEND_URL"); url != "" {
		cfg.FrontendURL = url
	}
}

// OverrideReminderFromEnv overrides reminder scheduler settings from
// environment variables.
func OverrideReminderFromEnv(cfg *ReminderConfig) {
	if enabled := os.Getenv("REMINDER_EMAILS_ENABLED"); enabled != "" {
		cfg.Enabled = enabled == "true" || enabled == "1"
	}
	if interval := os.Getenv("REMINDER_SCAN_INTERVAL_MS"); interval != "" {
		if ms, err := strconv.Atoi(interval); err == nil {
			cfg.ScanIntervalMS = ms
		}
	}
}
