package config

import (
	"os"
	"sync"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

type Config struct {
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`
	Port        string `envconfig:"PORT"         default:":8080"`
	LogLevel    string `envconfig:"LOG_LEVEL"    default:"info"`
	JWTSecret   string `envconfig:"JWT_SECRET"   required:"true"`
	BaseURL     string `envconfig:"BASE_URL"     default:"http://localhost:8080"`

	// Outbound mail. Leaving SMTPHost empty disables delivery; order flow
	// treats send failures as log-only anyway.
	SMTPHost     string `envconfig:"SMTP_HOST"`
	SMTPPort     string `envconfig:"SMTP_PORT"     default:"587"`
	SMTPUser     string `envconfig:"SMTP_USER"`
	SMTPPassword string `envconfig:"SMTP_PASSWORD"`
	EmailFrom    string `envconfig:"EMAIL_FROM"    default:"no-reply@josam.shop"`
	AdminEmail   string `envconfig:"ADMIN_EMAIL"`
}

var (
	config Config
	once   sync.Once
)

func LoadConfig(logger *logrus.Logger) *Config {
	once.Do(func() {
		err := godotenv.Load()
		if err != nil && !os.IsNotExist(err) {
			logger.Warnf("Error loading .env file (but continuing): %v", err)
		} else if err == nil {
			logger.Info("Loaded configuration from .env file")
		}

		err = envconfig.Process("", &config)
		if err != nil {
			logger.Fatalf("Failed to process configuration from environment variables: %v", err)
		}

		logger.Infof("Configuration loaded: Port=%s, LogLevel=%s", config.Port, config.LogLevel)
		if config.SMTPHost == "" {
			logger.Warn("SMTP_HOST is not set, outbound email is disabled")
		}
	})
	return &config
}
