package config

import (
	"os"
	"strconv"
	"time"
)

// DatabaseConfig holds PostgreSQL database connection settings.
// The database is optional; an empty Host disables generation event storage.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// Enabled reports whether a database host has been configured.
func (c DatabaseConfig) Enabled() bool {
	return c.Host != ""
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// TemplateConfig selects where the member registration template is read from.
type TemplateConfig struct {
	Source    string // file or minio
	Path      string
	ObjectKey string
}

// ConverterConfig configures the external PDF converter.
type ConverterConfig struct {
	Binary     string
	TimeoutSec int
	TempDir    string
}

// Timeout returns the conversion timeout as a duration.
func (c ConverterConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSec) * time.Second
}

// LoggerConfig holds configuration for the zap logger.
type LoggerConfig struct {
	Level          string
	Format         string
	OutputPath     string
	EnableSampling bool
	ServiceName    string
	ServiceVersion string
	Environment    string
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost         string
	Port            string
	CORSAllowOrigin string
	Template        TemplateConfig
	Converter       ConverterConfig
	Logger          LoggerConfig
	Database        DatabaseConfig
	MinIO           MinIOConfig
}

const (
	TemplateSourceFile  = "file"
	TemplateSourceMinIO = "minio"
)

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost:         getEnv("APP_HOST", "localhost:3000"),
		Port:            getEnv("PORT", "3000"),
		CORSAllowOrigin: getEnv("CORS_ALLOW_ORIGIN", "http://localhost:5173"),
		Template: TemplateConfig{
			Source:    getEnv("TEMPLATE_SOURCE", TemplateSourceFile),
			Path:      getEnv("TEMPLATE_PATH", "templates/member-template.docx"),
			ObjectKey: getEnv("TEMPLATE_OBJECT_KEY", "templates/member-template.docx"),
		},
		Converter: ConverterConfig{
			Binary:     getEnv("CONVERTER_BIN", "soffice"),
			TimeoutSec: getEnvInt("CONVERTER_TIMEOUT_SEC", 60),
			TempDir:    getEnv("TEMP_DIR", "temp"),
		},
		Logger: LoggerConfig{
			Level:          getEnv("LOG_LEVEL", "info"),
			Format:         getEnv("LOG_FORMAT", "json"),
			OutputPath:     getEnv("LOG_OUTPUT_PATH", "stdout"),
			EnableSampling: getEnvBool("LOG_ENABLE_SAMPLING", false),
			ServiceName:    getEnv("SERVICE_NAME", "memberdoc"),
			ServiceVersion: getEnv("SERVICE_VERSION", "dev"),
			Environment:    getEnv("ENVIRONMENT", "development"),
		},
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", ""),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}
