package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

const (
	// DebugMode indicates service mode is debug.
	DebugMode = "debug"
	// TestMode indicates service mode is test.
	TestMode = "test"
	// ReleaseMode indicates service mode is release.
	ReleaseMode = "release"
)

type Config struct {
	ServiceName string
	HTTPPort    int
	Environment string // debug, test, release

	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBDatabase string
	DBMaxConns int32
	// DBCreateIfMissing creates DBDatabase on startup, connecting to the
	// maintenance database "postgres" with the same credentials.
	DBCreateIfMissing bool

	CORSAllowedOrigins []string
}

// Load reads .env (if present) and the process environment.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg := Config{}

	cfg.ServiceName = cast.ToString(getOrReturnDefaultValue("SERVICE_NAME", "relmap"))
	cfg.HTTPPort = cast.ToInt(getOrReturnDefaultValue("HTTP_PORT", 8000))
	cfg.Environment = cast.ToString(getOrReturnDefaultValue("ENVIRONMENT", DebugMode))

	cfg.DBHost = cast.ToString(getOrReturnDefaultValue("DB_HOST", "localhost"))
	cfg.DBPort = cast.ToInt(getOrReturnDefaultValue("DB_PORT", 5432))
	cfg.DBUser = cast.ToString(getOrReturnDefaultValue("DB_USERNAME", "postgres"))
	cfg.DBPassword = cast.ToString(getOrReturnDefaultValue("DB_PASSWORD", ""))
	cfg.DBDatabase = cast.ToString(getOrReturnDefaultValue("DB_DATABASE", "relmap"))
	cfg.DBMaxConns = cast.ToInt32(getOrReturnDefaultValue("DB_MAX_CONNS", 25))
	cfg.DBCreateIfMissing = cast.ToBool(getOrReturnDefaultValue("DB_CREATE_IF_MISSING", false))

	origins := cast.ToString(getOrReturnDefaultValue("CORS_ALLOWED_ORIGINS", "*"))
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, o)
		}
	}

	return cfg
}

// DSN builds a postgres:// URL, escaping credentials and the database name.
func (c Config) DSN() string {
	return c.dsnFor(c.DBDatabase)
}

// MaintenanceDSN points at the "postgres" database of the same server.
func (c Config) MaintenanceDSN() string {
	return c.dsnFor("postgres")
}

func (c Config) dsnFor(database string) string {
	userInfo := url.UserPassword(c.DBUser, c.DBPassword)
	return fmt.Sprintf(
		"postgres://%s@%s:%d/%s?sslmode=disable",
		userInfo.String(),
		c.DBHost,
		c.DBPort,
		url.PathEscape(database),
	)
}

func getOrReturnDefaultValue(key string, defaultValue interface{}) interface{} {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	return defaultValue
}
