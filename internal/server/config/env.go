package config

import (
	"errors"
	"io/fs"
	"net"
	"net/url"
	"os"
	"time"

	"github.com/dmitrijs2005/devicekeeper/internal/flagx"
	"github.com/joho/godotenv"
)

// parseEnv loads the dotenv file (-e/-env, ".env" by default) into the
// process environment without overriding variables already set, then
// overlays the recognized variables:
//
//	GRPC_ADDRESS, DATABASE_DSN, STORAGE, DEVICE_SCHEMA, AUTH_SCHEMA,
//	LOG_LEVEL, LOG_FORMAT, HEALTH_CHECK_INTERVAL
//
// When DATABASE_DSN is unset but DB_HOST is, the DSN is assembled from
// DB_HOST, DB_PORT, DB_USER, DB_PASSWORD, DB_NAME and DB_SSLMODE.
func parseEnv(config *Config) {
	envFile, explicit := flagx.EnvFileFlags()
	if err := godotenv.Load(envFile); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			panic(err)
		}
	}

	setString(&config.EndpointAddrGRPC, os.Getenv("GRPC_ADDRESS"))
	setString(&config.Storage, os.Getenv("STORAGE"))
	setString(&config.DeviceSchema, os.Getenv("DEVICE_SCHEMA"))
	setString(&config.AuthSchema, os.Getenv("AUTH_SCHEMA"))
	setString(&config.LogLevel, os.Getenv("LOG_LEVEL"))
	setString(&config.LogFormat, os.Getenv("LOG_FORMAT"))

	if v := os.Getenv("HEALTH_CHECK_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			panic(err)
		}
		config.HealthCheckInterval = d
	}

	if dsn := os.Getenv("DATABASE_DSN"); dsn != "" {
		config.DatabaseDSN = dsn
	} else if host := os.Getenv("DB_HOST"); host != "" {
		config.DatabaseDSN = dsnFromParts(host)
	}
}

func dsnFromParts(host string) string {
	port := getEnv("DB_PORT", "5432")
	sslMode := getEnv("DB_SSLMODE", "disable")

	u := url.URL{
		Scheme:   "postgres",
		Host:     net.JoinHostPort(host, port),
		Path:     "/" + getEnv("DB_NAME", "devicekeeper"),
		RawQuery: url.Values{"sslmode": {sslMode}}.Encode(),
	}
	if user := os.Getenv("DB_USER"); user != "" {
		u.User = url.UserPassword(user, os.Getenv("DB_PASSWORD"))
	}
	return u.String()
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
