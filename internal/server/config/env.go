package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// dotEnvFile is loaded into the process environment before ENVMON_* variables
// are read. A missing file is not an error; variables already present in the
// environment win over the file.
var dotEnvFile = ".env"

// parseEnv overlays ENVMON_* environment variables onto config.
//
// Recognised variables:
//
//	ENVMON_HTTP_ADDR, ENVMON_GRPC_ADDR, ENVMON_DATABASE_DSN, ENVMON_STORAGE,
//	ENVMON_SECRET_KEY, ENVMON_TOKEN_TTL (Go duration), ENVMON_BCRYPT_COST,
//	ENVMON_COOKIE_NAME, ENVMON_COOKIE_DOMAIN, ENVMON_ENV,
//	ENVMON_S3_ROOT_USER, ENVMON_S3_ROOT_PASSWORD, ENVMON_S3_BUCKET,
//	ENVMON_S3_REGION, ENVMON_S3_BASE_ENDPOINT
//
// Empty variables are ignored. Malformed numbers or durations panic, the same
// way a broken JSON config does.
func parseEnv(config *Config) {
	if err := godotenv.Load(dotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}

	setString(&config.HTTPAddr, "ENVMON_HTTP_ADDR")
	setString(&config.GRPCAddr, "ENVMON_GRPC_ADDR")
	setString(&config.DatabaseDSN, "ENVMON_DATABASE_DSN")
	setString(&config.StorageBackend, "ENVMON_STORAGE")
	setString(&config.SecretKey, "ENVMON_SECRET_KEY")
	setString(&config.CookieName, "ENVMON_COOKIE_NAME")
	setString(&config.CookieDomain, "ENVMON_COOKIE_DOMAIN")
	setString(&config.Env, "ENVMON_ENV")
	setString(&config.S3RootUser, "ENVMON_S3_ROOT_USER")
	setString(&config.S3RootPassword, "ENVMON_S3_ROOT_PASSWORD")
	setString(&config.S3Bucket, "ENVMON_S3_BUCKET")
	setString(&config.S3Region, "ENVMON_S3_REGION")
	setString(&config.S3BaseEndpoint, "ENVMON_S3_BASE_ENDPOINT")

	if v := os.Getenv("ENVMON_TOKEN_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			panic(err)
		}
		config.TokenValidityDuration = d
	}

	if v := os.Getenv("ENVMON_BCRYPT_COST"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			panic(err)
		}
		config.BcryptCost = n
	}
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
