package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays configuration from environment variables, loading an
// optional .env file first. Unset variables leave the current values alone.
func parseEnv(config *Config) {
	// missing .env is fine, the environment itself still applies
	_ = godotenv.Load()

	if v := os.Getenv("VAULT_ADDRESS"); v != "" {
		config.EndpointAddrHTTP = v
	}
	if v := os.Getenv("VAULT_DATABASE_DSN"); v != "" {
		config.DatabaseDSN = v
	}
	if v := os.Getenv("VAULT_SECRET_KEY"); v != "" {
		config.SecretKey = v
	}
	if v := os.Getenv("VAULT_ACCESS_TOKEN_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			config.AccessTokenValidityDuration = d
		}
	}
	if v := os.Getenv("VAULT_REFRESH_TOKEN_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			config.RefreshTokenValidityDuration = d
		}
	}
	if v := os.Getenv("VAULT_STORAGE_BACKEND"); v != "" {
		config.StorageBackend = v
	}
	if v := os.Getenv("VAULT_STORAGE_ROOT"); v != "" {
		config.StorageRoot = v
	}
	if v := os.Getenv("VAULT_KEY_FILE"); v != "" {
		config.KeyFilePath = v
	}
	if v := os.Getenv("VAULT_MAX_UPLOAD_SIZE"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			config.MaxUploadSize = n
		}
	}
	if v := os.Getenv("VAULT_ALLOWED_EXTENSIONS"); v != "" {
		var exts []string
		for _, e := range strings.Split(v, ",") {
			if e = strings.TrimSpace(e); e != "" {
				exts = append(exts, e)
			}
		}
		config.AllowedExtensions = exts
	}
	if v := os.Getenv("VAULT_S3_ROOT_USER"); v != "" {
		config.S3RootUser = v
	}
	if v := os.Getenv("VAULT_S3_ROOT_PASSWORD"); v != "" {
		config.S3RootPassword = v
	}
	if v := os.Getenv("VAULT_S3_BUCKET"); v != "" {
		config.S3Bucket = v
	}
	if v := os.Getenv("VAULT_S3_REGION"); v != "" {
		config.S3Region = v
	}
	if v := os.Getenv("VAULT_S3_BASE_ENDPOINT"); v != "" {
		config.S3BaseEndpoint = v
	}
}
