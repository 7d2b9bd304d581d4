package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/filevault/internal/flagx"
)

// duration parses both "15m"-style strings and integer nanoseconds from JSON.
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)
		return nil
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		d.Duration = parsed
		return nil
	default:
		return fmt.Errorf("invalid duration: %v", v)
	}
}

// JsonConfig is the intermediate DTO used only for reading JSON configuration
// files. After unmarshalling, non-empty fields are copied into the runtime
// Config.
type JsonConfig struct {
	EndpointAddrHTTP             string   `json:"endpoint_addr_http"`
	DatabaseDSN                  string   `json:"database_dsn"`
	SecretKey                    string   `json:"secret_key"`
	AccessTokenValidityDuration  duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration duration `json:"refresh_token_validity_duration"`
	StorageBackend               string   `json:"storage_backend"`
	StorageRoot                  string   `json:"storage_root"`
	KeyFilePath                  string   `json:"key_file_path"`
	MaxUploadSize                int64    `json:"max_upload_size"`
	AllowedExtensions            []string `json:"allowed_extensions"`
	S3RootUser                   string   `json:"s3_root_user"`
	S3RootPassword               string   `json:"s3_root_password"`
	S3Bucket                     string   `json:"s3_bucket"`
	S3Region                     string   `json:"s3_region"`
	S3BaseEndpoint               string   `json:"s3_base_endpoint"`
}

// parseJson loads configuration values from the JSON file named by the
// -c/-config flags, if any, overlaying only the fields that are present.
// An unreadable or invalid file panics: a config that was explicitly pointed
// at must not be silently ignored.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.EndpointAddrHTTP != "" {
		config.EndpointAddrHTTP = c.EndpointAddrHTTP
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.SecretKey != "" {
		config.SecretKey = c.SecretKey
	}
	if c.AccessTokenValidityDuration.Duration != 0 {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.RefreshTokenValidityDuration.Duration != 0 {
		config.RefreshTokenValidityDuration = c.RefreshTokenValidityDuration.Duration
	}
	if c.StorageBackend != "" {
		config.StorageBackend = c.StorageBackend
	}
	if c.StorageRoot != "" {
		config.StorageRoot = c.StorageRoot
	}
	if c.KeyFilePath != "" {
		config.KeyFilePath = c.KeyFilePath
	}
	if c.MaxUploadSize != 0 {
		config.MaxUploadSize = c.MaxUploadSize
	}
	if len(c.AllowedExtensions) > 0 {
		config.AllowedExtensions = c.AllowedExtensions
	}
	if c.S3RootUser != "" {
		config.S3RootUser = c.S3RootUser
	}
	if c.S3RootPassword != "" {
		config.S3RootPassword = c.S3RootPassword
	}
	if c.S3Bucket != "" {
		config.S3Bucket = c.S3Bucket
	}
	if c.S3Region != "" {
		config.S3Region = c.S3Region
	}
	if c.S3BaseEndpoint != "" {
		config.S3BaseEndpoint = c.S3BaseEndpoint
	}
}
