package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/empvault/internal/flagx"
	"github.com/dmitrijs2005/empvault/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON unmarshalling.
// It uses timex.Duration for interval fields, which allows parsing both
// string values such as "1s" and integer nanoseconds.
//
// Pointer fields distinguish "absent" from a zero value, so a partial file
// only overrides what it names.
type JsonConfig struct {
	EndpointAddrHTTP            *string         `json:"endpoint_addr_http"`
	EndpointAddrGRPC            *string         `json:"endpoint_addr_grpc"`
	DatabaseDSN                 *string         `json:"database_dsn"`
	SecretKey                   *string         `json:"secret_key"`
	AccessTokenValidityDuration *timex.Duration `json:"access_token_validity_duration"`
	PasswordScheme              *string         `json:"password_scheme"`
	IDPrefix                    *string         `json:"id_prefix"`
	IDMaxLength                 *int            `json:"id_max_length"`
	IDMaxAttempts               *int            `json:"id_max_attempts"`
	CookieName                  *string         `json:"cookie_name"`
	CookieSecure                *bool           `json:"cookie_secure"`
	MaxUploadBytes              *int64          `json:"max_upload_bytes"`
	LogLevel                    *string         `json:"log_level"`
	S3RootUser                  *string         `json:"s3_root_user"`
	S3RootPassword              *string         `json:"s3_root_password"`
	S3Bucket                    *string         `json:"s3_bucket"`
	S3Region                    *string         `json:"s3_region"`
	S3BaseEndpoint              *string         `json:"s3_base_endpoint"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance.
//
// The file path comes from the -c or -config command-line flags, or from
// EMPVAULT_CONFIG when neither flag is given. If no path is found, nothing
// is loaded. If the file cannot be read or contains invalid JSON, the
// function panics.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	set(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	set(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	set(&config.DatabaseDSN, c.DatabaseDSN)
	set(&config.SecretKey, c.SecretKey)
	if c.AccessTokenValidityDuration != nil {
		config.AccessTokenValidityDuration = time.Duration(c.AccessTokenValidityDuration.Duration)
	}
	set(&config.PasswordScheme, c.PasswordScheme)
	set(&config.IDPrefix, c.IDPrefix)
	set(&config.IDMaxLength, c.IDMaxLength)
	set(&config.IDMaxAttempts, c.IDMaxAttempts)
	set(&config.CookieName, c.CookieName)
	set(&config.CookieSecure, c.CookieSecure)
	set(&config.MaxUploadBytes, c.MaxUploadBytes)
	set(&config.LogLevel, c.LogLevel)
	set(&config.S3RootUser, c.S3RootUser)
	set(&config.S3RootPassword, c.S3RootPassword)
	set(&config.S3Bucket, c.S3Bucket)
	set(&config.S3Region, c.S3Region)
	set(&config.S3BaseEndpoint, c.S3BaseEndpoint)
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
