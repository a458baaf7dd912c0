package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestParseEnv(t *testing.T) {
	t.Setenv("EMPVAULT_HTTP_ADDR", ":9999")
	t.Setenv("EMPVAULT_ACCESS_TOKEN_TTL", "90m")
	t.Setenv("EMPVAULT_ID_MAX_ATTEMPTS", "3")
	t.Setenv("EMPVAULT_COOKIE_SECURE", "true")
	t.Setenv("EMPVAULT_MAX_UPLOAD_BYTES", "1024")
	t.Setenv("EMPVAULT_PASSWORD_SCHEME", "argon2id")

	var c Config
	c.LoadDefaults()
	parseEnv(&c)

	want := Config{}
	want.LoadDefaults()
	want.EndpointAddrHTTP = ":9999"
	want.AccessTokenValidityDuration = 90 * time.Minute
	want.IDMaxAttempts = 3
	want.CookieSecure = true
	want.MaxUploadBytes = 1024
	want.PasswordScheme = "argon2id"

	if diff := cmp.Diff(want, c); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestParseEnv_InvalidValuePanics(t *testing.T) {
	t.Setenv("EMPVAULT_ID_MAX_LENGTH", "ten")

	var c Config
	require.Panics(t, func() { parseEnv(&c) })
}
