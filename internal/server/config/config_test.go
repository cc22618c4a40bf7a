package config

import (
	"os"
	"testing"
	"time"
)

func resetArgs(t *testing.T) {
	t.Helper()
	old := os.Args
	os.Args = []string{"accountkeeper-server"}
	t.Cleanup(func() { os.Args = old })
}

func TestLoadDefaults(t *testing.T) {
	c := &Config{}
	c.LoadDefaults()

	if c.EndpointAddrHTTP != ":8080" {
		t.Fatalf("unexpected bind addr: %q", c.EndpointAddrHTTP)
	}
	if c.AccessTokenSecret == c.RefreshTokenSecret {
		t.Fatal("access and refresh secrets must differ")
	}
	if c.AccessTokenValidityDuration >= c.RefreshTokenValidityDuration {
		t.Fatal("access token must be shorter-lived than refresh token")
	}
	if c.UploadDir == "" {
		t.Fatal("upload dir must have a default")
	}
}

func TestLoadConfig_DefaultsOnly(t *testing.T) {
	resetArgs(t)

	c := LoadConfig()
	if c.DatabaseDSN == "" || c.S3Bucket == "" {
		t.Fatalf("defaults not applied: %+v", c)
	}
}

func TestLoadConfig_EnvOverlay(t *testing.T) {
	resetArgs(t)
	t.Setenv("ACCESS_TOKEN_SECRET", "from-env")
	t.Setenv("ACCESS_TOKEN_EXPIRY", "30m")
	t.Setenv("BIND_ADDR", ":9999")

	c := LoadConfig()
	if c.AccessTokenSecret != "from-env" {
		t.Fatalf("env secret not applied: %q", c.AccessTokenSecret)
	}
	if c.AccessTokenValidityDuration != 30*time.Minute {
		t.Fatalf("env TTL not applied: %v", c.AccessTokenValidityDuration)
	}
	if c.EndpointAddrHTTP != ":9999" {
		t.Fatalf("env addr not applied: %q", c.EndpointAddrHTTP)
	}
	// untouched layers survive
	if c.RefreshTokenSecret != "refreshSecret" {
		t.Fatalf("default refresh secret clobbered: %q", c.RefreshTokenSecret)
	}
}
