// Package config loads application configuration from environment variables
// and an optional config file.
package config

import (
	"encoding/hex"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every configuration key when read from the
// environment, e.g. CERTPANEL_API_URL.
const EnvPrefix = "CERTPANEL"

const (
	keyAPIURL     = "api_url"
	keyAPIToken   = "api_token"
	keyAPITimeout = "api_timeout"
	keyListenAddr = "listen_addr"
	keyDBPath     = "db_path"
	keySecretKey  = "secret_key"
)

// Config holds the validated application configuration.
type Config struct {
	APIURL     string
	APIToken   string
	APITimeout time.Duration
	ListenAddr string
	DBPath     string
	// SecretKey is the 32-byte AES-256 key for token storage. Nil disables
	// storing tokens from the settings page.
	SecretKey []byte
}

// HasAPIToken returns true when a bearer token was supplied via configuration.
// Logged at startup; with no secret key either, the backend is unreachable
// until the process is restarted with one of them.
func (c *Config) HasAPIToken() bool {
	return c.APIToken != ""
}

// Load reads configuration and returns a validated Config.
// Every key may be set as CERTPANEL_<KEY> or in the file named by
// CERTPANEL_CONFIG_FILE (any format viper understands); the environment wins.
// Defaults: API_URL (http://localhost:8000), API_TIMEOUT (15s),
// LISTEN_ADDR (127.0.0.1:8080), DB_PATH (certpanel.db).
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	v.SetDefault(keyAPIURL, "http://localhost:8000")
	v.SetDefault(keyAPIToken, "")
	v.SetDefault(keyAPITimeout, "15s")
	v.SetDefault(keyListenAddr, "127.0.0.1:8080")
	v.SetDefault(keyDBPath, "certpanel.db")
	v.SetDefault(keySecretKey, "")

	if file := os.Getenv(EnvPrefix + "_CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("%s_CONFIG_FILE %q could not be read: %w", EnvPrefix, file, err)
		}
	}

	apiURL := strings.TrimRight(strings.TrimSpace(v.GetString(keyAPIURL)), "/")
	u, err := url.Parse(apiURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%s has invalid URL %q: must be an absolute http(s) URL", envName(keyAPIURL), apiURL)
	}

	rawTimeout := v.GetString(keyAPITimeout)
	timeout, err := time.ParseDuration(rawTimeout)
	if err != nil {
		return nil, fmt.Errorf("%s has invalid duration %q: %w", envName(keyAPITimeout), rawTimeout, err)
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("%s must be positive, got %q", envName(keyAPITimeout), rawTimeout)
	}

	var secretKey []byte
	if raw := strings.TrimSpace(v.GetString(keySecretKey)); raw != "" {
		secretKey, err = hex.DecodeString(raw)
		if err != nil {
			return nil, fmt.Errorf("%s must be hex encoded: %w", envName(keySecretKey), err)
		}
		if len(secretKey) != 32 {
			return nil, fmt.Errorf("%s must decode to 32 bytes (64 hex characters), got %d bytes", envName(keySecretKey), len(secretKey))
		}
	}

	return &Config{
		APIURL:     apiURL,
		APIToken:   strings.TrimSpace(v.GetString(keyAPIToken)),
		APITimeout: timeout,
		ListenAddr: v.GetString(keyListenAddr),
		DBPath:     v.GetString(keyDBPath),
		SecretKey:  secretKey,
	}, nil
}

func envName(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(key)
}
