package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/stockwatch/internal/flagx"
	"github.com/dmitrijs2005/stockwatch/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Durations use
// timex.Duration so both "24h" and integer nanoseconds are accepted.
// Pointer fields distinguish "absent" from "zero" so a partial file only
// overrides what it mentions.
type JsonConfig struct {
	EndpointAddrHTTP        *string         `json:"endpoint_addr_http"`
	EndpointAddrGRPC        *string         `json:"endpoint_addr_grpc"`
	DatabaseDSN             *string         `json:"database_dsn"`
	SecretKey               *string         `json:"secret_key"`
	SessionValidityDuration *timex.Duration `json:"session_validity_duration"`
	RedisURL                *string         `json:"redis_url"`
	BcryptCost              *int            `json:"bcrypt_cost"`
	SecureCookies           *bool           `json:"secure_cookies"`
}

// parseJson overlays values from the JSON file named by -c/-config (or the
// STOCKWATCH_CONFIG variable). Without a path it does nothing. An unreadable
// or malformed file panics: a misconfigured server must not start.
func parseJson(config *Config) {
	path := flagx.ConfigPath()
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setIf(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setIf(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setIf(&config.DatabaseDSN, c.DatabaseDSN)
	setIf(&config.SecretKey, c.SecretKey)
	setIf(&config.RedisURL, c.RedisURL)
	setIf(&config.BcryptCost, c.BcryptCost)
	setIf(&config.SecureCookies, c.SecureCookies)
	if c.SessionValidityDuration != nil {
		config.SessionValidityDuration = c.SessionValidityDuration.Duration
	}
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
