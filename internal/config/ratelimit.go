package config

import "os"

// RateLimitConfig carries the limiter knobs shared by every
// rate-limited route. The per-route quota (N requests per window) is
// declared where the route is registered; this struct only controls
// whether limiting is active, how keys are namespaced and debugging.
type RateLimitConfig struct {
	Enabled bool
	Prefix  string
	Debug   bool
}

// LoadRateLimitConfig reads the limiter settings from the environment,
// falling back to sane defaults when variables are unset.
func LoadRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		Enabled: envBool("RATE_LIMIT_ENABLED", true),
		Prefix:  envStr("RATE_LIMIT_PREFIX", "rl"),
		Debug:   envBool("RATE_LIMIT_DEBUG", false),
	}
}

func envStr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envBool(k string, d bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "True", "yes", "YES", "on", "ON":
		return true
	case "0", "false", "FALSE", "False", "no", "NO", "off", "OFF":
		return false
	}
	return d
}
