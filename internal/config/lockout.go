package config

import (
    "os"
    "strconv"
    "strings"
    "time"
)

// LockoutConfig controls the failed-login lockout policy.  A user who fails
// authentication MaxAttempts times within Window is locked out for
// Duration.  When Enabled is false, or no Redis client is configured,
// lockout is disabled entirely.
type LockoutConfig struct {
    Enabled     bool
    MaxAttempts int
    Window      time.Duration
    Duration    time.Duration
    Prefix      string
}

// LoadLockoutConfig reads environment variables to build a LockoutConfig.
// Defaults are used when variables are not set.
func LoadLockoutConfig() LockoutConfig {
    return LockoutConfig{
        Enabled:     envBool("LOCKOUT_ENABLED", true),
        MaxAttempts: envInt("LOCKOUT_MAX_ATTEMPTS", 5),
        Window:      parseDur(getenv("LOCKOUT_WINDOW", "15m")),
        Duration:    parseDur(getenv("LOCKOUT_DURATION", "15m")),
        Prefix:      getenv("LOCKOUT_PREFIX", "lockout"),
    }
}

func envBool(key string, def bool) bool {
    v := os.Getenv(key)
    if v == "" {
        return def
    }
    if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
        return b
    }
    return def
}

func parseDur(s string) time.Duration {
    d, err := time.ParseDuration(s)
    if err != nil {
        return 15 * time.Minute
    }
    return d
}
