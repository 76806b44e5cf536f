package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
	"time"    // time parses the hold TTL duration
)

// Config holds all runtime configuration values.  Each field corresponds
// to an environment variable.  The venue dimensions and hold TTL feed the
// reservation core; the remaining fields configure the HTTP surface.
type Config struct {
	Env          string        // application environment (e.g. "dev", "prod")
	Port         string        // HTTP port to listen on
	VenueRows    int           // number of seat rows in the venue
	VenueCols    int           // number of seats per row
	HoldTTL      time.Duration // how long a seat hold stays valid before expiry
	JWTSecret    string        // secret used to sign JWTs
	AccessTTLMin int           // access token time-to-live in minutes
	BcryptCost   int           // bcrypt cost for password hashing
}

// Load reads configuration values from environment variables and returns
// a Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.  The hold TTL
// defaults to the reference 5 seconds when HOLD_TTL is unset.
func Load() Config {
	return Config{
		Env:          must("APP_ENV"),                  // environment (dev/test/prod)
		Port:         must("APP_PORT"),                 // port to bind the HTTP server
		VenueRows:    mustInt("VENUE_ROWS"),            // venue row count (> 0)
		VenueCols:    mustInt("VENUE_COLS"),            // venue column count (> 0)
		HoldTTL:      envDur("HOLD_TTL", 5*time.Second), // seat hold time-to-live
		JWTSecret:    must("JWT_SECRET"),               // secret used for signing JWTs
		AccessTTLMin: envInt("ACCESS_TOKEN_TTL_MIN", 15), // TTL for access tokens in minutes
		BcryptCost:   envInt("BCRYPT_COST", 10),        // bcrypt cost factor
	}
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the retrieved string into an integer.
// If conversion fails, the application logs a fatal error and exits.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}

// envStr returns the variable's value or the given default when unset.
func envStr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

// envInt returns the variable parsed as an int, or the default when the
// variable is unset or malformed.
func envInt(k string, d int) int {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return d
}

// envBool returns the variable parsed as a boolean, accepting the usual
// truthy/falsy spellings, or the default otherwise.
func envBool(k string, d bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "True", "yes", "YES", "on", "ON":
		return true
	case "0", "false", "FALSE", "False", "no", "NO", "off", "OFF":
		return false
	}
	return d
}

// envDur returns the variable parsed as a time.Duration, or the default
// when the variable is unset or malformed.
func envDur(k string, d time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if dur, err := time.ParseDuration(v); err == nil {
		return dur
	}
	return d
}
