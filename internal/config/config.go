package config // package config loads application settings from environment variables

import (
	"log"     // fatal reporting for missing required settings
	"os"      // environment variable access
	"strconv" // string to int conversion
	"time"    // durations for hold and reminder timing
)

// Config holds every runtime setting the server needs. Each field maps to
// one environment variable. String fields carry identifiers and secrets,
// int fields carry costs and TTLs, duration fields carry booking timing.
type Config struct {
	Env            string // application environment (dev/test/prod)
	Port           string // HTTP port to listen on
	DBUser         string // database username
	DBPass         string // database password (may be empty)
	DBHost         string // database host address
	DBPort         string // database port number
	DBName         string // database name
	JWTSecret      string // secret used to sign JWTs
	AccessTTLMin   int    // access token lifetime in minutes
	RefreshTTLDays int    // refresh token lifetime in days
	BcryptCost     int    // bcrypt cost for password hashing

	HoldTimeout   time.Duration // how long an unpaid reservation keeps its seats
	NotifyTimeout time.Duration // max wait for the created-event publish before giving up

	ReminderInterval time.Duration // how often the reminder scanner wakes up
	ReminderLead     time.Duration // how far before showtime reminders go out
	ReminderWindow   time.Duration // width of the show window each sweep covers

	PaymentBaseURL       string // payment provider API base URL
	PaymentAPIKey        string // payment provider API key
	PaymentSuccessURL    string // customer redirect after a successful payment
	PaymentCancelURL     string // customer redirect after an abandoned payment
	PaymentWebhookSecret string // shared secret the provider sends on webhook calls
}

// Load reads the configuration from the environment. Required variables go
// through must() and abort startup when absent. Timing values have defaults
// so a development environment only needs the database and auth settings.
func Load() Config {
	return Config{
		Env:            must("APP_ENV"),
		Port:           must("APP_PORT"),
		DBUser:         must("DB_USER"),
		DBPass:         os.Getenv("DB_PASS"),
		DBHost:         must("DB_HOST"),
		DBPort:         must("DB_PORT"),
		DBName:         must("DB_NAME"),
		JWTSecret:      must("JWT_SECRET"),
		AccessTTLMin:   mustInt("ACCESS_TOKEN_TTL_MIN"),
		RefreshTTLDays: mustInt("REFRESH_TOKEN_TTL_DAYS"),
		BcryptCost:     mustInt("BCRYPT_COST"),

		HoldTimeout:   envDur("HOLD_TIMEOUT", 10*time.Minute),
		NotifyTimeout: envDur("NOTIFY_TIMEOUT", 2*time.Second),

		ReminderInterval: envDur("REMINDER_INTERVAL", 8*time.Hour),
		ReminderLead:     envDur("REMINDER_LEAD", 8*time.Hour),
		ReminderWindow:   envDur("REMINDER_WINDOW", 10*time.Minute),

		PaymentBaseURL:       must("PAYMENT_BASE_URL"),
		PaymentAPIKey:        must("PAYMENT_API_KEY"),
		PaymentSuccessURL:    must("PAYMENT_SUCCESS_URL"),
		PaymentCancelURL:     must("PAYMENT_CANCEL_URL"),
		PaymentWebhookSecret: must("PAYMENT_WEBHOOK_SECRET"),
	}
}

// must returns the value of a required environment variable and exits with
// a fatal log when the variable is unset or empty.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is must() plus integer conversion. A non-numeric value is fatal.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
