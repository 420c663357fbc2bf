package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port            string
	AppPasscode     string
	SupportPasscode string
	JWTSecret       string
	ScopeTokenTTL   time.Duration
	TimeZone        string
	Location        *time.Location
	GeminiAPIKey    string
	GeminiModel     string
	GeminiEndpoint  string
	AITimeout       time.Duration
	ServiceName     string
}

// Seoul is used when the zone database is not available on the host
var seoul = time.FixedZone("KST", 9*60*60)

func Load() Config {
	tz := readString("TIMEZONE", "Asia/Seoul")

	return Config{
		Port:            readString("PORT", "3000"),
		AppPasscode:     readString("APP_PASSCODE", "5119"),
		SupportPasscode: readString("SUPPORT_PASSCODE", "3449"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		ScopeTokenTTL:   time.Duration(readInt("SCOPE_TOKEN_TTL_HOURS", 12)) * time.Hour,
		TimeZone:        tz,
		Location:        loadLocation(tz),
		GeminiAPIKey:    os.Getenv("GEMINI_API_KEY"),
		GeminiModel:     readString("GEMINI_MODEL", "gemini-2.5-flash"),
		GeminiEndpoint:  readString("GEMINI_ENDPOINT", "https://generativelanguage.googleapis.com/v1beta"),
		AITimeout:       readDurationSeconds("AI_TIMEOUT_SECONDS", 30),
		ServiceName:     readString("OTEL_SERVICE_NAME", "sitesafety-api"),
	}
}

func loadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Printf("Warning: time zone %q unavailable (%v), using UTC+9", name, err)
		return seoul
	}
	return loc
}

func readString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func readDurationSeconds(key string, fallback int) time.Duration {
	value := readInt(key, fallback)
	if value <= 0 {
		return 0
	}
	return time.Duration(value) * time.Second
}

func readInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
