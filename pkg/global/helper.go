package global

import (
	"context"
	"os"
	"strconv"
	"time"
)

func GetEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func GetEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func GetEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

// GetDefaultTimer bounds a persistence call. A storage operation that never
// resolves must not stall its request forever.
func GetDefaultTimer() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 10*time.Second)
}

func GetMongoURI() string {
	return GetEnvOrDefault("MONGODB_URI", "mongodb://localhost:27017")
}

func GetDatabaseName() string {
	return GetEnvOrDefault("MONGODB_DATABASE", "shopora")
}

func GetJWTSecret() string {
	return GetEnvOrDefault("JWT_SECRET", "fallback_secret")
}
