package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration, loaded from the environment.
type Config struct {
	Port           string
	Env            string
	FrontendOrigin string

	MongoURI string
	DBName   string

	JWTSecret   string
	TokenExpiry time.Duration

	StreamAPIKey    string
	StreamAPISecret string
}

// LoadConfig reads configuration from a .env file if present, falling back
// to the process environment.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	cfg := &Config{
		Port:            getEnv("PORT", "5001"),
		Env:             getEnv("ENV", "development"),
		FrontendOrigin:  getEnv("FRONTEND_ORIGIN", "http://localhost:5173"),
		MongoURI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DBName:          getEnv("DB_NAME", "tomchat"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		TokenExpiry:     7 * 24 * time.Hour,
		StreamAPIKey:    os.Getenv("STREAM_API_KEY"),
		StreamAPISecret: os.Getenv("STREAM_API_SECRET"),
	}

	if raw := os.Getenv("TOKEN_EXPIRY"); raw != "" {
		if expiry, err := time.ParseDuration(raw); err == nil && expiry > 0 {
			cfg.TokenExpiry = expiry
		} else {
			log.Printf("Invalid TOKEN_EXPIRY %q, using default", raw)
		}
	}

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
