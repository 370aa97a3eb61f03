package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port     string
	Prod     bool
	MongoURI string
	MongoDB  string

	// session signing secret; any path that mints or verifies a session
	// token refuses to run without it
	JWTSecret string

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURI  string

	// external inference service (Flask backend)
	MLBaseURL        string
	MLTimeoutSeconds int

	RedisAddr    string
	RabbitURL    string
	CORSOrigins  []string
	DashboardURL string
	SigninURL    string
}

func Load() Config {
	// .env is optional; real env always wins
	_ = godotenv.Load()

	return Config{
		Port:               getenv("APP_PORT", "8080"),
		Prod:               getenv("APP_ENV", "development") == "production",
		MongoURI:           getenv("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDB:            getenv("MONGO_DB", "phishformer"),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURI:  os.Getenv("GOOGLE_REDIRECT_URI"),
		MLBaseURL:          getenv("API_URL", "http://localhost:5000"),
		MLTimeoutSeconds:   atoi(getenv("ML_TIMEOUT_SECONDS", "15")),
		RedisAddr:          os.Getenv("REDIS_ADDR"),
		RabbitURL:          os.Getenv("RABBIT_URL"),
		CORSOrigins:        split(getenv("CORS_ORIGINS", "http://localhost:3000")),
		DashboardURL:       getenv("DASHBOARD_URL", "/dashboard"),
		SigninURL:          getenv("SIGNIN_URL", "/signin"),
	}
}

// GoogleConfigured reports whether the OAuth flow can be initiated at all.
func (c Config) GoogleConfigured() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != "" && c.GoogleRedirectURI != ""
}

func split(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func atoi(s string) int {
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return 0
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
