package configs

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

var (
	JWTSecret             string
	IdentityWebhookSecret string
	IdentityAPIURL        string
	IdentityAPIKey        string
	MidtransServerKey     string
	Currency              string
	FrontendURL           string
)

// =======================
// ENV LOADER
// =======================
func LoadEnv() {
	if os.Getenv("RAILWAY_ENVIRONMENT") == "" {
		if err := godotenv.Load(); err != nil {
			log.Println("⚠️ No .env file found, using system ENV")
		} else {
			log.Println("✅ .env file loaded")
		}
	} else {
		log.Println("🚀 Running on Railway, using system ENV")
	}

	JWTSecret = GetEnv("JWT_SECRET")
	IdentityWebhookSecret = GetEnv("IDENTITY_WEBHOOK_SECRET")
	IdentityAPIURL = GetEnv("IDENTITY_API_URL")
	IdentityAPIKey = GetEnv("IDENTITY_API_KEY")
	MidtransServerKey = GetEnv("MIDTRANS_SERVER_KEY")
	Currency = GetEnv("CURRENCY", "IDR")
	FrontendURL = GetEnv("FRONTEND_URL", "http://localhost:5173")

	warnIfEmpty("JWT_SECRET", JWTSecret)
	warnIfEmpty("IDENTITY_WEBHOOK_SECRET", IdentityWebhookSecret)
	warnIfEmpty("MIDTRANS_SERVER_KEY", MidtransServerKey)
}

func warnIfEmpty(key, val string) {
	if val == "" {
		log.Printf("❌ %s is not set!", key)
	} else {
		log.Printf("✅ %s loaded.", key)
	}
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if !exists && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}
