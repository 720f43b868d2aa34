package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server settings
	AppPort     string
	Host        string
	DatabaseURL string

	// Token signing secret for issued bearer credentials
	TokenSecret string

	// Directory product images are written to and served from
	UploadDir string

	// CORS settings
	CORSAllowOrigins string
	CORSAllowMethods string
	CORSAllowHeaders string
}

func LoadConfig() *Config {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	config := &Config{
		AppPort:     getEnv("PORT", "5000"),
		Host:        getEnv("HOST", "0.0.0.0"),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		TokenSecret: getEnv("TOKEN_SECRET", "villageconnect-dev-secret"),
		UploadDir:   getEnv("UPLOAD_DIR", "./uploads"),

		CORSAllowOrigins: "*",
		CORSAllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		CORSAllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}

	return config
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
