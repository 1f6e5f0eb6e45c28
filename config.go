package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds everything read from the environment at startup.
type Config struct {
	Port          string
	DatabaseURL   string
	DBHost        string
	DBUser        string
	DBPass        string
	DBName        string
	DBPort        string
	JWTSecret     string
	AdminEmail    string
	AdminPassword string
}

func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ Warning: .env file not found, using system environment variables")
	}
}

func LoadConfig() *Config {
	return &Config{
		Port:          getEnv("PORT", "3000"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		DBHost:        os.Getenv("DB_HOST"),
		DBUser:        os.Getenv("DB_USER"),
		DBPass:        os.Getenv("DB_PASS"),
		DBName:        os.Getenv("DB_NAME"),
		DBPort:        os.Getenv("DB_PORT"),
		JWTSecret:     getEnv("JWT_SECRET", "kare-acm-sigbed-jwt-secret"),
		AdminEmail:    getEnv("ADMIN_EMAIL", "admin@karesgbd.acm.org"),
		AdminPassword: getEnv("ADMIN_PASSWORD", "admin123"),
	}
}

// DatabaseDSN prefers DATABASE_URL and falls back to the discrete DB_*
// variables. Empty means "run without a database".
func (c *Config) DatabaseDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return BuildDSN(c.DBHost, c.DBUser, c.DBPass, c.DBName, c.DBPort)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
