package main

import (
	"fmt"
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ConnectStorage picks the storage mode for the lifetime of the process:
// Postgres when a connection can be established, otherwise the seeded
// in-memory fallback. A database failure never crashes the server.
func ConnectStorage(cfg *Config) Store {
	dsn := cfg.DatabaseDSN()
	if dsn == "" {
		log.Println("📌 No database configured - using in-memory storage")
		return newFallbackStore()
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		log.Printf("❌ Database connection error: %v", err)
		log.Println("📌 Continuing without database - using in-memory storage")
		return newFallbackStore()
	}

	store, err := newGormStore(db)
	if err != nil {
		log.Printf("❌ Migration failed: %v", err)
		log.Println("📌 Continuing without database - using in-memory storage")
		return newFallbackStore()
	}

	log.Println("✅ Database connected and migrated successfully")
	return store
}

func newFallbackStore() *memStore {
	s := newMemStore()
	seedDemoData(s)
	return s
}

// BuildDSN assembles a Postgres DSN from the discrete DB_* variables when
// DATABASE_URL is not set.
func BuildDSN(host, user, pass, name, port string) string {
	if host == "" || user == "" || name == "" || port == "" {
		return ""
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		host, user, pass, name, port,
	)
}
