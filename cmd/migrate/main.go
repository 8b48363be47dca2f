package main

import (
	"log"
	"os"

	"miniapp-gateway/internal/model"
	"miniapp-gateway/pkg/database"

	"github.com/joho/godotenv"
)

// Creates the tables used by STORAGE_DRIVER=postgres.
func main() {
	// 1. Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	// 2. Connect to Database using existing GORM helpers
	db, err := database.NewGormDBFromDSN(dsn, true)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Running AutoMigrate...")

	if err := db.AutoMigrate(&model.DeviceStorageEntry{}); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	log.Println("Success: device storage migration completed.")
}
