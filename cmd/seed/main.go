// Seeds a handful of demo provider accounts for local development.
package main

import (
	"log"
	"os"

	"marketplace-be/internal/model"
	"marketplace-be/pkg/database"

	"github.com/joho/godotenv"
	"gorm.io/gorm/clause"
)

func main() {
	// Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Seeding demo providers...")

	users := []model.User{
		{Email: "free@example.com", FullName: "Fran Freeman"},
		{Email: "pro@example.com", FullName: "Priya Prasad"},
		{Email: "biz@example.com", FullName: "Bao Zhang"},
		{Email: "elite@example.com", FullName: "Elena Ivanova"},
	}

	for _, u := range users {
		// Idempotent: re-running the seeder must not duplicate accounts.
		result := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "email"}},
			DoNothing: true,
		}).Create(&u)
		if result.Error != nil {
			log.Printf("Warn: failed to seed %s: %v", u.Email, result.Error)
			continue
		}
		if result.RowsAffected > 0 {
			log.Printf("Seeded: %s", u.Email)
		} else {
			log.Printf("Exists: %s", u.Email)
		}
	}

	log.Println("✅ Success: Seeding complete.")
}
