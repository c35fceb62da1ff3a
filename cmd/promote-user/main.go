// Promotes a profile to a role (default Admin) by email. Role promotion is
// deliberately out of band; the API never exposes it.
//
//	go run ./cmd/promote-user <email> [role]
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"opsdesk-backend/models"
)

func main() {
	godotenv.Load()

	if len(os.Args) < 2 {
		fmt.Println("Usage: promote-user <email> [role]")
		os.Exit(1)
	}
	email := os.Args[1]
	role := models.RoleAdmin
	if len(os.Args) > 2 {
		role = os.Args[2]
	}

	db, err := gorm.Open(postgres.Open(os.Getenv("DB_URL")), &gorm.Config{})
	if err != nil {
		fmt.Println("Failed to connect database:", err)
		os.Exit(1)
	}

	result := db.Model(&models.Profile{}).
		Where(`"email" = ?`, email).
		Update("role", role)
	if result.Error != nil {
		fmt.Println("Error updating profile:", result.Error)
		os.Exit(1)
	}

	if result.RowsAffected == 0 {
		fmt.Printf("No profile found for %s.\n", email)
		fmt.Println("Make sure they have logged in at least once.")
		os.Exit(1)
	}

	fmt.Printf("Successfully updated %s to role: %s\n", email, role)
}
