package main

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"opsdesk-backend/config"
	"opsdesk-backend/models"
	"opsdesk-backend/routes"
	"opsdesk-backend/services"
)

func init() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		config.GetLogger().Info("No .env file found")
	}
	config.ConnectDB()

	// Schema is provisioned at startup, never lazily per request.
	config.DB.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.Customer{},
		&models.Project{},
		&models.ProjectCustomer{},
		&models.Invoice{},
		&models.InvoiceItem{},
		&models.Product{},
	)
}

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	reminders := services.NewReminderService(config.DB)
	reminders.StartScheduler()

	r := routes.SetupRouter()
	printRoutes(r)
	r.Run(":" + port)
}

func printRoutes(r *gin.Engine) {
	routes := r.Routes()
	for _, route := range routes {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}
