package routes

import (
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"opsdesk-backend/config"
	"opsdesk-backend/controllers"
	"opsdesk-backend/utils"
)

func allowedOrigins() []string {
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		return strings.Split(env, ",")
	}
	return []string{"http://localhost:3000"}
}

func SetupRouter() *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.Use(config.PerformanceLogger())

	auth := r.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)

		auth.Use(utils.AuthMiddleware())
		auth.GET("/me", controllers.Me)
	}

	api := r.Group("/api")
	api.Use(utils.AuthMiddleware())
	{
		// Customer routes
		customers := api.Group("/customers")
		{
			customers.POST("", controllers.CreateCustomer)
			customers.GET("", controllers.GetCustomers)
			customers.GET("/:id", controllers.GetCustomer)
			customers.PUT("/:id", controllers.UpdateCustomer)
			customers.DELETE("/:id", controllers.DeleteCustomer)
		}

		// Project routes
		projects := api.Group("/projects")
		{
			projects.POST("", controllers.CreateProject)
			projects.GET("", controllers.GetProjects)
			projects.PUT("/:id/phase", controllers.UpdateProjectPhase)
			projects.POST("/:id/customers", controllers.AddCustomerToProject)
			projects.DELETE("/:id/customers/:customerId", controllers.RemoveCustomerFromProject)
		}

		// Invoice routes (mutation is Admin-gated in the controllers)
		invoices := api.Group("/invoices")
		{
			invoices.GET("", controllers.GetInvoices)
			invoices.GET("/stats", controllers.GetInvoiceStats)
			invoices.POST("", controllers.CreateInvoice)
			invoices.PUT("/:id/status", controllers.UpdateInvoiceStatus)
			invoices.DELETE("/:id", controllers.DeleteInvoice)
			invoices.POST("/:id/send", controllers.SendInvoice)
		}

		// Item catalog routes
		items := api.Group("/items")
		{
			items.GET("", controllers.GetItems)
			items.POST("", controllers.CreateItem)
			items.DELETE("/:id", controllers.DeleteItem)
		}

		// Profile routes
		api.GET("/profile", controllers.GetProfile)

		// Dashboard routes
		api.GET("/dashboard", controllers.GetDashboardOverview)
	}

	return r
}
