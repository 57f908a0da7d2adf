package api

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	adminLoan "github.com/harshinipriyannaS/Librivault/internal/api/v1/admin/loan"
	adminUser "github.com/harshinipriyannaS/Librivault/internal/api/v1/admin/user"
	"github.com/harshinipriyannaS/Librivault/internal/api/v1/auth"
	"github.com/harshinipriyannaS/Librivault/internal/api/v1/borrowing"
	"github.com/harshinipriyannaS/Librivault/internal/api/v1/fine"
	librarianRequest "github.com/harshinipriyannaS/Librivault/internal/api/v1/librarian/request"
	"github.com/harshinipriyannaS/Librivault/internal/api/v1/payment"
	"github.com/harshinipriyannaS/Librivault/internal/api/v1/subscription"
	userRoutes "github.com/harshinipriyannaS/Librivault/internal/api/v1/user"
	"github.com/harshinipriyannaS/Librivault/internal/middleware"
	"github.com/harshinipriyannaS/Librivault/internal/models"
)

func NewRouter() (*gin.Engine, error) {
	router := gin.New()
	router.Use(middleware.Logger(), gin.Recovery())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "http://localhost:8080"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API v1
	v1 := router.Group("/api/v1")
	{
		auth.RegisterRoutes(v1)
		subscription.RegisterRoutes(v1)
		payment.RegisterRoutes(v1)

		authorized := v1.Group("/")
		authorized.Use(middleware.AuthMiddleware())
		{
			userRoutes.RegisterRoutes(authorized)
			borrowing.RegisterRoutes(authorized)
			fine.RegisterRoutes(authorized)
		}

		// Librarian review surface
		librarian := v1.Group("/librarian")
		librarian.Use(middleware.StaffAuthMiddleware(models.RoleLibrarian))
		{
			librarianRequest.RegisterRoutes(librarian)
		}

		// Staff surface, shared by admins and librarians
		staff := v1.Group("/staff")
		staff.Use(middleware.StaffAuthMiddleware())
		{
			fine.RegisterStaffRoutes(staff)
		}

		// Admin routes
		admin := v1.Group("/admin")
		admin.Use(middleware.StaffAuthMiddleware(models.RoleAdmin))
		{
			adminUser.RegisterRoutes(admin)
			adminLoan.RegisterRoutes(admin)
		}
	}

	return router, nil
}
