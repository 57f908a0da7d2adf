package subscription

import (
	"github.com/gin-gonic/gin"

	"github.com/harshinipriyannaS/Librivault/internal/middleware"
)

func RegisterRoutes(router *gin.RouterGroup) {
	subs := router.Group("/subscriptions")
	subs.GET("/plans", Plans)
	subs.GET("/me", middleware.AuthMiddleware(), MySubscription)
	subs.POST("/upgrade", middleware.AuthMiddleware(), Upgrade)
}
