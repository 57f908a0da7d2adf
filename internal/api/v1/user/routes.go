package user

import "github.com/gin-gonic/gin"

func RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/users")
	users.GET("/me", CurrentUser)
	users.GET("/me/notifications", ListNotifications)
	users.POST("/me/notifications/:id/read", MarkNotificationRead)
}
