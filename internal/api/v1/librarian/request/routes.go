package request

import "github.com/gin-gonic/gin"

func RegisterRoutes(router *gin.RouterGroup) {
	requests := router.Group("/requests")
	requests.GET("", PendingRequests)
	requests.POST("/:id/approve", Approve)
	requests.POST("/:id/decline", Decline)
}
