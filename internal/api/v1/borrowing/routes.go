package borrowing

import "github.com/gin-gonic/gin"

func RegisterRoutes(router *gin.RouterGroup) {
	b := router.Group("/borrowing")
	b.POST("/requests", CreateRequest)
	b.GET("/requests", MyRequests)
	b.GET("/loans", MyLoans)
	b.POST("/loans/:id/return", ReturnBook)
}
