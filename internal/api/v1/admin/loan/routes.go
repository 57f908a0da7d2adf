package loan

import "github.com/gin-gonic/gin"

func RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/loans/overdue", OverdueLoans)
}
