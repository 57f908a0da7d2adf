package fine

import "github.com/gin-gonic/gin"

func RegisterRoutes(router *gin.RouterGroup) {
	fines := router.Group("/fines")
	fines.GET("", MyFines)
	fines.POST("/:id/pay", PayFine)
}

// RegisterStaffRoutes mounts the waive endpoint; the caller guards it with the
// staff middleware.
func RegisterStaffRoutes(router *gin.RouterGroup) {
	router.POST("/fines/:id/waive", WaiveFine)
}
