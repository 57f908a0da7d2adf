package payment

import (
	"github.com/gin-gonic/gin"

	"github.com/harshinipriyannaS/Librivault/internal/middleware"
)

func RegisterRoutes(r *gin.RouterGroup) {
	h := NewHandler()

	// Public notify route, the gateway cannot send a bearer token
	r.Any("/payments/notify", h.Notify)

	auth := r.Group("/payments")
	auth.Use(middleware.AuthMiddleware())
	{
		auth.GET("", h.MyPayments)
	}
}
