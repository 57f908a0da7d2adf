package payment

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/harshinipriyannaS/Librivault/internal/models"
	"github.com/harshinipriyannaS/Librivault/internal/services"
	"github.com/harshinipriyannaS/Librivault/internal/utils"
)

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

// MyPayments godoc
// @Summary List my payments
// @Tags payments
// @Produce  json
// @Security Bearer
// @Param   page   query  int  false  "Page number"
// @Param   limit  query  int  false  "Page size"
// @Success 200 {object} utils.Response
// @Failure 401 {object} utils.Response
// @Router /payments [get]
func (h *Handler) MyPayments(c *gin.Context) {
	userRaw, exists := c.Get("user")
	if !exists {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse(http.StatusUnauthorized, "Unauthorized"))
		return
	}
	user := userRaw.(models.User)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	payments, total, err := services.FindPaymentsByUser(user.ID, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Failed to list payments"))
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Payments retrieved successfully", gin.H{
		"payments": payments,
		"total":    total,
		"page":     page,
		"limit":    limit,
	}))
}

// Notify handles the gateway callback. The gateway expects the literal body
// "success" on acceptance, anything else triggers a retry.
func (h *Handler) Notify(c *gin.Context) {
	params := make(map[string]interface{})

	for k, v := range c.Request.URL.Query() {
		if len(v) > 0 {
			params[k] = v[0]
		}
	}

	if c.Request.Method == "POST" {
		c.Request.ParseForm()
		for k, v := range c.Request.PostForm {
			if len(v) > 0 {
				params[k] = v[0]
			}
		}
	}

	if err := services.HandlePaymentNotify(params); err != nil {
		c.String(http.StatusBadRequest, "Fail: "+err.Error())
		return
	}

	c.String(http.StatusOK, "success")
}
