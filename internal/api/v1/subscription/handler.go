package subscription

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harshinipriyannaS/Librivault/internal/models"
	"github.com/harshinipriyannaS/Librivault/internal/services"
	"github.com/harshinipriyannaS/Librivault/internal/utils"
)

// Plans godoc
// @Summary List subscription plans
// @Tags subscriptions
// @Produce  json
// @Success 200 {object} utils.Response
// @Router /subscriptions/plans [get]
func Plans(c *gin.Context) {
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Plans retrieved successfully",
		services.AvailableSubscriptionPlans()))
}

// MySubscription godoc
// @Summary Get my active subscription
// @Tags subscriptions
// @Produce  json
// @Security Bearer
// @Success 200 {object} utils.Response
// @Failure 401 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Router /subscriptions/me [get]
func MySubscription(c *gin.Context) {
	user, exists := c.Get("user")
	if !exists {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse(http.StatusUnauthorized, "Unauthorized"))
		return
	}
	u := user.(models.User)

	sub, err := services.GetUserSubscription(u.ID)
	if err != nil {
		if errors.Is(err, services.ErrNoActiveSubscription) {
			c.JSON(http.StatusNotFound, utils.NewErrorResponse(http.StatusNotFound, err.Error()))
			return
		}
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Failed to load subscription"))
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Subscription retrieved successfully", sub))
}

// Upgrade godoc
// @Summary Upgrade to premium
// @Description Replace the active subscription with a premium one
// @Tags subscriptions
// @Produce  json
// @Security Bearer
// @Success 200 {object} utils.Response
// @Failure 401 {object} utils.Response
// @Failure 403 {object} utils.Response
// @Failure 409 {object} utils.Response
// @Router /subscriptions/upgrade [post]
func Upgrade(c *gin.Context) {
	user, exists := c.Get("user")
	if !exists {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse(http.StatusUnauthorized, "Unauthorized"))
		return
	}
	u := user.(models.User)

	sub, err := services.UpgradeToPremium(u.ID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrStaffNoSubscription):
			c.JSON(http.StatusForbidden, utils.NewErrorResponse(http.StatusForbidden, err.Error()))
		case errors.Is(err, services.ErrAlreadyPremium):
			c.JSON(http.StatusConflict, utils.NewErrorResponse(http.StatusConflict, err.Error()))
		case errors.Is(err, services.ErrNoActiveSubscription):
			c.JSON(http.StatusNotFound, utils.NewErrorResponse(http.StatusNotFound, err.Error()))
		default:
			c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Failed to upgrade subscription"))
		}
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Subscription upgraded successfully", sub))
}
