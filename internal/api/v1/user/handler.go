package user

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/harshinipriyannaS/Librivault/internal/database"
	"github.com/harshinipriyannaS/Librivault/internal/models"
	"github.com/harshinipriyannaS/Librivault/internal/services"
	"github.com/harshinipriyannaS/Librivault/internal/utils"
)

// CurrentUser godoc
// @Summary Get current user
// @Description Get the current user's profile with live borrowing state
// @Tags user
// @Produce  json
// @Security Bearer
// @Success 200 {object} utils.Response{data=user.ProfileResponse}
// @Failure 401 {object} utils.Response
// @Failure 500 {object} utils.Response
// @Router /users/me [get]
func CurrentUser(c *gin.Context) {
	user, exists := c.Get("user")
	if !exists {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse(http.StatusUnauthorized, "Unauthorized"))
		return
	}

	u := user.(models.User)

	// Reload from DB so credits reflect returns that happened after the
	// cached middleware copy was taken.
	var latestUser models.User
	if err := database.DB.First(&latestUser, u.ID).Error; err == nil {
		u = latestUser
	}

	activeLoans, err := services.CountActiveLoans(u.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Failed to load borrowing state"))
		return
	}

	outstanding, err := services.TotalOutstandingFines(u.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Failed to load fine state"))
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("User information retrieved successfully", ProfileResponse{
		UserResponse: UserResponse{
			ID:            u.ID,
			Email:         u.Email,
			FullName:      u.FullName,
			Role:          u.Role,
			ReaderCredits: u.ReaderCredits,
			IsActive:      u.IsActive,
		},
		ActiveLoans:      activeLoans,
		OutstandingFines: outstanding,
	}))
}

// ListNotifications godoc
// @Summary List my notifications
// @Description List the current user's notifications, newest first
// @Tags user
// @Produce  json
// @Security Bearer
// @Param   page   query  int  false  "Page number"
// @Param   limit  query  int  false  "Page size"
// @Success 200 {object} utils.Response
// @Failure 401 {object} utils.Response
// @Failure 500 {object} utils.Response
// @Router /users/me/notifications [get]
func ListNotifications(c *gin.Context) {
	user, exists := c.Get("user")
	if !exists {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse(http.StatusUnauthorized, "Unauthorized"))
		return
	}
	u := user.(models.User)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	notifications, total, err := services.FindNotificationsByUser(u.ID, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Failed to list notifications"))
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Notifications retrieved successfully", gin.H{
		"notifications": notifications,
		"total":         total,
		"page":          page,
		"limit":         limit,
	}))
}

// MarkNotificationRead godoc
// @Summary Mark a notification as read
// @Tags user
// @Produce  json
// @Security Bearer
// @Param   id   path  int  true  "Notification ID"
// @Success 200 {object} utils.Response
// @Failure 401 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Router /users/me/notifications/{id}/read [post]
func MarkNotificationRead(c *gin.Context) {
	user, exists := c.Get("user")
	if !exists {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse(http.StatusUnauthorized, "Unauthorized"))
		return
	}
	u := user.(models.User)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, "Invalid notification ID"))
		return
	}

	if err := services.MarkNotificationRead(uint(id), u.ID); err != nil {
		c.JSON(http.StatusNotFound, utils.NewErrorResponse(http.StatusNotFound, "Notification not found"))
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Notification marked as read", nil))
}
