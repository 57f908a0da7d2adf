package request

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/harshinipriyannaS/Librivault/internal/models"
	"github.com/harshinipriyannaS/Librivault/internal/services"
	"github.com/harshinipriyannaS/Librivault/internal/utils"
)

// PendingRequests godoc
// @Summary List pending requests for my category
// @Description List pending borrow requests for books in the librarian's assigned category, oldest first
// @Tags librarian
// @Produce  json
// @Security Bearer
// @Param   page   query  int  false  "Page number"
// @Param   limit  query  int  false  "Page size"
// @Success 200 {object} utils.Response
// @Failure 401 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Router /librarian/requests [get]
func PendingRequests(c *gin.Context) {
	u := reviewer(c)
	if u == nil {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	requests, total, err := services.FindPendingRequestsForLibrarian(u.ID, page, limit)
	if err != nil {
		if errors.Is(err, services.ErrLibrarianProfileMiss) {
			c.JSON(http.StatusNotFound, utils.NewErrorResponse(http.StatusNotFound, err.Error()))
			return
		}
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Failed to list pending requests"))
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Pending requests retrieved successfully", gin.H{
		"requests": requests,
		"total":    total,
		"page":     page,
		"limit":    limit,
	}))
}

// Approve godoc
// @Summary Approve a borrow request
// @Description Approve a pending request and open the loan; fails if no copy remains
// @Tags librarian
// @Accept  json
// @Produce  json
// @Security Bearer
// @Param   id     path  int          true   "Request ID"
// @Param   input  body  ReviewInput  false  "Review notes"
// @Success 200 {object} utils.Response
// @Failure 401 {object} utils.Response
// @Failure 403 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Failure 409 {object} utils.Response
// @Router /librarian/requests/{id}/approve [post]
func Approve(c *gin.Context) {
	review(c, true)
}

// Decline godoc
// @Summary Decline a borrow request
// @Tags librarian
// @Accept  json
// @Produce  json
// @Security Bearer
// @Param   id     path  int          true   "Request ID"
// @Param   input  body  ReviewInput  false  "Review notes"
// @Success 200 {object} utils.Response
// @Failure 401 {object} utils.Response
// @Failure 403 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Failure 409 {object} utils.Response
// @Router /librarian/requests/{id}/decline [post]
func Decline(c *gin.Context) {
	review(c, false)
}

func review(c *gin.Context, approve bool) {
	u := reviewer(c)
	if u == nil {
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, "Invalid request ID"))
		return
	}

	var input ReviewInput
	_ = c.ShouldBindJSON(&input) // notes are optional

	var request *models.BorrowRequest
	if approve {
		request, err = services.ApproveBorrowRequest(uint(id), u.ID, input.Notes)
	} else {
		request, err = services.DeclineBorrowRequest(uint(id), u.ID, input.Notes)
	}
	if err != nil {
		switch {
		case errors.Is(err, services.ErrRequestNotFound),
			errors.Is(err, services.ErrLibrarianProfileMiss):
			c.JSON(http.StatusNotFound, utils.NewErrorResponse(http.StatusNotFound, err.Error()))
		case errors.Is(err, services.ErrUnauthorized),
			errors.Is(err, services.ErrNotAssignedCategory):
			c.JSON(http.StatusForbidden, utils.NewErrorResponse(http.StatusForbidden, err.Error()))
		case errors.Is(err, services.ErrAlreadyReviewed),
			errors.Is(err, services.ErrBookUnavailable):
			c.JSON(http.StatusConflict, utils.NewErrorResponse(http.StatusConflict, err.Error()))
		default:
			c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Failed to review request"))
		}
		return
	}

	message := "Borrow request declined"
	if approve {
		message = "Borrow request approved"
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse(message, request))
}

func reviewer(c *gin.Context) *models.User {
	user, exists := c.Get("user")
	if !exists {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse(http.StatusUnauthorized, "Unauthorized"))
		return nil
	}
	u := user.(models.User)
	return &u
}
