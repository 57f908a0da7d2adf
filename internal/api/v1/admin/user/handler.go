package user

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/harshinipriyannaS/Librivault/internal/services"
	"github.com/harshinipriyannaS/Librivault/internal/utils"
)

type AssignLibrarianInput struct {
	UserID     uint `json:"user_id" binding:"required"`
	CategoryID uint `json:"category_id" binding:"required"`
}

// ListUsers godoc
// @Summary List users
// @Tags admin
// @Produce  json
// @Security Bearer
// @Param   page   query  int  false  "Page number"
// @Param   limit  query  int  false  "Page size"
// @Success 200 {object} utils.Response
// @Failure 403 {object} utils.Response
// @Router /admin/users [get]
func ListUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	users, total, err := services.FindUsers(page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Failed to list users"))
		return
	}

	// Never ship password hashes, even to admins
	for i := range users {
		users[i].Password = ""
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Users retrieved successfully", gin.H{
		"users": users,
		"total": total,
		"page":  page,
		"limit": limit,
	}))
}

// AssignLibrarian godoc
// @Summary Assign a librarian to a category
// @Description Promote a user to librarian and bind them to the category they review
// @Tags admin
// @Accept  json
// @Produce  json
// @Security Bearer
// @Param   input  body  AssignLibrarianInput  true  "Assignment Input"
// @Success 200 {object} utils.Response
// @Failure 400 {object} utils.Response
// @Failure 403 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Router /admin/librarians [post]
func AssignLibrarian(c *gin.Context) {
	var input AssignLibrarianInput
	if !utils.BindAndValidate(c, &input) {
		return
	}

	profile, err := services.AssignLibrarianCategory(input.UserID, input.CategoryID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound),
			errors.Is(err, services.ErrCategoryNotFound):
			c.JSON(http.StatusNotFound, utils.NewErrorResponse(http.StatusNotFound, err.Error()))
		default:
			c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Failed to assign librarian"))
		}
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Librarian assigned successfully", profile))
}
