package fine

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/harshinipriyannaS/Librivault/internal/models"
	"github.com/harshinipriyannaS/Librivault/internal/services"
	"github.com/harshinipriyannaS/Librivault/internal/utils"
)

// MyFines godoc
// @Summary List my fines
// @Description List the current user's fines with the outstanding total
// @Tags fines
// @Produce  json
// @Security Bearer
// @Success 200 {object} utils.Response
// @Failure 401 {object} utils.Response
// @Failure 500 {object} utils.Response
// @Router /fines [get]
func MyFines(c *gin.Context) {
	user, exists := c.Get("user")
	if !exists {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse(http.StatusUnauthorized, "Unauthorized"))
		return
	}
	u := user.(models.User)

	fines, err := services.FindFinesByReader(u.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Failed to list fines"))
		return
	}

	outstanding, err := services.TotalOutstandingFines(u.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Failed to total fines"))
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Fines retrieved successfully", gin.H{
		"fines":             fines,
		"outstanding_total": outstanding,
	}))
}

// PayFine godoc
// @Summary Pay a fine
// @Description Open a gateway payment for a pending fine and return the jump URL
// @Tags fines
// @Accept  json
// @Produce  json
// @Security Bearer
// @Param   id     path  int       true   "Fine ID"
// @Param   input  body  PayInput  false  "Payment channel"
// @Success 200 {object} utils.Response
// @Failure 401 {object} utils.Response
// @Failure 403 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Failure 409 {object} utils.Response
// @Router /fines/{id}/pay [post]
func PayFine(c *gin.Context) {
	user, exists := c.Get("user")
	if !exists {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse(http.StatusUnauthorized, "Unauthorized"))
		return
	}
	u := user.(models.User)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, "Invalid fine ID"))
		return
	}

	var input PayInput
	_ = c.ShouldBindJSON(&input) // channel is optional

	payment, jumpURL, err := services.CreateFinePayment(u.ID, uint(id), input.Channel)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrFineNotFound):
			c.JSON(http.StatusNotFound, utils.NewErrorResponse(http.StatusNotFound, err.Error()))
		case errors.Is(err, services.ErrUnauthorized):
			c.JSON(http.StatusForbidden, utils.NewErrorResponse(http.StatusForbidden, err.Error()))
		case errors.Is(err, services.ErrFineAlreadyResolved):
			c.JSON(http.StatusConflict, utils.NewErrorResponse(http.StatusConflict, err.Error()))
		case errors.Is(err, services.ErrPaymentGatewayOff):
			c.JSON(http.StatusServiceUnavailable, utils.NewErrorResponse(http.StatusServiceUnavailable, err.Error()))
		default:
			c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Failed to create payment"))
		}
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Payment created successfully", gin.H{
		"payment":  payment,
		"jump_url": jumpURL,
	}))
}

// WaiveFine godoc
// @Summary Waive a fine
// @Description Forgive a pending fine; staff only, the reason is recorded
// @Tags fines
// @Accept  json
// @Produce  json
// @Security Bearer
// @Param   id     path  int         true  "Fine ID"
// @Param   input  body  WaiveInput  true  "Waiver reason"
// @Success 200 {object} utils.Response
// @Failure 401 {object} utils.Response
// @Failure 403 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Failure 409 {object} utils.Response
// @Router /staff/fines/{id}/waive [post]
func WaiveFine(c *gin.Context) {
	user, exists := c.Get("user")
	if !exists {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse(http.StatusUnauthorized, "Unauthorized"))
		return
	}
	u := user.(models.User)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, "Invalid fine ID"))
		return
	}

	var input WaiveInput
	if !utils.BindAndValidate(c, &input) {
		return
	}

	waived, err := services.WaiveFine(uint(id), u.ID, input.Reason)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrFineNotFound):
			c.JSON(http.StatusNotFound, utils.NewErrorResponse(http.StatusNotFound, err.Error()))
		case errors.Is(err, services.ErrUnauthorized):
			c.JSON(http.StatusForbidden, utils.NewErrorResponse(http.StatusForbidden, err.Error()))
		case errors.Is(err, services.ErrFineAlreadyResolved):
			c.JSON(http.StatusConflict, utils.NewErrorResponse(http.StatusConflict, err.Error()))
		default:
			c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Failed to waive fine"))
		}
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Fine waived successfully", waived))
}
