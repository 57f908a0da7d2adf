package loan

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/harshinipriyannaS/Librivault/internal/services"
	"github.com/harshinipriyannaS/Librivault/internal/utils"
)

// OverdueLoans godoc
// @Summary List overdue loans
// @Description List loans past due, including ones the nightly sweep has not marked yet
// @Tags admin
// @Produce  json
// @Security Bearer
// @Param   page   query  int  false  "Page number"
// @Param   limit  query  int  false  "Page size"
// @Success 200 {object} utils.Response
// @Failure 403 {object} utils.Response
// @Router /admin/loans/overdue [get]
func OverdueLoans(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	records, total, err := services.FindOverdueRecords(page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Failed to list overdue loans"))
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Overdue loans retrieved successfully", gin.H{
		"loans": records,
		"total": total,
		"page":  page,
		"limit": limit,
	}))
}
