package borrowing

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/harshinipriyannaS/Librivault/internal/models"
	"github.com/harshinipriyannaS/Librivault/internal/services"
	"github.com/harshinipriyannaS/Librivault/internal/utils"
)

// CreateRequest godoc
// @Summary File a borrow request
// @Description Request a book; a librarian assigned to the book's category reviews it
// @Tags borrowing
// @Accept  json
// @Produce  json
// @Security Bearer
// @Param   input  body  CreateRequestInput  true  "Request Input"
// @Success 201 {object} utils.Response{data=borrowing.RequestResponse}
// @Failure 400 {object} utils.Response
// @Failure 403 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Failure 409 {object} utils.Response
// @Router /borrowing/requests [post]
func CreateRequest(c *gin.Context) {
	u := currentUser(c)
	if u == nil {
		return
	}

	var input CreateRequestInput
	if !utils.BindAndValidate(c, &input) {
		return
	}

	request, err := services.CreateBorrowRequest(u.ID, input.BookID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrBookNotFound):
			c.JSON(http.StatusNotFound, utils.NewErrorResponse(http.StatusNotFound, err.Error()))
		case errors.Is(err, services.ErrOutstandingFines),
			errors.Is(err, services.ErrBorrowLimitReached),
			errors.Is(err, services.ErrUserInactive):
			c.JSON(http.StatusForbidden, utils.NewErrorResponse(http.StatusForbidden, err.Error()))
		case errors.Is(err, services.ErrBookUnavailable),
			errors.Is(err, services.ErrDuplicateRequest):
			c.JSON(http.StatusConflict, utils.NewErrorResponse(http.StatusConflict, err.Error()))
		default:
			c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Failed to create borrow request"))
		}
		return
	}

	c.JSON(http.StatusCreated, utils.NewSuccessResponse("Borrow request created successfully", toRequestResponse(request)))
}

// MyRequests godoc
// @Summary List my borrow requests
// @Tags borrowing
// @Produce  json
// @Security Bearer
// @Param   page   query  int  false  "Page number"
// @Param   limit  query  int  false  "Page size"
// @Success 200 {object} utils.Response
// @Failure 401 {object} utils.Response
// @Router /borrowing/requests [get]
func MyRequests(c *gin.Context) {
	u := currentUser(c)
	if u == nil {
		return
	}

	page, limit := pagination(c)
	requests, total, err := services.FindBorrowRequestsByReader(u.ID, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Failed to list borrow requests"))
		return
	}

	responses := make([]RequestResponse, 0, len(requests))
	for i := range requests {
		responses = append(responses, toRequestResponse(&requests[i]))
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Borrow requests retrieved successfully", gin.H{
		"requests": responses,
		"total":    total,
		"page":     page,
		"limit":    limit,
	}))
}

// MyLoans godoc
// @Summary List my loans
// @Tags borrowing
// @Produce  json
// @Security Bearer
// @Param   page   query  int  false  "Page number"
// @Param   limit  query  int  false  "Page size"
// @Success 200 {object} utils.Response
// @Failure 401 {object} utils.Response
// @Router /borrowing/loans [get]
func MyLoans(c *gin.Context) {
	u := currentUser(c)
	if u == nil {
		return
	}

	page, limit := pagination(c)
	records, total, err := services.FindBorrowRecordsByReader(u.ID, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Failed to list loans"))
		return
	}

	responses := make([]RecordResponse, 0, len(records))
	for i := range records {
		responses = append(responses, toRecordResponse(&records[i]))
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Loans retrieved successfully", gin.H{
		"loans": responses,
		"total": total,
		"page":  page,
		"limit": limit,
	}))
}

// ReturnBook godoc
// @Summary Return a borrowed book
// @Description Close the loan, award early-return credits, assess any fine
// @Tags borrowing
// @Produce  json
// @Security Bearer
// @Param   id   path  int  true  "Borrow record ID"
// @Success 200 {object} utils.Response{data=borrowing.RecordResponse}
// @Failure 401 {object} utils.Response
// @Failure 403 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Failure 409 {object} utils.Response
// @Router /borrowing/loans/{id}/return [post]
func ReturnBook(c *gin.Context) {
	u := currentUser(c)
	if u == nil {
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, "Invalid loan ID"))
		return
	}

	record, err := services.ReturnBook(uint(id), u.ID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, utils.NewErrorResponse(http.StatusNotFound, err.Error()))
		case errors.Is(err, services.ErrNotOwner):
			c.JSON(http.StatusForbidden, utils.NewErrorResponse(http.StatusForbidden, err.Error()))
		case errors.Is(err, services.ErrAlreadyReturned):
			c.JSON(http.StatusConflict, utils.NewErrorResponse(http.StatusConflict, err.Error()))
		default:
			c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Failed to return book"))
		}
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Book returned successfully", toRecordResponse(record)))
}

func currentUser(c *gin.Context) *models.User {
	user, exists := c.Get("user")
	if !exists {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse(http.StatusUnauthorized, "Unauthorized"))
		return nil
	}
	u := user.(models.User)
	return &u
}

func pagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}

func toRequestResponse(r *models.BorrowRequest) RequestResponse {
	return RequestResponse{
		ID:           r.ID,
		ReaderID:     r.ReaderID,
		BookID:       r.BookID,
		Status:       r.Status,
		RequestedAt:  r.RequestedAt,
		ReviewedAt:   r.ReviewedAt,
		ReviewedByID: r.ReviewedByID,
		ReviewNotes:  r.ReviewNotes,
	}
}

func toRecordResponse(r *models.BorrowRecord) RecordResponse {
	return RecordResponse{
		ID:            r.ID,
		ReaderID:      r.ReaderID,
		BookID:        r.BookID,
		BorrowedAt:    r.BorrowedAt,
		DueDate:       r.DueDate,
		ReturnedAt:    r.ReturnedAt,
		Status:        r.Status,
		UsedCredit:    r.UsedCredit,
		CreditsEarned: r.CreditsEarned,
	}
}
