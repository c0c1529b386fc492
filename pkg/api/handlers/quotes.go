package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	apierrors "github.com/salesbridge/salesbridge/pkg/api/errors"
	"github.com/salesbridge/salesbridge/pkg/listview"
	"github.com/salesbridge/salesbridge/pkg/metrics"
	"github.com/salesbridge/salesbridge/pkg/models"
	"github.com/salesbridge/salesbridge/pkg/quotes"
)

// QuoteHandler handles quote-related HTTP requests.
type QuoteHandler struct {
	service   *quotes.Service
	metrics   *metrics.Metrics
	validator *validator.Validate
}

// NewQuoteHandler creates a new quote handler
func NewQuoteHandler(service *quotes.Service, m *metrics.Metrics) *QuoteHandler {
	return &QuoteHandler{
		service:   service,
		metrics:   m,
		validator: validator.New(),
	}
}

// List returns the quote list view: filtered, sorted, paginated
func (h *QuoteHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	records, err := h.service.GetAll(ctx)
	if err != nil {
		return apierrors.StoreError(c, err)
	}

	return c.JSON(http.StatusOK, listview.Apply(records, bindListQuery(c), quotes.Schema))
}

// Get returns a single quote by ID
func (h *QuoteHandler) Get(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_id",
			Message: "Quote ID must be a number",
		})
	}

	quote, err := h.service.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return apierrors.NotFoundError(c, "quote")
		}
		return apierrors.StoreError(c, err)
	}

	return c.JSON(http.StatusOK, quote)
}

// Create creates a new quote. The date-order rule is enforced here: a quote
// cannot expire before it is issued.
func (h *QuoteHandler) Create(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	var req models.CreateQuoteRequest
	if err := c.Bind(&req); err != nil {
		return apierrors.ValidationError(c, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return apierrors.ValidationError(c, err)
	}
	if !validDateOrder(req.QuoteDate, req.ValidUntilDate) {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "validation_error",
			Message: "validUntilDate cannot be before quoteDate",
		})
	}

	quote, err := h.service.Create(ctx, req)
	if err != nil {
		if errors.Is(err, models.ErrCreateFailed) {
			return apierrors.RejectedError(c, err)
		}
		return apierrors.StoreError(c, err)
	}

	if h.metrics != nil {
		h.metrics.RecordCreated("quote")
	}

	return c.JSON(http.StatusCreated, quote)
}

// Update applies a partial update to a quote
func (h *QuoteHandler) Update(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_id",
			Message: "Quote ID must be a number",
		})
	}

	var req models.UpdateQuoteRequest
	if err := c.Bind(&req); err != nil {
		return apierrors.ValidationError(c, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return apierrors.ValidationError(c, err)
	}
	if req.QuoteDate != nil && req.ValidUntilDate != nil &&
		!validDateOrder(*req.QuoteDate, *req.ValidUntilDate) {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "validation_error",
			Message: "validUntilDate cannot be before quoteDate",
		})
	}

	quote, err := h.service.Update(ctx, id, req)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			return apierrors.NotFoundError(c, "quote")
		case errors.Is(err, models.ErrUpdateFailed):
			return apierrors.RejectedError(c, err)
		}
		return apierrors.StoreError(c, err)
	}

	return c.JSON(http.StatusOK, quote)
}

// Delete removes a quote
func (h *QuoteHandler) Delete(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_id",
			Message: "Quote ID must be a number",
		})
	}

	if err := h.service.Delete(ctx, id); err != nil {
		if errors.Is(err, models.ErrDeleteFailed) {
			return apierrors.RejectedError(c, err)
		}
		return apierrors.StoreError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// validDateOrder reports whether validUntil is on or after quoteDate.
// Either side empty or unparseable skips the check.
func validDateOrder(quoteDate, validUntil string) bool {
	if quoteDate == "" || validUntil == "" {
		return true
	}
	from, err := time.Parse("2006-01-02", quoteDate)
	if err != nil {
		return true
	}
	until, err := time.Parse("2006-01-02", validUntil)
	if err != nil {
		return true
	}
	return !until.Before(from)
}
