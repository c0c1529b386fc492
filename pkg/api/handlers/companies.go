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
	"github.com/salesbridge/salesbridge/pkg/companies"
	"github.com/salesbridge/salesbridge/pkg/listview"
	"github.com/salesbridge/salesbridge/pkg/metrics"
	"github.com/salesbridge/salesbridge/pkg/models"
)

// CompanyHandler handles company-related HTTP requests.
type CompanyHandler struct {
	service   *companies.Service
	metrics   *metrics.Metrics
	validator *validator.Validate
}

// NewCompanyHandler creates a new company handler
func NewCompanyHandler(service *companies.Service, m *metrics.Metrics) *CompanyHandler {
	return &CompanyHandler{
		service:   service,
		metrics:   m,
		validator: validator.New(),
	}
}

// List returns the company list view: filtered, sorted, paginated
func (h *CompanyHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	records, err := h.service.GetAll(ctx)
	if err != nil {
		return apierrors.StoreError(c, err)
	}

	return c.JSON(http.StatusOK, listview.Apply(records, bindListQuery(c), companies.Schema))
}

// Get returns a single company by ID
func (h *CompanyHandler) Get(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_id",
			Message: "Company ID must be a number",
		})
	}

	company, err := h.service.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return apierrors.NotFoundError(c, "company")
		}
		return apierrors.StoreError(c, err)
	}

	return c.JSON(http.StatusOK, company)
}

// Create creates a new company. Aggregate fields start at zero.
func (h *CompanyHandler) Create(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	var req models.CreateCompanyRequest
	if err := c.Bind(&req); err != nil {
		return apierrors.ValidationError(c, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return apierrors.ValidationError(c, err)
	}

	company, err := h.service.Create(ctx, req)
	if err != nil {
		if errors.Is(err, models.ErrCreateFailed) {
			return apierrors.RejectedError(c, err)
		}
		return apierrors.StoreError(c, err)
	}

	if h.metrics != nil {
		h.metrics.RecordCreated("company")
	}

	return c.JSON(http.StatusCreated, company)
}

// Update applies a partial update to a company
func (h *CompanyHandler) Update(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_id",
			Message: "Company ID must be a number",
		})
	}

	var req models.UpdateCompanyRequest
	if err := c.Bind(&req); err != nil {
		return apierrors.ValidationError(c, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return apierrors.ValidationError(c, err)
	}

	company, err := h.service.Update(ctx, id, req)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			return apierrors.NotFoundError(c, "company")
		case errors.Is(err, models.ErrUpdateFailed):
			return apierrors.RejectedError(c, err)
		}
		return apierrors.StoreError(c, err)
	}

	return c.JSON(http.StatusOK, company)
}

// Delete removes a company
func (h *CompanyHandler) Delete(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_id",
			Message: "Company ID must be a number",
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

// Recalculate forces a metrics recompute for one company. Normally recomputes
// ride on contact and deal writes; this endpoint is the manual escape hatch.
func (h *CompanyHandler) Recalculate(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_id",
			Message: "Company ID must be a number",
		})
	}

	if err := h.service.RecalculateMetrics(ctx, id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return apierrors.NotFoundError(c, "company")
		}
		return apierrors.StoreError(c, err)
	}

	company, err := h.service.GetByID(ctx, id)
	if err != nil {
		return apierrors.StoreError(c, err)
	}

	return c.JSON(http.StatusOK, company)
}
