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
	"github.com/salesbridge/salesbridge/pkg/deals"
	"github.com/salesbridge/salesbridge/pkg/listview"
	"github.com/salesbridge/salesbridge/pkg/metrics"
	"github.com/salesbridge/salesbridge/pkg/models"
)

// DealHandler handles deal-related HTTP requests.
type DealHandler struct {
	service   *deals.Service
	metrics   *metrics.Metrics
	validator *validator.Validate
}

// NewDealHandler creates a new deal handler
func NewDealHandler(service *deals.Service, m *metrics.Metrics) *DealHandler {
	return &DealHandler{
		service:   service,
		metrics:   m,
		validator: validator.New(),
	}
}

// List returns the deal list view: filtered, sorted, paginated
func (h *DealHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	records, err := h.service.GetAll(ctx)
	if err != nil {
		return apierrors.StoreError(c, err)
	}

	return c.JSON(http.StatusOK, listview.Apply(records, bindListQuery(c), deals.Schema))
}

// Get returns a single deal by ID
func (h *DealHandler) Get(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_id",
			Message: "Deal ID must be a number",
		})
	}

	deal, err := h.service.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return apierrors.NotFoundError(c, "deal")
		}
		return apierrors.StoreError(c, err)
	}

	return c.JSON(http.StatusOK, deal)
}

// ListByStage returns all deals currently in one pipeline stage
func (h *DealHandler) ListByStage(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	stage := c.Param("stage")
	if !models.ValidStage(stage) {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_stage",
			Message: "Unknown pipeline stage",
		})
	}

	list, err := h.service.GetByStage(ctx, stage)
	if err != nil {
		return apierrors.StoreError(c, err)
	}

	return c.JSON(http.StatusOK, list)
}

// PipelineStats returns per-stage deal counts and total values, every stage
// present in pipeline order.
func (h *DealHandler) PipelineStats(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	stats, err := h.service.GetPipelineStats(ctx)
	if err != nil {
		return apierrors.StoreError(c, err)
	}

	return c.JSON(http.StatusOK, stats)
}

// Create creates a new deal
func (h *DealHandler) Create(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	var req models.CreateDealRequest
	if err := c.Bind(&req); err != nil {
		return apierrors.ValidationError(c, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return apierrors.ValidationError(c, err)
	}

	deal, err := h.service.Create(ctx, req)
	if err != nil {
		if errors.Is(err, models.ErrCreateFailed) {
			return apierrors.RejectedError(c, err)
		}
		return apierrors.StoreError(c, err)
	}

	if h.metrics != nil {
		h.metrics.RecordCreated("deal")
	}

	return c.JSON(http.StatusCreated, deal)
}

// Update applies a partial update to a deal
func (h *DealHandler) Update(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_id",
			Message: "Deal ID must be a number",
		})
	}

	var req models.UpdateDealRequest
	if err := c.Bind(&req); err != nil {
		return apierrors.ValidationError(c, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return apierrors.ValidationError(c, err)
	}

	deal, err := h.service.Update(ctx, id, req)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			return apierrors.NotFoundError(c, "deal")
		case errors.Is(err, models.ErrUpdateFailed):
			return apierrors.RejectedError(c, err)
		}
		return apierrors.StoreError(c, err)
	}

	return c.JSON(http.StatusOK, deal)
}

// UpdateStatus moves a deal's status and stage together, stamping the stage
// change time.
func (h *DealHandler) UpdateStatus(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_id",
			Message: "Deal ID must be a number",
		})
	}

	var req models.UpdateDealStatusRequest
	if err := c.Bind(&req); err != nil {
		return apierrors.ValidationError(c, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return apierrors.ValidationError(c, err)
	}

	deal, err := h.service.UpdateStatus(ctx, id, req.Status, req.Stage)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			return apierrors.NotFoundError(c, "deal")
		case errors.Is(err, models.ErrUpdateFailed):
			return apierrors.RejectedError(c, err)
		}
		return apierrors.StoreError(c, err)
	}

	return c.JSON(http.StatusOK, deal)
}

// Delete removes a deal
func (h *DealHandler) Delete(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_id",
			Message: "Deal ID must be a number",
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
