package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/salesbridge/salesbridge/pkg/activities"
	apierrors "github.com/salesbridge/salesbridge/pkg/api/errors"
	"github.com/salesbridge/salesbridge/pkg/listview"
	"github.com/salesbridge/salesbridge/pkg/metrics"
	"github.com/salesbridge/salesbridge/pkg/models"
)

// ActivityHandler handles activity-related HTTP requests.
type ActivityHandler struct {
	service   *activities.Service
	metrics   *metrics.Metrics
	validator *validator.Validate
}

// NewActivityHandler creates a new activity handler
func NewActivityHandler(service *activities.Service, m *metrics.Metrics) *ActivityHandler {
	return &ActivityHandler{
		service:   service,
		metrics:   m,
		validator: validator.New(),
	}
}

// List returns the activity list view: filtered, sorted, paginated
func (h *ActivityHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	records, err := h.service.GetAll(ctx)
	if err != nil {
		return apierrors.StoreError(c, err)
	}

	return c.JSON(http.StatusOK, listview.Apply(records, bindListQuery(c), activities.Schema))
}

// Get returns a single activity by ID
func (h *ActivityHandler) Get(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_id",
			Message: "Activity ID must be a number",
		})
	}

	activity, err := h.service.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return apierrors.NotFoundError(c, "activity")
		}
		return apierrors.StoreError(c, err)
	}

	return c.JSON(http.StatusOK, activity)
}

// Tasks returns the open task list: every activity not yet completed
func (h *ActivityHandler) Tasks(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	list, err := h.service.GetTasks(ctx)
	if err != nil {
		return apierrors.StoreError(c, err)
	}

	return c.JSON(http.StatusOK, list)
}

// History returns completed activities, most recently completed first
func (h *ActivityHandler) History(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	list, err := h.service.GetHistory(ctx)
	if err != nil {
		return apierrors.StoreError(c, err)
	}

	return c.JSON(http.StatusOK, list)
}

// Overdue returns open activities whose due date has passed
func (h *ActivityHandler) Overdue(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	list, err := h.service.GetOverdue(ctx)
	if err != nil {
		return apierrors.StoreError(c, err)
	}

	return c.JSON(http.StatusOK, list)
}

// ByContact returns every activity linked to one contact
func (h *ActivityHandler) ByContact(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	contactID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_id",
			Message: "Contact ID must be a number",
		})
	}

	list, err := h.service.GetByContact(ctx, contactID)
	if err != nil {
		return apierrors.StoreError(c, err)
	}

	return c.JSON(http.StatusOK, list)
}

// ByDeal returns every activity linked to one deal
func (h *ActivityHandler) ByDeal(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	dealID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_id",
			Message: "Deal ID must be a number",
		})
	}

	list, err := h.service.GetByDeal(ctx, dealID)
	if err != nil {
		return apierrors.StoreError(c, err)
	}

	return c.JSON(http.StatusOK, list)
}

// Create creates a new activity
func (h *ActivityHandler) Create(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	var req models.CreateActivityRequest
	if err := c.Bind(&req); err != nil {
		return apierrors.ValidationError(c, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return apierrors.ValidationError(c, err)
	}

	activity, err := h.service.Create(ctx, req)
	if err != nil {
		if errors.Is(err, models.ErrCreateFailed) {
			return apierrors.RejectedError(c, err)
		}
		return apierrors.StoreError(c, err)
	}

	if h.metrics != nil {
		h.metrics.RecordCreated("activity")
	}

	return c.JSON(http.StatusCreated, activity)
}

// Update applies a partial update to an activity
func (h *ActivityHandler) Update(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_id",
			Message: "Activity ID must be a number",
		})
	}

	var req models.UpdateActivityRequest
	if err := c.Bind(&req); err != nil {
		return apierrors.ValidationError(c, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return apierrors.ValidationError(c, err)
	}

	activity, err := h.service.Update(ctx, id, req)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			return apierrors.NotFoundError(c, "activity")
		case errors.Is(err, models.ErrUpdateFailed):
			return apierrors.RejectedError(c, err)
		}
		return apierrors.StoreError(c, err)
	}

	return c.JSON(http.StatusOK, activity)
}

// Complete closes a task, recording the completion time and outcome
func (h *ActivityHandler) Complete(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_id",
			Message: "Activity ID must be a number",
		})
	}

	var req models.CompleteActivityRequest
	if err := c.Bind(&req); err != nil {
		return apierrors.ValidationError(c, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return apierrors.ValidationError(c, err)
	}

	activity, err := h.service.Complete(ctx, id, req.Outcome)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			return apierrors.NotFoundError(c, "activity")
		case errors.Is(err, models.ErrUpdateFailed):
			return apierrors.RejectedError(c, err)
		}
		return apierrors.StoreError(c, err)
	}

	return c.JSON(http.StatusOK, activity)
}

// Delete removes an activity
func (h *ActivityHandler) Delete(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_id",
			Message: "Activity ID must be a number",
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
