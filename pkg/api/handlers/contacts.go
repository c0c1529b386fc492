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
	"github.com/salesbridge/salesbridge/pkg/contacts"
	"github.com/salesbridge/salesbridge/pkg/listview"
	"github.com/salesbridge/salesbridge/pkg/metrics"
	"github.com/salesbridge/salesbridge/pkg/models"
)

// ContactHandler handles contact-related HTTP requests.
type ContactHandler struct {
	service   *contacts.Service
	metrics   *metrics.Metrics
	validator *validator.Validate
}

// NewContactHandler creates a new contact handler
func NewContactHandler(service *contacts.Service, m *metrics.Metrics) *ContactHandler {
	return &ContactHandler{
		service:   service,
		metrics:   m,
		validator: validator.New(),
	}
}

// List returns the contact list view: filtered, sorted, paginated
func (h *ContactHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	records, err := h.service.GetAll(ctx)
	if err != nil {
		return apierrors.StoreError(c, err)
	}

	return c.JSON(http.StatusOK, listview.Apply(records, bindListQuery(c), contacts.Schema))
}

// Get returns a single contact by ID
func (h *ContactHandler) Get(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_id",
			Message: "Contact ID must be a number",
		})
	}

	contact, err := h.service.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return apierrors.NotFoundError(c, "contact")
		}
		return apierrors.StoreError(c, err)
	}

	return c.JSON(http.StatusOK, contact)
}

// Create creates a new contact
func (h *ContactHandler) Create(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	var req models.CreateContactRequest
	if err := c.Bind(&req); err != nil {
		return apierrors.ValidationError(c, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return apierrors.ValidationError(c, err)
	}

	contact, err := h.service.Create(ctx, req)
	if err != nil {
		if errors.Is(err, models.ErrCreateFailed) {
			return apierrors.RejectedError(c, err)
		}
		return apierrors.StoreError(c, err)
	}

	if h.metrics != nil {
		h.metrics.RecordCreated("contact")
	}

	return c.JSON(http.StatusCreated, contact)
}

// Update applies a partial update to a contact
func (h *ContactHandler) Update(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_id",
			Message: "Contact ID must be a number",
		})
	}

	var req models.UpdateContactRequest
	if err := c.Bind(&req); err != nil {
		return apierrors.ValidationError(c, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return apierrors.ValidationError(c, err)
	}

	contact, err := h.service.Update(ctx, id, req)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			return apierrors.NotFoundError(c, "contact")
		case errors.Is(err, models.ErrUpdateFailed):
			return apierrors.RejectedError(c, err)
		}
		return apierrors.StoreError(c, err)
	}

	return c.JSON(http.StatusOK, contact)
}

// Delete removes a contact
func (h *ContactHandler) Delete(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_id",
			Message: "Contact ID must be a number",
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
