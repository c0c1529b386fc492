package handlers

import (
	"bytes"
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	apierrors "github.com/salesbridge/salesbridge/pkg/api/errors"
	"github.com/salesbridge/salesbridge/pkg/export"
	"github.com/salesbridge/salesbridge/pkg/metrics"
	"github.com/salesbridge/salesbridge/pkg/models"
)

// ExportHandler handles export downloads
type ExportHandler struct {
	service *export.Service
	metrics *metrics.Metrics
}

// NewExportHandler creates a new export handler
func NewExportHandler(service *export.Service, m *metrics.Metrics) *ExportHandler {
	return &ExportHandler{
		service: service,
		metrics: m,
	}
}

var exportEntities = map[string]bool{
	"contacts":   true,
	"companies":  true,
	"deals":      true,
	"activities": true,
	"quotes":     true,
}

var exportContentTypes = map[string]string{
	export.FormatCSV:   "text/csv",
	export.FormatExcel: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

// Download streams the named entity's full list as an attachment. Format
// defaults to CSV.
func (h *ExportHandler) Download(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	entity := c.Param("entity")
	if !exportEntities[entity] {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_entity",
			Message: "Unknown export entity",
		})
	}

	format := c.QueryParam("format")
	if format == "" {
		format = export.FormatCSV
	}
	contentType, ok := exportContentTypes[format]
	if !ok {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_format",
			Message: "Format must be csv or excel",
		})
	}

	// Buffered so the attachment headers carry the generated filename
	var buf bytes.Buffer
	filename, err := h.service.Export(ctx, entity, format, c.QueryParam("search"), &buf)
	if err != nil {
		return apierrors.StoreError(c, err)
	}

	if h.metrics != nil {
		h.metrics.RecordExport(entity, format)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Blob(http.StatusOK, contentType, buf.Bytes())
}
