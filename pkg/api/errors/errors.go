// Package errors holds the HTTP error helpers. Responses stay generic so
// internal details never leak to clients; the real error goes to the log.
package errors

import (
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/salesbridge/salesbridge/pkg/models"
)

// ValidationError returns a generic validation error without exposing internal details
func ValidationError(c echo.Context, err error) error {
	log.Printf("[VALIDATION ERROR] Path: %s, Error: %v", c.Request().URL.Path, err)

	return c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Error:   "validation_error",
		Message: "Invalid request data. Please check your input and try again.",
	})
}

// StoreError reports a failed round-trip to the hosted record store. The
// store is an upstream dependency, so this surfaces as a bad gateway.
func StoreError(c echo.Context, err error) error {
	log.Printf("[STORE ERROR] Path: %s, Error: %v", c.Request().URL.Path, err)

	return c.JSON(http.StatusBadGateway, models.ErrorResponse{
		Error:   "store_error",
		Message: "The record store could not complete the request. Please try again later.",
	})
}

// InternalError returns a generic internal server error
func InternalError(c echo.Context, err error) error {
	log.Printf("[INTERNAL ERROR] Path: %s, Error: %v", c.Request().URL.Path, err)

	return c.JSON(http.StatusInternalServerError, models.ErrorResponse{
		Error:   "internal_error",
		Message: "An internal error occurred. Please try again later.",
	})
}

// NotFoundError returns a generic not found error
func NotFoundError(c echo.Context, resource string) error {
	return c.JSON(http.StatusNotFound, models.ErrorResponse{
		Error:   "not_found",
		Message: "The requested " + resource + " was not found.",
	})
}

// RejectedError reports a write the record store refused, typically a
// field-level rejection already logged by the service.
func RejectedError(c echo.Context, err error) error {
	log.Printf("[REJECTED] Path: %s, Error: %v", c.Request().URL.Path, err)

	return c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{
		Error:   "record_rejected",
		Message: "The record store rejected the request.",
	})
}
