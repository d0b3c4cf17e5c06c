package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	catalogdomain "github.com/smallbiznis/storefront/internal/catalog/domain"
	commercedomain "github.com/smallbiznis/storefront/internal/commerce/domain"
	psdomain "github.com/smallbiznis/storefront/internal/productsession/domain"
	"github.com/smallbiznis/storefront/internal/selection"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	switch {
	case errors.Is(err, selection.ErrSelectionRequired):
		// Not a failure: a guarded transition that redirects the viewer
		// to make a choice.
		return http.StatusConflict, errorPayload{
			Type:    "selection_required",
			Message: "choose a pricing option before purchasing",
		}
	case errors.Is(err, selection.ErrUnknownOption):
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "unknown pricing option",
		}
	case errors.Is(err, catalogdomain.ErrInvalidProduct),
		errors.Is(err, psdomain.ErrInvalidSession):
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
		}
	case errors.Is(err, catalogdomain.ErrProductNotFound),
		errors.Is(err, psdomain.ErrSessionNotFound):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case errors.Is(err, psdomain.ErrSessionConflict):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: "a live session already exists for this product",
		}
	case errors.Is(err, psdomain.ErrRateLimited):
		return http.StatusTooManyRequests, errorPayload{
			Type:    "rate_limited",
			Message: "too many requests",
		}
	case errors.Is(err, catalogdomain.ErrCatalogUnavailable),
		errors.Is(err, commercedomain.ErrCommerceUnavailable):
		return http.StatusServiceUnavailable, errorPayload{
			Type:    "service_unavailable",
			Message: "upstream service unavailable",
		}
	case errors.Is(err, commercedomain.ErrIntentRejected):
		return http.StatusUnprocessableEntity, errorPayload{
			Type:    "intent_rejected",
			Message: "the cart rejected this purchase intent",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) {
		return vErr
	}
	return nil
}

// classifyErrorForLog returns (error_type, error_code) fields for request logs.
func classifyErrorForLog(err error) (string, string) {
	if err == nil {
		return "", ""
	}
	if asValidationErrors(err) != nil {
		return "validation_error", "invalid_request"
	}
	status, payload := mapError(err)
	if status >= http.StatusInternalServerError {
		return "internal_error", payload.Type
	}
	return payload.Type, payload.Type
}
