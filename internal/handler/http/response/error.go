package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/halaqah-payroll-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/halaqah-payroll-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses by their apperror category.
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch apperror.Code(err) {
	case "VALIDATION_ERROR":
		writeError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", err.Error())
	case "INSUFFICIENT_BALANCE":
		InsufficientBalance(w, err.Error())
	case "CONFLICT":
		Conflict(w, err.Error())
	case "NOT_FOUND":
		NotFound(w, err.Error())
	case "FORBIDDEN":
		Forbidden(w, err.Error())
	default:
		slog.Error("request failed", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
