package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/absensi-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/absensi-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/absensi-backend-go/internal/pkg/timeofday"
	"github.com/cmlabs-hris/absensi-backend-go/internal/pkg/validator"
)

const refreshHint = "refresh" // tells the client to reload today's state

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	var storageErr *database.StorageError

	switch {
	// Attendance domain errors
	case errors.Is(err, attendance.ErrLocationRequired):
		Error(w, http.StatusUnprocessableEntity, CodeLocationRequired, "Location is required to record attendance", nil)
	case errors.Is(err, attendance.ErrInvalidState):
		Error(w, http.StatusConflict, CodeInvalidState, err.Error(), map[string]string{"hint": refreshHint})
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance not found")
	case errors.Is(err, attendance.ErrInvalidStatus):
		BadRequest(w, "Invalid attendance status", nil)
	case errors.Is(err, timeofday.ErrInvalidFormat):
		// stored data is malformed, the raw value is not echoed
		BadRequest(w, "Invalid time format", nil)

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmployeeInactive):
		Forbidden(w, "Employee is inactive")
	case errors.Is(err, employee.ErrEmployeeExists),
		errors.Is(err, employee.ErrEmployeeAlreadyInactive),
		errors.Is(err, employee.ErrCannotDeactivateSelf):
		Conflict(w, err.Error())

	// Leave domain errors
	case errors.Is(err, leave.ErrQuotaExhausted):
		Conflict(w, "Leave quota exhausted")
	case errors.Is(err, leave.ErrQuotaNotFound):
		NotFound(w, "Leave quota not found")

	// Report domain errors
	case errors.Is(err, report.ErrInvalidDateRange):
		BadRequest(w, "End date must not be before start date", nil)
	case errors.Is(err, report.ErrUnsupportedFormat):
		BadRequest(w, "Unsupported export format", nil)

	// Auth errors
	case errors.Is(err, jwt.ErrMissingClaims), errors.Is(err, jwt.ErrInvalidClaims):
		Unauthorized(w, "Invalid or missing token")

	case errors.As(err, &storageErr):
		slog.Error("storage failure", "op", storageErr.Op, "error", storageErr.Err)
		Error(w, http.StatusServiceUnavailable, CodeStorage, "Service temporarily unavailable, please try again", nil)

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
