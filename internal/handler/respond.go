// Package handler provides shared response and request-decoding
// helpers for the HTTP layer. All endpoints speak JSON; rendering is
// left to the consuming frontend.
package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/hallgrim/vanir/internal/domain"
	"github.com/hallgrim/vanir/internal/middleware"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// JSON writes v as a JSON response with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v) //nolint:errcheck
	}
}

// Decode reads the request body as JSON into dst and validates struct
// tags. Validation failures come back as a domain.ValidationError so
// ErrorResponse renders them as a field->message map.
func Decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return domain.Invalid("handler.Decode", "Request body is not valid JSON")
	}
	return ValidateStruct(dst)
}

// ValidateStruct runs struct-tag validation and collects failures into
// a domain.ValidationError.
func ValidateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		return domain.Internal(err, "handler.ValidateStruct", "An unexpected error occurred")
	}

	var out error
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			field := strings.ToLower(fe.Field())
			out = domain.AddFieldError(out, field, validationMessage(fe))
		}
	}
	if out == nil {
		return domain.Invalid("handler.ValidateStruct", "Request failed validation")
	}
	return out
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Must be a valid email address"
	case "min":
		return fmt.Sprintf("Must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("Must be at most %s characters", fe.Param())
	case "gte":
		return fmt.Sprintf("Must be %s or more", fe.Param())
	case "gt":
		return fmt.Sprintf("Must be greater than %s", fe.Param())
	case "uuid":
		return "Must be a valid identifier"
	default:
		return fmt.Sprintf("Failed %s validation", fe.Tag())
	}
}

// ErrorCodeToHTTPStatus maps domain error codes to HTTP status codes.
func ErrorCodeToHTTPStatus(code string) int {
	switch code {
	case domain.EINVALID:
		return http.StatusBadRequest
	case domain.EUNAUTHORIZED:
		return http.StatusUnauthorized
	case domain.EPAYMENT:
		return http.StatusPaymentRequired
	case domain.EFORBIDDEN:
		return http.StatusForbidden
	case domain.ENOTFOUND:
		return http.StatusNotFound
	case domain.ECONFLICT:
		return http.StatusConflict
	case domain.EINTERNAL:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// ErrorResponse writes err as a structured JSON error. Validation
// errors include the per-field message map; internal details never
// reach the client.
func ErrorResponse(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	if domain.IsValidationError(err) {
		JSON(w, http.StatusBadRequest, map[string]any{
			"error": map[string]any{
				"code":    domain.EINVALID,
				"message": "Validation failed",
				"fields":  domain.GetValidationFields(err),
			},
		})
		return
	}

	code := domain.ErrorCode(err)
	message := domain.ErrorMessage(err)
	status := ErrorCodeToHTTPStatus(code)

	if logger != nil {
		attrs := []any{
			"error", err.Error(),
			"code", code,
			"path", r.URL.Path,
			"method", r.Method,
			"status", status,
		}
		if reqID := middleware.GetRequestID(r.Context()); reqID != "" {
			attrs = append(attrs, "request_id", reqID)
		}
		if status >= 500 {
			logger.Error("request failed", attrs...)
		} else {
			logger.Info("request rejected", attrs...)
		}
	}

	JSON(w, status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
