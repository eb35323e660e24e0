// Package handlers provides HTTP handlers for the REST API
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	apperrors "github.com/kondate/mealplanner/pkg/errors"
)

// maxBodyBytes caps request bodies
const maxBodyBytes = 1 << 20

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Message string      `json:"message,omitempty"`
}

// newValidator reports field errors by their JSON names. required on a
// struct field rejects the zero value.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

type responder struct {
	logger   *zap.Logger
	validate *validator.Validate
}

// writeJSON writes a JSON response
func (h *responder) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to encode JSON response", zap.Error(err))
	}
}

// writeError maps err to its status code and the structured error body
func (h *responder) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		appErr = apperrors.Wrap(err, "Internal server error")
	}

	status := appErr.StatusCode()
	fields := []zap.Field{
		zap.String("path", r.URL.Path),
		zap.String("code", string(appErr.Code)),
		zap.Int("status", status),
		zap.Error(err),
	}
	if status >= http.StatusInternalServerError {
		h.logger.Error("Request failed", fields...)
	} else {
		h.logger.Info("Request rejected", fields...)
	}

	h.writeJSON(w, status, apperrors.ToErrorResponse(appErr, middleware.GetReqID(r.Context())))
}

// decode reads a JSON body into dst and validates it
func (h *responder) decode(r *http.Request, dst interface{}) *apperrors.AppError {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperrors.NewBadRequestError("Request body is required")
		}
		return apperrors.NewBadRequestError(fmt.Sprintf("Invalid JSON payload: %v", err))
	}

	return h.validateStruct(dst)
}

func (h *responder) validateStruct(dst interface{}) *apperrors.AppError {
	err := h.validate.Struct(dst)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperrors.NewBadRequestError(err.Error())
	}

	details := make([]apperrors.ValidationError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		details = append(details, apperrors.ValidationError{
			Field:   fieldPath(fe.Namespace()),
			Tag:     fe.Tag(),
			Message: validationMessage(fe),
		})
	}
	return apperrors.NewValidationErrors(details)
}

// fieldPath drops the root struct name from a validator namespace
func fieldPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func validationMessage(fe validator.FieldError) string {
	field := fieldPath(fe.Namespace())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "gte", "lte":
		return fmt.Sprintf("%s is out of range", field)
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}
