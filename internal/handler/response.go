package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"remitra/internal/domain"
	"remitra/internal/middleware"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *PagMeta    `json:"meta,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PagMeta holds pagination metadata.
type PagMeta struct {
	Total    int `json:"total"`
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondCreated sends a 201 success response.
func RespondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{Success: true, Data: data})
}

// RespondPaginated sends a 200 success response with pagination metadata.
func RespondPaginated(c *gin.Context, data interface{}, meta PagMeta) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data, Meta: &meta})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code, msg string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", "resource not found"
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid credentials"
	case errors.Is(err, domain.ErrUserInactive):
		return http.StatusForbidden, "USER_INACTIVE", "user is inactive"
	case errors.Is(err, domain.ErrInvalidResetToken):
		return http.StatusUnauthorized, "INVALID_RESET_TOKEN", "password reset token is invalid or expired"
	case errors.Is(err, domain.ErrUnsupportedFileType):
		return http.StatusBadRequest, "UNSUPPORTED_FILE_TYPE", "unsupported file type; allowed: pdf, jpg, png"
	case errors.Is(err, domain.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "file exceeds maximum allowed size"
	case errors.Is(err, domain.ErrDuplicateEmail):
		return http.StatusConflict, "DUPLICATE_EMAIL", "email already registered"
	case errors.Is(err, domain.ErrDuplicateWaybill):
		return http.StatusConflict, "DUPLICATE_WAYBILL", "a waybill with this code already exists"
	case errors.Is(err, domain.ErrDuplicateTariff):
		return http.StatusConflict, "DUPLICATE_TARIFF", "a tariff for this route already exists"
	case errors.Is(err, domain.ErrDuplicatePlate):
		return http.StatusConflict, "DUPLICATE_PLATE", "a vehicle with this plate already exists"
	case errors.Is(err, domain.ErrInvalidPlate):
		return http.StatusBadRequest, "INVALID_PLATE", "plate must be 6 alphanumeric characters ending in 3 digits"
	case errors.Is(err, domain.ErrNoExtractableText):
		return http.StatusUnprocessableEntity, "NO_EXTRACTABLE_TEXT", "no text could be extracted from the document"
	case errors.Is(err, domain.ErrDocumentRejected):
		return http.StatusUnprocessableEntity, "DOCUMENT_REJECTED", "document does not look like a transport waybill"
	case errors.Is(err, domain.ErrWaybillVoided):
		return http.StatusConflict, "WAYBILL_VOIDED", "waybill is voided; restore it first"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// extractAuthContext extracts user ID and role from the request context.
// Returns false if auth context is missing (error response already written).
func extractAuthContext(c *gin.Context) (userID uuid.UUID, role domain.UserRole, ok bool) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing user context")
		return uuid.Nil, "", false
	}
	role = domain.UserRole(middleware.GetRole(c))
	return userID, role, true
}

// HandleError maps a domain error and sends the appropriate error response.
func HandleError(c *gin.Context, err error) {
	status, code, msg := MapDomainError(err)
	if status >= 500 {
		requestID, _ := c.Get("request_id")
		log.Printf("[%s] internal error: %v", requestID, err)
	}
	RespondError(c, status, code, msg)
}
