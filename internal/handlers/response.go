package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/tourplatform/tour-booking-backend/internal/middleware"
	"github.com/tourplatform/tour-booking-backend/internal/services"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// MessageResponse represents a plain acknowledgement
type MessageResponse struct {
	Message string `json:"message"`
}

// errorKinds maps service error kinds onto HTTP responses
var errorKinds = []struct {
	kind   error
	status int
	error  string
	code   string
}{
	{services.ErrValidation, http.StatusBadRequest, "validation_error", "VALIDATION_FAILED"},
	{services.ErrUnauthorized, http.StatusUnauthorized, "unauthorized", "UNAUTHORIZED"},
	{services.ErrForbidden, http.StatusForbidden, "forbidden", "FORBIDDEN"},
	{services.ErrNotFound, http.StatusNotFound, "not_found", "NOT_FOUND"},
	{services.ErrConflict, http.StatusConflict, "conflict", "CONFLICT"},
}

// respondError writes err as JSON. Errors outside the service taxonomy are
// logged and answered with a generic 500 so storage details never leak.
func respondError(c *gin.Context, logger *logrus.Logger, err error) {
	var svcErr *services.Error
	if errors.As(err, &svcErr) {
		for _, k := range errorKinds {
			if errors.Is(err, k.kind) {
				c.JSON(k.status, ErrorResponse{Error: k.error, Message: svcErr.Message, Code: k.code})
				return
			}
		}
	}

	fields := logrus.Fields{
		"method": c.Request.Method,
		"path":   c.Request.URL.Path,
	}
	if userCtx, ok := middleware.GetUserContext(c); ok {
		fields["user_id"] = userCtx.UserID
	}
	logger.WithFields(fields).WithError(err).Error("Request failed with internal error")
	_ = c.Error(err)

	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: "Something went wrong. Please try again later.",
		Code:    "INTERNAL_ERROR",
	})
}

// respondBindError answers a request whose body failed binding validation
func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   "validation_error",
		Message: "Invalid request body: " + err.Error(),
		Code:    "INVALID_REQUEST",
	})
}

// uuidParam parses the named path parameter, writing a 400 when malformed
func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid " + name,
			Code:    "INVALID_ID",
		})
		return uuid.Nil, false
	}
	return id, true
}
