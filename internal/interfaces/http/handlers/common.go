// Package handlers contains the gin HTTP handlers over the analysis engine.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/MarketEdge-Intelligence/pkg/errors"
)

// ErrorResponse is the standard error envelope.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// respondError maps an application error to its HTTP status via the error
// code and writes the standard envelope. Server-side errors are masked so
// internals never leak to clients.
func respondError(c *gin.Context, err error) {
	code := errors.GetCode(err)
	status := errors.HTTPStatusForCode(code)

	message := err.Error()
	if status >= http.StatusInternalServerError {
		message = "internal server error"
	}

	c.AbortWithStatusJSON(status, gin.H{"error": ErrorResponse{
		Code:    code.String(),
		Message: message,
	}})
}

// bindJSON decodes the request body, translating bind failures into the
// standard envelope.
func bindJSON(c *gin.Context, dest any) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		respondError(c, errors.Newf(errors.ErrCodeBadRequest, "invalid request body: %v", err))
		return false
	}
	return true
}
