package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mamadbah2/ovinet/internal/domain/fault"
)

// respondError maps the service error taxonomy onto HTTP statuses. Unknown
// errors become 500 without leaking internals.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, fault.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, fault.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, fault.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, fault.ErrInvalidState):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, fault.ErrPrecondition):
		status = http.StatusPreconditionFailed
	case errors.Is(err, fault.ErrPartialFailure), errors.Is(err, fault.ErrStorage):
		status = http.StatusBadGateway
	}

	if status == http.StatusInternalServerError {
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
