package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/emberly-app/emberly-backend/internal/apperr"
)

// respondError writes the mapped status and a caller-safe message. Limit
// errors additionally carry a Retry-After hint.
func respondError(c *gin.Context, err error) {
	var limitErr *apperr.LimitExceededError
	if errors.As(err, &limitErr) {
		c.Header("Retry-After", strconv.Itoa(int(limitErr.RetryAfter.Seconds())))
	}
	c.JSON(apperr.Status(err), gin.H{"error": apperr.Message(err)})
}

func parseIDParam(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " must be a valid id"})
		return 0, false
	}
	return id, true
}
