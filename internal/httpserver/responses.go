package httpserver

import (
	"errors"
	"net/http"

	"crm-backoffice/internal/domain"
	"github.com/gin-gonic/gin"
)

// respondError translates domain errors into client responses. Validation
// and invariant failures carry their messages; infra errors are logged with
// context and answered with a generic body.
func (h *api) respondError(c *gin.Context, err error, notFoundMsg string) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, gin.H{"errors": verr.Messages})
		return
	}
	var ierr *domain.InvariantError
	if errors.As(err, &ierr) {
		c.JSON(http.StatusBadRequest, gin.H{"msg": ierr.Rule})
		return
	}
	if errors.Is(err, domain.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"msg": notFoundMsg})
		return
	}
	if errors.Is(err, domain.ErrConflict) {
		c.JSON(http.StatusConflict, gin.H{"msg": "Concurrent modification, please retry"})
		return
	}
	h.logger.WithError(err).WithFields(map[string]interface{}{
		"method": c.Request.Method,
		"path":   c.Request.URL.Path,
	}).Error("request failed")
	c.JSON(http.StatusInternalServerError, gin.H{"msg": "Server error"})
}
