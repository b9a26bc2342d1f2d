package handlers

import (
	"net/http"

	"github.com/alimgiray/phonebook/internal/repositories"
	"github.com/alimgiray/phonebook/pkg/logger"
	"github.com/gin-gonic/gin"
)

// RepositoryProvider hands out the configured contact repository
type RepositoryProvider interface {
	Adapter() string
	Repository() (repositories.ContactRepository, error)
}

type HealthHandler struct {
	provider RepositoryProvider
}

func NewHealthHandler(provider RepositoryProvider) *HealthHandler {
	return &HealthHandler{provider: provider}
}

// HealthCheck reports whether the storage adapter is reachable
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	adapter := h.provider.Adapter()

	repo, err := h.provider.Repository()
	if err == nil {
		_, err = repo.Count(c.Request.Context())
	}
	if err != nil {
		logger.WithError(err).WithField("adapter", adapter).Warnf("Health check failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "unavailable",
			"adapter": adapter,
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"adapter": adapter,
	})
}
