package handler

import (
	"clipforge/internal/deps"
	"clipforge/internal/service"
	"clipforge/log"

	"go.uber.org/zap"
)

// configUpdated is set by UpdateConfig and consumed on the next request so
// changed settings take effect without a restart.
var configUpdated = false

type Handler struct {
	Service *service.Service
	// Rebuild returns a fresh service wired like Service. The server installs
	// a closure here that re-attaches the queue dispatchers.
	Rebuild func() *service.Service
}

func NewHandler() *Handler {
	return &Handler{
		Service: service.NewService(),
		Rebuild: service.NewService,
	}
}

func (h *Handler) refreshService() {
	if !configUpdated {
		return
	}
	log.GetLogger().Info("config updated, reinitializing service")
	if err := deps.CheckDependency(); err != nil {
		log.GetLogger().Warn("dependency check after config update", zap.Error(err))
	}
	h.Service = h.Rebuild()
	configUpdated = false
}
