package handler

import (
	"net/http"

	syncengine "list-app-go/internal/sync"
	"list-app-go/pkg/logger"
)

type Handlers struct {
	Engine *syncengine.Engine
	log    logger.Logger
}

func New(engine *syncengine.Engine, log logger.Logger) *Handlers {
	return &Handlers{
		Engine: engine,
		log:    log,
	}
}

func (h *Handlers) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
