package handlers

import (
	"context"
	"net/http"

	"mockprep/interview/internal/models"
	"mockprep/interview/internal/utils"

	"go.uber.org/zap"
)

type StatsService interface {
	Stats(ctx context.Context) (*models.AdminStatsResponse, error)
}

type AdminHandler struct {
	stats  StatsService
	logger *zap.Logger
}

func NewAdminHandler(stats StatsService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{stats: stats, logger: logger}
}

func (h *AdminHandler) StatsHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := h.stats.Stats(r.Context())
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, stats)
}
