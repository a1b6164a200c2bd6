package handlers

import (
	"net/http"

	"github.com/Dosada05/camma-system/services"
)

type DashboardHandler struct {
	dashboardService services.DashboardService
}

func NewDashboardHandler(ds services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: ds}
}

func (h *DashboardHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.dashboardService.GetStats(r.Context())
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, stats)
}

func (h *DashboardHandler) GetMatchmakingStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.dashboardService.GetMatchmakingStats(r.Context())
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, stats)
}
