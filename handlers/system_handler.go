package handlers

import (
	"net/http"
	"time"
)

type SystemHandler struct {
	appName    string
	appVersion string
	now        func() time.Time
}

func NewSystemHandler(appName, appVersion string) *SystemHandler {
	return &SystemHandler{appName: appName, appVersion: appVersion, now: time.Now}
}

func (h *SystemHandler) Root(w http.ResponseWriter, r *http.Request) {
	respond(w, r, http.StatusOK, jsonResponse{
		"message": h.appName,
		"version": h.appVersion,
		"status":  "active",
	})
}

func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	respond(w, r, http.StatusOK, jsonResponse{
		"status":    "healthy",
		"timestamp": h.now().UTC().Format(time.RFC3339),
	})
}
