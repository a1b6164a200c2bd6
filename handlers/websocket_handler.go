package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/Dosada05/camma-system/feed"
	"github.com/Dosada05/camma-system/services"
)

type WebSocketHandler struct {
	hub          *feed.Hub
	eventService services.EventService
	upgrader     websocket.Upgrader
	logger       *slog.Logger
}

// NewWebSocketHandler: allowedOrigins пустой или "*" разрешает любой Origin.
func NewWebSocketHandler(hub *feed.Hub, es services.EventService, allowedOrigins []string, logger *slog.Logger) *WebSocketHandler {
	origins := make(map[string]struct{}, len(allowedOrigins))
	allowAll := len(allowedOrigins) == 0
	for _, o := range allowedOrigins {
		if o == "*" {
			allowAll = true
		}
		origins[o] = struct{}{}
	}

	return &WebSocketHandler{
		hub:          hub,
		eventService: es,
		logger:       logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if allowAll || origin == "" {
					return true
				}
				_, ok := origins[origin]
				return ok
			},
		},
	}
}

// ServeWs подписывает клиента на боевую карту события: /ws/events/{eventID}.
func (h *WebSocketHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if _, err := h.eventService.GetEvent(r.Context(), eventID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade сам отвечает клиенту ошибкой
		h.logger.WarnContext(r.Context(), "websocket upgrade failed", slog.Int("event_id", eventID), slog.Any("error", err))
		return
	}

	h.hub.Register(feed.NewClient(h.hub, conn, feed.RoomForEvent(eventID)))
	h.logger.DebugContext(r.Context(), "websocket client subscribed", slog.Int("event_id", eventID))
}
