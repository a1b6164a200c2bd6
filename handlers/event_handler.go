package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Dosada05/camma-system/services"
)

type EventHandler struct {
	eventService  services.EventService
	maxUploadSize int64
}

func NewEventHandler(es services.EventService, maxUploadSize int64) *EventHandler {
	return &EventHandler{eventService: es, maxUploadSize: maxUploadSize}
}

func (h *EventHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	handleCreate("event", h.eventService.CreateEvent)(w, r)
}

func (h *EventHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	handleList("events", h.eventService.ListEvents)(w, r)
}

func (h *EventHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	handleGet("event", "eventID", h.eventService.GetEvent)(w, r)
}

func (h *EventHandler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	var input services.EventUpdate
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	event, err := h.eventService.UpdateEvent(r.Context(), id, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"event": event})
}

// --- Заявки ---

func (h *EventHandler) CreateApplication(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	var input services.CreateApplicationInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	app, err := h.eventService.CreateApplication(r.Context(), eventID, userID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusCreated, jsonResponse{"application": app})
}

func (h *EventHandler) ListApplications(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	apps, err := h.eventService.ListApplications(r.Context(), eventID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"applications": apps})
}

func (h *EventHandler) UpdateApplication(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	appID, err := getIDFromURL(r, "applicationID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	var input services.ApplicationUpdate
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	app, err := h.eventService.UpdateApplication(r.Context(), eventID, appID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"application": app})
}

// --- Бои ---

func (h *EventHandler) CreateFight(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	var input services.CreateFightInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	fight, err := h.eventService.CreateFight(r.Context(), eventID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusCreated, jsonResponse{"fight": fight})
}

func (h *EventHandler) CreateFightPair(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	var input services.CreateFightPairInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	fightID, err := h.eventService.CreateFightPair(r.Context(), eventID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusCreated, jsonResponse{
		"message":  "Fight pair created successfully",
		"fight_id": fightID,
	})
}

func (h *EventHandler) ListFights(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	fights, err := h.eventService.ListFights(r.Context(), eventID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"fights": fights})
}

func (h *EventHandler) RecordFightResult(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	fightID, err := getIDFromURL(r, "fightID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	var input services.FightResultInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	fight, err := h.eventService.RecordFightResult(r.Context(), eventID, fightID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"fight": fight})
}

// --- Медиа ---

// UploadMedia ждёт multipart-форму: file, title, file_type, tags (через запятую), description.
func (h *EventHandler) UploadMedia(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	file, header, err := readUpload(w, r, "file", h.maxUploadSize)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	defer file.Close()

	title := strings.TrimSpace(r.FormValue("title"))
	if title == "" {
		badRequestResponse(w, r, errors.New("title is required"))
		return
	}
	input := services.MediaInput{
		Title: title,
		Tags:  splitTags(r.FormValue("tags")),
	}
	if v := r.FormValue("file_type"); v != "" {
		input.FileType = &v
	}
	if v := r.FormValue("description"); v != "" {
		input.Description = &v
	}

	media, err := h.eventService.UploadMedia(r.Context(), eventID, userID, input, header.Filename, header.Size, file)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusCreated, jsonResponse{"media": media})
}

func (h *EventHandler) ListMedia(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	items, err := h.eventService.ListMedia(r.Context(), eventID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"media": items})
}

func splitTags(raw string) []string {
	tags := []string{}
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
