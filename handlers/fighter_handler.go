package handlers

import (
	"net/http"

	"github.com/Dosada05/camma-system/services"
)

type FighterHandler struct {
	fighterService services.FighterService
	maxUploadSize  int64
}

func NewFighterHandler(fs services.FighterService, maxUploadSize int64) *FighterHandler {
	return &FighterHandler{fighterService: fs, maxUploadSize: maxUploadSize}
}

// CreateFighter заводит профиль бойца текущему пользователю.
func (h *FighterHandler) CreateFighter(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	var input services.CreateFighterInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	fighter, err := h.fighterService.CreateFighter(r.Context(), userID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusCreated, jsonResponse{"fighter": fighter})
}

func (h *FighterHandler) ListFighters(w http.ResponseWriter, r *http.Request) {
	page, err := parsePagination(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	fighters, err := h.fighterService.ListFighters(r.Context(), page)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"fighters": fighters})
}

func (h *FighterHandler) GetFighter(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "fighterID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	fighter, err := h.fighterService.GetFighter(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"fighter": fighter})
}

func (h *FighterHandler) UpdateFighter(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "fighterID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	var input services.FighterUpdate
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	fighter, err := h.fighterService.UpdateFighter(r.Context(), id, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"fighter": fighter})
}

func (h *FighterHandler) SetVerification(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "fighterID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	var input services.VerificationInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	fighter, err := h.fighterService.SetVerification(r.Context(), id, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"fighter": fighter})
}

func (h *FighterHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "fighterID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	file, header, err := readUpload(w, r, "photo", h.maxUploadSize)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	defer file.Close()

	url, err := h.fighterService.UploadPhoto(r.Context(), id, header.Filename, header.Size, file)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{
		"message":   "Photo uploaded successfully",
		"photo_url": url,
	})
}

func (h *FighterHandler) RegisterByThirdParty(w http.ResponseWriter, r *http.Request) {
	var input services.ThirdPartyRegistrationInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result, err := h.fighterService.RegisterByThirdParty(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	status := http.StatusCreated
	if !result.Success {
		status = http.StatusOK
	}
	respond(w, r, status, result)
}

func (h *FighterHandler) AddAchievement(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "fighterID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	var input services.AchievementInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	achievement, err := h.fighterService.AddAchievement(r.Context(), id, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusCreated, jsonResponse{"achievement": achievement})
}

func (h *FighterHandler) ListAchievements(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "fighterID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	items, err := h.fighterService.ListAchievements(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"achievements": items})
}
