package handlers

import (
	"context"
	"net/http"

	"github.com/Dosada05/camma-system/repositories"
	"github.com/Dosada05/camma-system/services"
)

// OrganizationHandler обслуживает справочники: клубы, промоушены, тренеры, менеджеры.
type OrganizationHandler struct {
	orgService services.OrganizationService
}

func NewOrganizationHandler(os services.OrganizationService) *OrganizationHandler {
	return &OrganizationHandler{orgService: os}
}

func handleCreate[In any, Out any](key string, create func(context.Context, In) (*Out, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input In
		if err := readJSON(w, r, &input); err != nil {
			badRequestResponse(w, r, err)
			return
		}
		item, err := create(r.Context(), input)
		if err != nil {
			mapServiceErrorToHTTP(w, r, err)
			return
		}
		respond(w, r, http.StatusCreated, jsonResponse{key: item})
	}
}

func handleGet[Out any](key, param string, get func(context.Context, int) (*Out, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := getIDFromURL(r, param)
		if err != nil {
			badRequestResponse(w, r, err)
			return
		}
		item, err := get(r.Context(), id)
		if err != nil {
			mapServiceErrorToHTTP(w, r, err)
			return
		}
		respond(w, r, http.StatusOK, jsonResponse{key: item})
	}
}

func handleList[Out any](key string, list func(context.Context, repositories.Pagination) ([]Out, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := parsePagination(r)
		if err != nil {
			badRequestResponse(w, r, err)
			return
		}
		items, err := list(r.Context(), page)
		if err != nil {
			mapServiceErrorToHTTP(w, r, err)
			return
		}
		respond(w, r, http.StatusOK, jsonResponse{key: items})
	}
}

func (h *OrganizationHandler) CreateClub() http.HandlerFunc {
	return handleCreate("club", h.orgService.CreateClub)
}

func (h *OrganizationHandler) GetClub() http.HandlerFunc {
	return handleGet("club", "clubID", h.orgService.GetClub)
}

func (h *OrganizationHandler) ListClubs() http.HandlerFunc {
	return handleList("clubs", h.orgService.ListClubs)
}

func (h *OrganizationHandler) CreatePromotion() http.HandlerFunc {
	return handleCreate("promotion", h.orgService.CreatePromotion)
}

func (h *OrganizationHandler) GetPromotion() http.HandlerFunc {
	return handleGet("promotion", "promotionID", h.orgService.GetPromotion)
}

func (h *OrganizationHandler) ListPromotions() http.HandlerFunc {
	return handleList("promotions", h.orgService.ListPromotions)
}

func (h *OrganizationHandler) CreateTrainer() http.HandlerFunc {
	return handleCreate("trainer", h.orgService.CreateTrainer)
}

func (h *OrganizationHandler) GetTrainer() http.HandlerFunc {
	return handleGet("trainer", "trainerID", h.orgService.GetTrainer)
}

func (h *OrganizationHandler) ListTrainers() http.HandlerFunc {
	return handleList("trainers", h.orgService.ListTrainers)
}

func (h *OrganizationHandler) CreateManager() http.HandlerFunc {
	return handleCreate("manager", h.orgService.CreateManager)
}

func (h *OrganizationHandler) GetManager() http.HandlerFunc {
	return handleGet("manager", "managerID", h.orgService.GetManager)
}

func (h *OrganizationHandler) ListManagers() http.HandlerFunc {
	return handleList("managers", h.orgService.ListManagers)
}
