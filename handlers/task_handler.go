package handlers

import (
	"net/http"
	"strconv"

	"github.com/Dosada05/camma-system/services"
)

type TaskHandler struct {
	taskService services.TaskService
}

func NewTaskHandler(ts services.TaskService) *TaskHandler {
	return &TaskHandler{taskService: ts}
}

func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	var input services.CreateTaskInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	task, err := h.taskService.CreateTask(r.Context(), userID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusCreated, jsonResponse{"task": task})
}

// ListTasks: ?assigned_to_me=true оставляет только задачи текущего пользователя.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	page, err := parsePagination(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	assignedToMe := false
	if raw := r.URL.Query().Get("assigned_to_me"); raw != "" {
		assignedToMe, err = strconv.ParseBool(raw)
		if err != nil {
			badRequestResponse(w, r, err)
			return
		}
	}

	tasks, err := h.taskService.ListTasks(r.Context(), userID, assignedToMe, page)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"tasks": tasks})
}

func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	handleGet("task", "taskID", h.taskService.GetTask)(w, r)
}

func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "taskID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	var input services.TaskUpdate
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	task, err := h.taskService.UpdateTask(r.Context(), id, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"task": task})
}

func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "taskID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(r.Context(), id, userID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"message": "Task deleted successfully"})
}
