package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/taskcomply/obrigacoes-service/internal/entity"
	"github.com/taskcomply/obrigacoes-service/internal/usecase"
)

type TaskHandler struct {
	taskService *usecase.TaskService
}

func NewTaskHandler(taskService *usecase.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// CreateTask - cria uma nova tarefa na área da sessão
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req entity.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	session := SessionFromContext(r.Context())

	task, err := h.taskService.CreateTask(r.Context(), session, &req)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, task)
}

func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	taskID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid task Id", http.StatusBadRequest)
		return
	}

	session := SessionFromContext(r.Context())

	task, err := h.taskService.GetTask(r.Context(), session, taskID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	taskID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid task Id", http.StatusBadRequest)
		return
	}

	var req entity.UpdateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	session := SessionFromContext(r.Context())

	task, err := h.taskService.UpdateTask(r.Context(), session, taskID, &req)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, task)
}

// CompleteTask - marca a conclusão; atraso exige justificativa no corpo
func (h *TaskHandler) CompleteTask(w http.ResponseWriter, r *http.Request) {
	taskID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid task Id", http.StatusBadRequest)
		return
	}

	var req entity.CompleteTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	session := SessionFromContext(r.Context())

	task, err := h.taskService.CompleteTask(r.Context(), session, taskID, &req)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	session := SessionFromContext(r.Context())

	filter := entity.ListTasksFilter{
		Area:             r.URL.Query().Get("area"),
		Competencia:      r.URL.Query().Get("competencia"),
		ResponsavelEmail: r.URL.Query().Get("responsavel"),
	}

	tasks, err := h.taskService.ListTasks(r.Context(), session, filter)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, tasks)
}

func (h *TaskHandler) ListSubtasks(w http.ResponseWriter, r *http.Request) {
	taskID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid task Id", http.StatusBadRequest)
		return
	}

	session := SessionFromContext(r.Context())

	subtasks, err := h.taskService.ListSubtasks(r.Context(), session, taskID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, subtasks)
}
