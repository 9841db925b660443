package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/taskcomply/obrigacoes-service/internal/entity"
	"github.com/taskcomply/obrigacoes-service/internal/usecase"
)

type JustificationHandler struct {
	justificationService *usecase.JustificationService
}

func NewJustificationHandler(justificationService *usecase.JustificationService) *JustificationHandler {
	return &JustificationHandler{
		justificationService: justificationService,
	}
}

// Submit - responsável envia a justificativa de uma conclusão em atraso
func (h *JustificationHandler) Submit(w http.ResponseWriter, r *http.Request) {
	taskID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid task Id", http.StatusBadRequest)
		return
	}

	var req entity.SubmitJustificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	session := SessionFromContext(r.Context())

	justification, err := h.justificationService.Submit(r.Context(), session, taskID, &req)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, justification)
}

// Review - líder/admin aprova, recusa ou bloqueia uma justificativa pendente
func (h *JustificationHandler) Review(w http.ResponseWriter, r *http.Request) {
	justificationID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid justification Id", http.StatusBadRequest)
		return
	}

	var req entity.ReviewJustificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	session := SessionFromContext(r.Context())

	justification, err := h.justificationService.Review(r.Context(), session, justificationID, &req)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, justification)
}

// ListByTask - histórico de justificativas da tarefa
func (h *JustificationHandler) ListByTask(w http.ResponseWriter, r *http.Request) {
	taskID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid task Id", http.StatusBadRequest)
		return
	}

	session := SessionFromContext(r.Context())

	justifications, err := h.justificationService.ListByTask(r.Context(), session, taskID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, justifications)
}
