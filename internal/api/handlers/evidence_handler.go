package handlers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/taskcomply/obrigacoes-service/internal/entity"
	"github.com/taskcomply/obrigacoes-service/internal/usecase"
)

const maxEvidenceSize = 10 << 20 // 10 MB

type EvidenceHandler struct {
	evidenceService *usecase.EvidenceService
}

func NewEvidenceHandler(evidenceService *usecase.EvidenceService) *EvidenceHandler {
	return &EvidenceHandler{
		evidenceService: evidenceService,
	}
}

// UploadToTask - multipart com campo "file"; os bytes vão para o blob store
func (h *EvidenceHandler) UploadToTask(w http.ResponseWriter, r *http.Request) {
	taskID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid task Id", http.StatusBadRequest)
		return
	}

	h.upload(w, r, &taskID, nil)
}

// UploadToJustification - anexo só enquanto a justificativa está pendente
func (h *EvidenceHandler) UploadToJustification(w http.ResponseWriter, r *http.Request) {
	justificationID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid justification Id", http.StatusBadRequest)
		return
	}

	h.upload(w, r, nil, &justificationID)
}

func (h *EvidenceHandler) upload(w http.ResponseWriter, r *http.Request, taskID, justificationID *int) {
	if err := r.ParseMultipartForm(maxEvidenceSize); err != nil {
		http.Error(w, "Invalid multipart form", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxEvidenceSize))
	if err != nil {
		http.Error(w, "failed to read file", http.StatusBadRequest)
		return
	}

	session := SessionFromContext(r.Context())

	evidence, err := h.evidenceService.Upload(r.Context(), session, &entity.UploadEvidenceRequest{
		TaskID:          taskID,
		JustificationID: justificationID,
		FileName:        header.Filename,
		MimeType:        header.Header.Get("Content-Type"),
		Data:            data,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, evidence)
}

func (h *EvidenceHandler) ListByTask(w http.ResponseWriter, r *http.Request) {
	taskID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid task Id", http.StatusBadRequest)
		return
	}

	session := SessionFromContext(r.Context())

	evidences, err := h.evidenceService.ListByTask(r.Context(), session, taskID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, evidences)
}
