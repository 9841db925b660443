package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/taskcomply/obrigacoes-service/internal/entity"
)

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// respondError - traduz o tipo de erro do núcleo para o status HTTP. O núcleo
// só garante o tipo e a razão; a mensagem para o usuário final é montada aqui.
func respondError(w http.ResponseWriter, err error) {
	var validationErr *entity.ValidationError
	if errors.As(err, &validationErr) {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: validationErr.Reason, Field: validationErr.Field})
		return
	}

	var ruleErr *entity.RuleViolationError
	if errors.As(err, &ruleErr) {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: ruleErr.Error(), Field: "recorrencia"})
		return
	}

	switch {
	case errors.Is(err, entity.ErrForbidden):
		respondJSON(w, http.StatusForbidden, errorResponse{Error: "access denied"})
	case errors.Is(err, entity.ErrTaskNotFound),
		errors.Is(err, entity.ErrJustificationNotFound),
		errors.Is(err, entity.ErrEvidenceNotFound),
		errors.Is(err, entity.ErrUserNotFound):
		respondJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, entity.ErrJustificationConflict),
		errors.Is(err, entity.ErrInvalidTransition),
		errors.Is(err, entity.ErrSubtaskBlocked):
		respondJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.Is(err, entity.ErrNoFieldsToUpdate):
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, entity.ErrInvalidCredentials):
		respondJSON(w, http.StatusUnauthorized, errorResponse{Error: err.Error()})
	default:
		respondJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}
