package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/taskcomply/obrigacoes-service/internal/entity"
	"github.com/taskcomply/obrigacoes-service/internal/usecase"
)

type RuleHandler struct {
	ruleService *usecase.RuleService
}

func NewRuleHandler(ruleService *usecase.RuleService) *RuleHandler {
	return &RuleHandler{
		ruleService: ruleService,
	}
}

type saveRuleBody struct {
	TenantID            int      `json:"tenant_id"`
	AllowedRecorrencias []string `json:"allowed_recorrencias"`
}

// SaveRule - substitui o conjunto de recorrências permitidas da área
func (h *RuleHandler) SaveRule(w http.ResponseWriter, r *http.Request) {
	area := chi.URLParam(r, "area")

	var body saveRuleBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	session := SessionFromContext(r.Context())

	// Sem tenant explícito no corpo, usamos o da sessão; mismatch é rejeitado
	// pelo guard de qualquer forma
	tenantID := body.TenantID
	if tenantID == 0 {
		tenantID = session.TenantID
	}

	rule, err := h.ruleService.Save(r.Context(), session, &entity.SaveRuleRequest{
		TenantID:            tenantID,
		Area:                area,
		AllowedRecorrencias: body.AllowedRecorrencias,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, rule)
}

func (h *RuleHandler) GetRule(w http.ResponseWriter, r *http.Request) {
	area := chi.URLParam(r, "area")

	session := SessionFromContext(r.Context())

	rule, err := h.ruleService.Get(r.Context(), session, area)
	if err != nil {
		respondError(w, err)
		return
	}

	if rule == nil {
		// Sem regra cadastrada: conjunto vazio, nada permitido
		rule = &entity.Rule{
			TenantID:            session.TenantID,
			Area:                area,
			AllowedRecorrencias: []string{},
		}
	}

	respondJSON(w, http.StatusOK, rule)
}
