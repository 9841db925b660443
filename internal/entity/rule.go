package entity

import "time"

// Rule - recorrências permitidas por (tenant, área). Ausência de regra = nada permitido.
type Rule struct {
	ID                  int       `json:"id"`
	TenantID            int       `json:"tenant_id"`
	Area                string    `json:"area"`
	AllowedRecorrencias []string  `json:"allowed_recorrencias"`
	UpdatedBy           int       `json:"updated_by"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// Allows - verifica se a recorrência pertence ao conjunto permitido
func (r *Rule) Allows(recorrencia string) bool {
	if r == nil {
		return false
	}
	for _, allowed := range r.AllowedRecorrencias {
		if allowed == recorrencia {
			return true
		}
	}
	return false
}

// validação
type SaveRuleRequest struct {
	TenantID            int      `json:"tenant_id" validate:"required, min=1"`
	Area                string   `json:"area" validate:"required"`
	AllowedRecorrencias []string `json:"allowed_recorrencias"`
}
