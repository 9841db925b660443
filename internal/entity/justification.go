package entity

import "time"

type JustificationStatus string

const (
	JustificationNone     JustificationStatus = "none"
	JustificationPending  JustificationStatus = "pending"
	JustificationApproved JustificationStatus = "approved"
	JustificationRefused  JustificationStatus = "refused"
	JustificationBlocked  JustificationStatus = "blocked"
)

// IsActive - pending ou approved bloqueiam um novo envio para a mesma tarefa
func (s JustificationStatus) IsActive() bool {
	return s == JustificationPending || s == JustificationApproved
}

type Justification struct {
	ID            int                 `json:"id"`
	TenantID      int                 `json:"tenant_id"`
	TaskID        int                 `json:"task_id"`
	Descricao     string              `json:"descricao"`
	Status        JustificationStatus `json:"status"`
	CreatedBy     int                 `json:"created_by"`
	CreatedAt     time.Time           `json:"created_at"`
	ReviewedBy    *int                `json:"reviewed_by,omitempty"`
	ReviewedAt    *time.Time          `json:"reviewed_at,omitempty"`
	ReviewComment *string             `json:"review_comment,omitempty"`
}

// validação
type SubmitJustificationRequest struct {
	Descricao    string   `json:"descricao" validate:"required, min=1"`
	EvidenceRefs []string `json:"evidence_refs"`
}

type ReviewDecision string

const (
	DecisionApprove ReviewDecision = "approve"
	DecisionRefuse  ReviewDecision = "refuse"
	DecisionBlock   ReviewDecision = "block"
)

type ReviewJustificationRequest struct {
	Decision ReviewDecision `json:"decision" validate:"oneof=approve refuse block"`
	Comment  string         `json:"comment"`
}
