package entity

import "time"

type TaskStatus string

const (
	StatusEmAndamento          TaskStatus = "Em Andamento"
	StatusEmAtraso             TaskStatus = "Em Atraso"
	StatusConcluido            TaskStatus = "Concluído"
	StatusConcluidoEmAtraso    TaskStatus = "Concluído em Atraso"
	StatusAguardandoSubtarefas TaskStatus = "Aguardando subtarefas"
)

// IsConcluido - "Concluído em Atraso" também conta como concluído para o gating de subtarefas
func (s TaskStatus) IsConcluido() bool {
	return s == StatusConcluido || s == StatusConcluidoEmAtraso
}

type Task struct {
	ID               int        `json:"id"`
	TenantID         int        `json:"tenant_id"`
	Titulo           string     `json:"titulo"`
	Descricao        string     `json:"descricao"`
	Competencia      string     `json:"competencia"` // período "YYYY-MM"
	Recorrencia      string     `json:"recorrencia"`
	Prazo            time.Time  `json:"prazo"`
	Realizado        *time.Time `json:"realizado,omitempty"`
	ResponsavelEmail string     `json:"responsavel_email"`
	ResponsavelNome  string     `json:"responsavel_nome"`
	Area             string     `json:"area"`
	ParentTaskID     *int       `json:"parent_task_id,omitempty"`
	SubtaskCount     int        `json:"subtask_count"`

	// Atribuição de auditoria: guardamos apenas o último autor por campo rastreado
	CreatedBy       int        `json:"created_by"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedBy       *int       `json:"updated_by,omitempty"`
	UpdatedAt       time.Time  `json:"updated_at"`
	PrazoModifiedBy *int       `json:"prazo_modified_by,omitempty"`
	PrazoModifiedAt *time.Time `json:"prazo_modified_at,omitempty"`
	RealizadoPor    *int       `json:"realizado_por,omitempty"`

	// Campos derivados: recalculados a cada leitura, nunca gravados no banco
	Status              TaskStatus          `json:"status"`
	JustificationStatus JustificationStatus `json:"justification_status"`
}

// validação
type CreateTaskRequest struct {
	Titulo           string    `json:"titulo" validate:"required, min=1, max=255"`
	Descricao        string    `json:"descricao"`
	Competencia      string    `json:"competencia" validate:"required"`
	Recorrencia      string    `json:"recorrencia" validate:"required"`
	Prazo            time.Time `json:"prazo" validate:"required"`
	ResponsavelEmail string    `json:"responsavel_email" validate:"required, email"`
	ResponsavelNome  string    `json:"responsavel_nome"`
	Area             string    `json:"area" validate:"required"`
	ParentTaskID     *int      `json:"parent_task_id"`
}

type UpdateTaskRequest struct {
	Titulo           string     `json:"titulo"`
	Descricao        *string    `json:"descricao"` // campo opcional para atualização
	Prazo            *time.Time `json:"prazo"`
	Recorrencia      string     `json:"recorrencia"`
	ResponsavelEmail string     `json:"responsavel_email"`
	ResponsavelNome  string     `json:"responsavel_nome"`
	Realizado        *time.Time `json:"realizado"`
	Justificativa    string     `json:"justificativa"` // obrigatória quando realizado > prazo
}

type CompleteTaskRequest struct {
	Realizado     time.Time `json:"realizado" validate:"required"`
	Justificativa string    `json:"justificativa"`
}

type ListTasksFilter struct {
	Area             string
	Competencia      string
	ResponsavelEmail string
}
