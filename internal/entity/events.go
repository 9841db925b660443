package entity

import "time"

type EventType string

const (
	EventTarefaCriada          EventType = "tarefa_criada"
	EventPrazoAlterado         EventType = "prazo_alterado"
	EventTarefaConcluida       EventType = "tarefa_concluida"
	EventJustificativaEnviada  EventType = "justificativa_enviada"
	EventJustificativaAvaliada EventType = "justificativa_avaliada"
)

// WorkflowEvent - mensagem publicada no RabbitMQ para o colaborador de
// notificação. Não é necessário para a correção do fluxo; entrega best-effort.
type WorkflowEvent struct {
	Type            EventType      `json:"type"`
	TenantID        int            `json:"tenant_id"`
	TaskID          int            `json:"task_id"`
	JustificationID *int           `json:"justification_id,omitempty"`
	ActorID         int            `json:"actor_id"`
	Details         map[string]any `json:"details,omitempty"`
	Timestamp       time.Time      `json:"timestamp"`
}

// Notification - linha persistida pelo worker; o serviço de email (fora deste
// núcleo) lê daqui.
type Notification struct {
	ID              int        `json:"id"`
	TenantID        int        `json:"tenant_id"`
	EventType       EventType  `json:"event_type"`
	TaskID          int        `json:"task_id"`
	JustificationID *int       `json:"justification_id,omitempty"`
	ActorID         int        `json:"actor_id"`
	Payload         *string    `json:"payload,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	SentAt          *time.Time `json:"sent_at,omitempty"`
}
