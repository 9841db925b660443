package usecase

import "time"

// AuditRecorder - atribuição de última escrita nos campos rastreados. Cada
// mudança sobrescreve o autor anterior; o modelo não guarda um changelog
// completo, só o modificador mais recente por campo. created_by/created_at
// são gravados uma única vez na criação e nunca tocados aqui.
type AuditRecorder struct {
	now func() time.Time
}

func NewAuditRecorder() *AuditRecorder {
	return &AuditRecorder{now: time.Now}
}

// StampPrazo - registra o autor da última alteração de prazo
func (a *AuditRecorder) StampPrazo(updates map[string]interface{}, actorID int) {
	updates["prazo_modified_by"] = actorID
	updates["prazo_modified_at"] = a.now()
}

// StampRealizado - registra quem marcou a conclusão
func (a *AuditRecorder) StampRealizado(updates map[string]interface{}, actorID int) {
	updates["realizado_por"] = actorID
}

// StampUpdate - autor genérico da mutação aceita
func (a *AuditRecorder) StampUpdate(updates map[string]interface{}, actorID int) {
	updates["updated_by"] = actorID
}
