package usecase

import (
	"context"
	"log"
	"time"

	"github.com/taskcomply/obrigacoes-service/internal/entity"
	"github.com/taskcomply/obrigacoes-service/internal/infrastructure/auth"
	"github.com/taskcomply/obrigacoes-service/internal/repository"
)

// JustificationService - máquina de estados da aprovação de conclusão em
// atraso: none -> pending -> {approved | refused}; refused -> pending
// (reenvio) ou refused -> blocked (terminal, ação administrativa explícita).
type JustificationService struct {
	justificationRepo repository.IJustificationRepository
	taskRepo          repository.ITaskRepository
	evidenceRepo      repository.IEvidenceRepository
	guard             *auth.TenantScopeGuard
	publisher         EventPublisher
	now               func() time.Time
}

func NewJustificationService(
	justificationRepo repository.IJustificationRepository,
	taskRepo repository.ITaskRepository,
	evidenceRepo repository.IEvidenceRepository,
	guard *auth.TenantScopeGuard,
	publisher EventPublisher,
) *JustificationService {
	return &JustificationService{
		justificationRepo: justificationRepo,
		taskRepo:          taskRepo,
		evidenceRepo:      evidenceRepo,
		guard:             guard,
		publisher:         publisher,
		now:               time.Now,
	}
}

// Submit - responsável envia justificativa de conclusão em atraso. Uma
// justificativa ativa (pending/approved) já existente sinaliza conflito,
// nunca sobrescrita silenciosa; refused pode ser substituída por um novo envio.
func (s *JustificationService) Submit(ctx context.Context, session *entity.Session,
	taskID int, req *entity.SubmitJustificationRequest) (*entity.Justification, error) {

	// 1. Escopo e capacidade de escrita
	if err := s.guard.Authorize(session, session.TenantID, auth.CapWrite); err != nil {
		return nil, err
	}

	// 2. Tarefa escopada pelo tenant
	task, err := s.taskRepo.GetByID(ctx, session.TenantID, taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, entity.ErrTaskNotFound
	}

	// 3. Só o responsável pela tarefa envia (admin passa)
	if session.Role != entity.RoleAdministrador && session.Email != task.ResponsavelEmail {
		return nil, entity.ErrForbidden
	}

	// 4. Pré-condição: tarefa concluída após o prazo
	if task.Realizado == nil || !entity.IsLate(*task.Realizado, task.Prazo) {
		return nil, entity.NewValidationError("realizado", "tarefa não foi concluída após o prazo")
	}

	// 5. Descrição obrigatória
	if req.Descricao == "" {
		return nil, entity.NewValidationError("descricao", "descrição da justificativa é obrigatória")
	}

	// 6. Disposição bloqueada é terminal: sem reenvio
	latest, err := s.justificationRepo.GetLatestByTask(ctx, session.TenantID, taskID)
	if err != nil {
		return nil, err
	}
	if latest != nil && latest.Status == entity.JustificationBlocked {
		return nil, entity.ErrJustificationConflict
	}

	// 7. O índice único parcial garante o conflito contra pending/approved
	justification, err := s.justificationRepo.Create(ctx, &entity.Justification{
		TenantID:  session.TenantID,
		TaskID:    taskID,
		Descricao: req.Descricao,
		CreatedBy: session.ActorID,
	})
	if err != nil {
		return nil, err
	}

	// 8. Evidências já enviadas para a tarefa são re-apontadas para a justificativa
	if len(req.EvidenceRefs) > 0 {
		if err := s.evidenceRepo.AttachToJustification(ctx, session.TenantID, taskID, justification.ID, req.EvidenceRefs); err != nil {
			return nil, err
		}
	}

	s.publishEvent(&entity.WorkflowEvent{
		Type:            entity.EventJustificativaEnviada,
		TenantID:        session.TenantID,
		TaskID:          taskID,
		JustificationID: &justification.ID,
		ActorID:         session.ActorID,
		Timestamp:       s.now(),
	})

	return justification, nil
}

// Review - decisão do revisor. A transição usa compare-and-set no repositório:
// quem perde a corrida entre dois revisores recebe ErrInvalidTransition em vez
// de corromper o estado.
func (s *JustificationService) Review(ctx context.Context, session *entity.Session,
	justificationID int, req *entity.ReviewJustificationRequest) (*entity.Justification, error) {

	// 1. Escopo e capacidade de revisão (líder/admin)
	if err := s.guard.Authorize(session, session.TenantID, auth.CapReview); err != nil {
		return nil, err
	}

	justification, err := s.justificationRepo.GetByID(ctx, session.TenantID, justificationID)
	if err != nil {
		return nil, err
	}
	if justification == nil {
		return nil, entity.ErrJustificationNotFound
	}

	// 2. Líder só revisa tarefas da própria área
	task, err := s.taskRepo.GetByID(ctx, session.TenantID, justification.TaskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, entity.ErrTaskNotFound
	}
	if session.Role == entity.RoleLider && task.Area != session.Area {
		return nil, entity.ErrForbidden
	}

	// 3. Decisão -> status destino e status de origem permitidos
	var newStatus entity.JustificationStatus
	var fromStatuses []entity.JustificationStatus

	switch req.Decision {
	case entity.DecisionApprove:
		newStatus = entity.JustificationApproved
		fromStatuses = []entity.JustificationStatus{entity.JustificationPending}
	case entity.DecisionRefuse:
		if req.Comment == "" {
			return nil, entity.NewValidationError("comment", "recusa exige comentário do revisor")
		}
		newStatus = entity.JustificationRefused
		fromStatuses = []entity.JustificationStatus{entity.JustificationPending}
	case entity.DecisionBlock:
		// Escalada administrativa: trava o reenvio em definitivo
		newStatus = entity.JustificationBlocked
		fromStatuses = []entity.JustificationStatus{entity.JustificationPending, entity.JustificationRefused}
	default:
		return nil, entity.NewValidationError("decision", "decisão desconhecida")
	}

	var comment *string
	if req.Comment != "" {
		comment = &req.Comment
	}

	// 4. Compare-and-set: origem fora do conjunto permitido = transição inválida
	reviewed, err := s.justificationRepo.Review(ctx, session.TenantID, justificationID,
		newStatus, session.ActorID, comment, fromStatuses)
	if err != nil {
		return nil, err
	}
	if reviewed == nil {
		return nil, entity.ErrInvalidTransition
	}

	s.publishEvent(&entity.WorkflowEvent{
		Type:            entity.EventJustificativaAvaliada,
		TenantID:        session.TenantID,
		TaskID:          reviewed.TaskID,
		JustificationID: &reviewed.ID,
		ActorID:         session.ActorID,
		Details:         map[string]any{"decision": string(req.Decision)},
		Timestamp:       s.now(),
	})

	return reviewed, nil
}

// ListByTask - histórico completo de justificativas da tarefa, recusadas incluídas
func (s *JustificationService) ListByTask(ctx context.Context, session *entity.Session, taskID int) ([]entity.Justification, error) {
	if err := s.guard.Authorize(session, session.TenantID, auth.CapRead); err != nil {
		return nil, err
	}

	task, err := s.taskRepo.GetByID(ctx, session.TenantID, taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, entity.ErrTaskNotFound
	}

	return s.justificationRepo.ListByTask(ctx, session.TenantID, taskID)
}

func (s *JustificationService) publishEvent(event *entity.WorkflowEvent) {
	if s.publisher == nil {
		return
	}
	go func() {
		if err := s.publisher.PublishWorkflowEvent(context.Background(), event); err != nil {
			log.Printf("❌ Erro ao publicar evento %s no RabbitMQ: %v", event.Type, err)
		}
	}()
}
