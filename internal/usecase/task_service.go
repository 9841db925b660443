package usecase

import (
	"context"
	"log"
	"regexp"
	"time"

	"github.com/taskcomply/obrigacoes-service/internal/entity"
	"github.com/taskcomply/obrigacoes-service/internal/infrastructure/auth"
	"github.com/taskcomply/obrigacoes-service/internal/repository"
)

// RecurrenceValidator - contrato do validador de recorrência consumido pelo TaskService
type RecurrenceValidator interface {
	Validate(ctx context.Context, session *entity.Session, area, recorrencia string) error
}

// EventPublisher - publicação de eventos de workflow no RabbitMQ
type EventPublisher interface {
	PublishWorkflowEvent(ctx context.Context, event *entity.WorkflowEvent) error
}

var competenciaPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

type TaskService struct {
	taskRepo          repository.ITaskRepository
	justificationRepo repository.IJustificationRepository
	ruleValidator     RecurrenceValidator
	guard             *auth.TenantScopeGuard
	audit             *AuditRecorder
	publisher         EventPublisher
	now               func() time.Time
}

func NewTaskService(
	taskRepo repository.ITaskRepository,
	justificationRepo repository.IJustificationRepository,
	ruleValidator RecurrenceValidator,
	guard *auth.TenantScopeGuard,
	publisher EventPublisher,
) *TaskService {
	return &TaskService{
		taskRepo:          taskRepo,
		justificationRepo: justificationRepo,
		ruleValidator:     ruleValidator,
		guard:             guard,
		audit:             NewAuditRecorder(),
		publisher:         publisher,
		now:               time.Now,
	}
}

func (s *TaskService) CreateTask(ctx context.Context, session *entity.Session, req *entity.CreateTaskRequest) (*entity.Task, error) {
	// 1. Escopo de tenant e capacidade de escrita
	if err := s.guard.Authorize(session, session.TenantID, auth.CapWrite); err != nil {
		return nil, err
	}

	// 2. Campos obrigatórios; nada é aplicado parcialmente
	if err := validateCreateRequest(req); err != nil {
		return nil, err
	}

	// 3. Recorrência contra a regra da área (admin tem bypass)
	if err := s.ruleValidator.Validate(ctx, session, req.Area, req.Recorrencia); err != nil {
		return nil, err
	}

	// 4. Tarefa pai, quando for subtarefa
	if req.ParentTaskID != nil {
		parent, err := s.taskRepo.GetByID(ctx, session.TenantID, *req.ParentTaskID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, entity.ErrTaskNotFound
		}
		if parent.ParentTaskID != nil {
			return nil, entity.NewValidationError("parent_task_id", "subtarefa não pode ter subtarefas")
		}
	}

	// 5. Criamos a tarefa com a atribuição de criação
	task, err := s.taskRepo.Create(ctx, &entity.Task{
		TenantID:         session.TenantID,
		Titulo:           req.Titulo,
		Descricao:        req.Descricao,
		Competencia:      req.Competencia,
		Recorrencia:      req.Recorrencia,
		Prazo:            req.Prazo,
		ResponsavelEmail: req.ResponsavelEmail,
		ResponsavelNome:  req.ResponsavelNome,
		Area:             req.Area,
		ParentTaskID:     req.ParentTaskID,
		CreatedBy:        session.ActorID,
	})
	if err != nil {
		return nil, err
	}

	if err := s.decorateTask(ctx, task); err != nil {
		return nil, err
	}

	s.publishEvent(&entity.WorkflowEvent{
		Type:      entity.EventTarefaCriada,
		TenantID:  task.TenantID,
		TaskID:    task.ID,
		ActorID:   session.ActorID,
		Timestamp: s.now(),
	})

	return task, nil
}

func (s *TaskService) GetTask(ctx context.Context, session *entity.Session, taskID int) (*entity.Task, error) {
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

	if err := s.decorateTask(ctx, task); err != nil {
		return nil, err
	}

	return task, nil
}

func (s *TaskService) UpdateTask(ctx context.Context, session *entity.Session, taskID int, req *entity.UpdateTaskRequest) (*entity.Task, error) {
	// 1. Escopo e capacidade
	if err := s.guard.Authorize(session, session.TenantID, auth.CapWrite); err != nil {
		return nil, err
	}

	// 2. Tarefa atual, escopada pelo tenant da sessão
	oldTask, err := s.taskRepo.GetByID(ctx, session.TenantID, taskID)
	if err != nil {
		return nil, err
	}
	if oldTask == nil {
		return nil, entity.ErrTaskNotFound
	}

	// 3. Responsável só mexe nas próprias tarefas; líder, nas da sua área
	if !s.canMutateTask(session, oldTask) {
		return nil, entity.ErrForbidden
	}

	// 4. Troca de recorrência passa de novo pela regra da área
	if req.Recorrencia != "" && req.Recorrencia != oldTask.Recorrencia {
		if err := s.ruleValidator.Validate(ctx, session, oldTask.Area, req.Recorrencia); err != nil {
			return nil, err
		}
	}

	// 5. Montamos as atualizações
	updates := make(map[string]interface{})

	if req.Titulo != "" {
		updates["titulo"] = req.Titulo
	}
	if req.Descricao != nil {
		updates["descricao"] = *req.Descricao
	}
	if req.Recorrencia != "" {
		updates["recorrencia"] = req.Recorrencia
	}
	if req.ResponsavelEmail != "" {
		updates["responsavel_email"] = req.ResponsavelEmail
	}
	if req.ResponsavelNome != "" {
		updates["responsavel_nome"] = req.ResponsavelNome
	}

	prazoChanged := false
	prazoEfetivo := oldTask.Prazo
	if req.Prazo != nil && !req.Prazo.Equal(oldTask.Prazo) {
		updates["prazo"] = *req.Prazo
		prazoEfetivo = *req.Prazo
		s.audit.StampPrazo(updates, session.ActorID)
		prazoChanged = true
	}

	// 6. Conclusão via patch passa pelos mesmos guards do CompleteTask
	concluiuAtrasado := false
	if req.Realizado != nil {
		if err := s.guardCompletion(ctx, session, oldTask, *req.Realizado, prazoEfetivo, req.Justificativa); err != nil {
			return nil, err
		}
		updates["realizado"] = *req.Realizado
		s.audit.StampRealizado(updates, session.ActorID)
		concluiuAtrasado = entity.IsLate(*req.Realizado, prazoEfetivo)
	}

	if len(updates) == 0 {
		return nil, entity.ErrNoFieldsToUpdate
	}

	// 7. Aplicamos a mutação com a atribuição do autor
	s.audit.StampUpdate(updates, session.ActorID)
	task, err := s.taskRepo.Update(ctx, session.TenantID, taskID, updates)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, entity.ErrTaskNotFound
	}

	// 8. Conclusão em atraso cria a justificativa pendente
	if concluiuAtrasado {
		if _, err := s.createPendingJustification(ctx, session, task, req.Justificativa); err != nil {
			return nil, err
		}
	}

	if err := s.decorateTask(ctx, task); err != nil {
		return nil, err
	}

	if prazoChanged {
		s.publishEvent(&entity.WorkflowEvent{
			Type:      entity.EventPrazoAlterado,
			TenantID:  task.TenantID,
			TaskID:    task.ID,
			ActorID:   session.ActorID,
			Details:   map[string]any{"prazo": prazoEfetivo.Format("2006-01-02")},
			Timestamp: s.now(),
		})
	}
	if req.Realizado != nil {
		s.publishEvent(&entity.WorkflowEvent{
			Type:      entity.EventTarefaConcluida,
			TenantID:  task.TenantID,
			TaskID:    task.ID,
			ActorID:   session.ActorID,
			Timestamp: s.now(),
		})
	}

	return task, nil
}

// CompleteTask - marca a conclusão; quando realizado > prazo, cria
// automaticamente uma justificativa pendente com a descrição informada
func (s *TaskService) CompleteTask(ctx context.Context, session *entity.Session, taskID int, req *entity.CompleteTaskRequest) (*entity.Task, error) {
	// 1. Escopo e capacidade
	if err := s.guard.Authorize(session, session.TenantID, auth.CapWrite); err != nil {
		return nil, err
	}

	task, err := s.taskRepo.GetByID(ctx, session.TenantID, taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, entity.ErrTaskNotFound
	}

	if !s.canMutateTask(session, task) {
		return nil, entity.ErrForbidden
	}

	if req.Realizado.IsZero() {
		return nil, entity.NewValidationError("realizado", "data de realização é obrigatória")
	}

	// 2. Cadeia de guards: subtarefas e justificativa, nessa ordem
	if err := s.guardCompletion(ctx, session, task, req.Realizado, task.Prazo, req.Justificativa); err != nil {
		return nil, err
	}

	// 3. Gravamos a conclusão com a atribuição
	updates := make(map[string]interface{})
	updates["realizado"] = req.Realizado
	s.audit.StampRealizado(updates, session.ActorID)
	s.audit.StampUpdate(updates, session.ActorID)

	task, err = s.taskRepo.Update(ctx, session.TenantID, taskID, updates)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, entity.ErrTaskNotFound
	}

	// 4. Atraso gera exatamente uma justificativa pendente
	if entity.IsLate(req.Realizado, task.Prazo) {
		if _, err := s.createPendingJustification(ctx, session, task, req.Justificativa); err != nil {
			return nil, err
		}
	}

	if err := s.decorateTask(ctx, task); err != nil {
		return nil, err
	}

	s.publishEvent(&entity.WorkflowEvent{
		Type:      entity.EventTarefaConcluida,
		TenantID:  task.TenantID,
		TaskID:    task.ID,
		ActorID:   session.ActorID,
		Details:   map[string]any{"status": string(task.Status)},
		Timestamp: s.now(),
	})

	return task, nil
}

func (s *TaskService) ListTasks(ctx context.Context, session *entity.Session, filter entity.ListTasksFilter) ([]entity.Task, error) {
	if err := s.guard.Authorize(session, session.TenantID, auth.CapRead); err != nil {
		return nil, err
	}

	tasks, err := s.taskRepo.List(ctx, session.TenantID, filter)
	if err != nil {
		return nil, err
	}

	for i := range tasks {
		if err := s.decorateTask(ctx, &tasks[i]); err != nil {
			return nil, err
		}
	}

	return tasks, nil
}

// ListSubtasks - subtarefas de uma tarefa pai, com status derivado
func (s *TaskService) ListSubtasks(ctx context.Context, session *entity.Session, parentID int) ([]entity.Task, error) {
	if err := s.guard.Authorize(session, session.TenantID, auth.CapRead); err != nil {
		return nil, err
	}

	parent, err := s.taskRepo.GetByID(ctx, session.TenantID, parentID)
	if err != nil {
		return nil, err
	}
	if parent == nil {
		return nil, entity.ErrTaskNotFound
	}

	subtasks, err := s.taskRepo.ListByParent(ctx, session.TenantID, parentID)
	if err != nil {
		return nil, err
	}

	for i := range subtasks {
		if err := s.decorateTask(ctx, &subtasks[i]); err != nil {
			return nil, err
		}
	}

	return subtasks, nil
}

// guardCompletion - cadeia ordenada de pré-condições de conclusão. Cada guard
// é independente; novas regras de gating entram aqui sem mexer nas existentes.
func (s *TaskService) guardCompletion(ctx context.Context, session *entity.Session,
	task *entity.Task, realizado, prazo time.Time, justificativa string) error {

	// Guard 1: tarefa já concluída não conclui de novo
	if task.Realizado != nil {
		return entity.NewValidationError("realizado", "tarefa já está concluída")
	}

	// Guard 2: subtarefas incompletas bloqueiam a conclusão do pai
	if task.SubtaskCount > 0 {
		subtasks, err := s.taskRepo.ListByParent(ctx, session.TenantID, task.ID)
		if err != nil {
			return err
		}
		for i := range subtasks {
			st := entity.DeriveStatus(&subtasks[i], nil, s.now())
			if !st.IsConcluido() {
				return entity.ErrSubtaskBlocked
			}
		}
	}

	// Guard 3: conclusão em atraso exige justificativa antes de qualquer escrita
	if entity.IsLate(realizado, prazo) {
		if justificativa == "" {
			return entity.NewValidationError("justificativa", "conclusão após o prazo exige justificativa")
		}
		latest, err := s.justificationRepo.GetLatestByTask(ctx, session.TenantID, task.ID)
		if err != nil {
			return err
		}
		if latest != nil && latest.Status.IsActive() {
			return entity.ErrJustificationConflict
		}
		if latest != nil && latest.Status == entity.JustificationBlocked {
			return entity.ErrJustificationConflict
		}
	}

	return nil
}

func (s *TaskService) createPendingJustification(ctx context.Context, session *entity.Session,
	task *entity.Task, descricao string) (*entity.Justification, error) {

	justification, err := s.justificationRepo.Create(ctx, &entity.Justification{
		TenantID:  session.TenantID,
		TaskID:    task.ID,
		Descricao: descricao,
		CreatedBy: session.ActorID,
	})
	if err != nil {
		return nil, err
	}

	s.publishEvent(&entity.WorkflowEvent{
		Type:            entity.EventJustificativaEnviada,
		TenantID:        task.TenantID,
		TaskID:          task.ID,
		JustificationID: &justification.ID,
		ActorID:         session.ActorID,
		Timestamp:       s.now(),
	})

	return justification, nil
}

// canMutateTask - dono de papel responsável só mexe nas próprias tarefas;
// líder fica restrito à sua área; administrador passa sempre
func (s *TaskService) canMutateTask(session *entity.Session, task *entity.Task) bool {
	switch session.Role {
	case entity.RoleAdministrador:
		return true
	case entity.RoleLider:
		return task.Area == session.Area
	case entity.RoleResponsavel:
		return task.ResponsavelEmail == session.Email
	default:
		return false
	}
}

// decorateTask - preenche os campos derivados na leitura. O status nunca é
// persistido; é recalculado aqui a partir do estado atual do banco.
func (s *TaskService) decorateTask(ctx context.Context, task *entity.Task) error {
	var subtaskStatuses []entity.TaskStatus
	if task.SubtaskCount > 0 {
		subtasks, err := s.taskRepo.ListByParent(ctx, task.TenantID, task.ID)
		if err != nil {
			return err
		}
		for i := range subtasks {
			subtaskStatuses = append(subtaskStatuses, entity.DeriveStatus(&subtasks[i], nil, s.now()))
		}
	}

	task.Status = entity.DeriveStatus(task, subtaskStatuses, s.now())

	task.JustificationStatus = entity.JustificationNone
	latest, err := s.justificationRepo.GetLatestByTask(ctx, task.TenantID, task.ID)
	if err != nil {
		return err
	}
	if latest != nil {
		task.JustificationStatus = latest.Status
	}

	return nil
}

// Envio assíncrono; o fluxo não depende do broker
func (s *TaskService) publishEvent(event *entity.WorkflowEvent) {
	if s.publisher == nil {
		return
	}
	go func() {
		if err := s.publisher.PublishWorkflowEvent(context.Background(), event); err != nil {
			log.Printf("❌ Erro ao publicar evento %s no RabbitMQ: %v", event.Type, err)
		}
	}()
}

func validateCreateRequest(req *entity.CreateTaskRequest) error {
	if req.Titulo == "" {
		return entity.NewValidationError("titulo", "título é obrigatório")
	}
	if !competenciaPattern.MatchString(req.Competencia) {
		return entity.NewValidationError("competencia", "competência deve estar no formato YYYY-MM")
	}
	if req.Recorrencia == "" {
		return entity.NewValidationError("recorrencia", "recorrência é obrigatória")
	}
	if req.Prazo.IsZero() {
		return entity.NewValidationError("prazo", "prazo é obrigatório")
	}
	if req.ResponsavelEmail == "" {
		return entity.NewValidationError("responsavel_email", "responsável é obrigatório")
	}
	if req.Area == "" {
		return entity.NewValidationError("area", "área é obrigatória")
	}
	return nil
}
