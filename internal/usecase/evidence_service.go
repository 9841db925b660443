package usecase

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/taskcomply/obrigacoes-service/internal/entity"
	"github.com/taskcomply/obrigacoes-service/internal/infrastructure/auth"
	"github.com/taskcomply/obrigacoes-service/internal/infrastructure/blob"
	"github.com/taskcomply/obrigacoes-service/internal/repository"
)

// EvidenceService - anexos de evidência. Os bytes vão para o colaborador de
// blob; os metadados só são persistidos depois que o store confirma o recebimento.
type EvidenceService struct {
	evidenceRepo      repository.IEvidenceRepository
	taskRepo          repository.ITaskRepository
	justificationRepo repository.IJustificationRepository
	blobStore         blob.Store
	guard             *auth.TenantScopeGuard
	now               func() time.Time
}

func NewEvidenceService(
	evidenceRepo repository.IEvidenceRepository,
	taskRepo repository.ITaskRepository,
	justificationRepo repository.IJustificationRepository,
	blobStore blob.Store,
	guard *auth.TenantScopeGuard,
) *EvidenceService {
	return &EvidenceService{
		evidenceRepo:      evidenceRepo,
		taskRepo:          taskRepo,
		justificationRepo: justificationRepo,
		blobStore:         blobStore,
		guard:             guard,
		now:               time.Now,
	}
}

func (s *EvidenceService) Upload(ctx context.Context, session *entity.Session, req *entity.UploadEvidenceRequest) (*entity.Evidence, error) {
	// 1. Escopo e capacidade
	if err := s.guard.Authorize(session, session.TenantID, auth.CapWrite); err != nil {
		return nil, err
	}

	// 2. Exatamente um alvo: tarefa ou justificativa
	if (req.TaskID == nil) == (req.JustificationID == nil) {
		return nil, entity.NewValidationError("task_id", "informe tarefa ou justificativa, nunca ambas")
	}
	if req.FileName == "" {
		return nil, entity.NewValidationError("file_name", "nome do arquivo é obrigatório")
	}
	if req.MimeType == "" {
		return nil, entity.NewValidationError("mime_type", "mime type é obrigatório")
	}
	if len(req.Data) == 0 {
		return nil, entity.NewValidationError("data", "arquivo vazio")
	}

	// 3. Alvo existe dentro do tenant da sessão
	if req.TaskID != nil {
		task, err := s.taskRepo.GetByID(ctx, session.TenantID, *req.TaskID)
		if err != nil {
			return nil, err
		}
		if task == nil {
			return nil, entity.ErrTaskNotFound
		}
	}
	if req.JustificationID != nil {
		justification, err := s.justificationRepo.GetByID(ctx, session.TenantID, *req.JustificationID)
		if err != nil {
			return nil, err
		}
		if justification == nil {
			return nil, entity.ErrJustificationNotFound
		}
		// Anexo em justificativa só enquanto ela está pendente
		if justification.Status != entity.JustificationPending {
			return nil, entity.ErrInvalidTransition
		}
	}

	// 4. Bytes primeiro; metadados só após a confirmação do store
	ref, size, err := s.blobStore.Put(ctx, req.Data)
	if err != nil {
		return nil, err
	}

	evidence, err := s.evidenceRepo.Create(ctx, &entity.Evidence{
		ID:              uuid.Must(uuid.NewV7()).String(),
		TenantID:        session.TenantID,
		TaskID:          req.TaskID,
		JustificationID: req.JustificationID,
		FileName:        req.FileName,
		MimeType:        req.MimeType,
		FileSize:        size,
		StorageRef:      ref,
		UploadedBy:      session.ActorID,
	})
	if err != nil {
		// Metadados falharam: o blob ficou órfão e é removido, melhor esforço
		if delErr := s.blobStore.Delete(ctx, ref); delErr != nil {
			log.Printf("❌ Erro ao remover blob órfão %s: %v", ref, delErr)
		}
		return nil, err
	}

	return evidence, nil
}

// ListByTask - metadados das evidências anexadas à tarefa
func (s *EvidenceService) ListByTask(ctx context.Context, session *entity.Session, taskID int) ([]entity.Evidence, error) {
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

	return s.evidenceRepo.ListByTask(ctx, session.TenantID, taskID)
}

// Download - devolve os bytes do blob store depois da checagem de escopo
func (s *EvidenceService) Download(ctx context.Context, session *entity.Session, taskID int, ref string) ([]byte, error) {
	if err := s.guard.Authorize(session, session.TenantID, auth.CapRead); err != nil {
		return nil, err
	}

	evidences, err := s.ListByTask(ctx, session, taskID)
	if err != nil {
		return nil, err
	}

	for _, e := range evidences {
		if e.StorageRef == ref {
			return s.blobStore.Get(ctx, ref)
		}
	}

	// Ref de outro escopo é indistinguível de inexistente
	return nil, entity.ErrEvidenceNotFound
}
