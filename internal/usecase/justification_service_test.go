package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/taskcomply/obrigacoes-service/internal/entity"
	"github.com/taskcomply/obrigacoes-service/internal/infrastructure/auth"
)

func newJustificationServiceForTest(justificationRepo *MockJustificationRepository, taskRepo *MockTaskRepository) *JustificationService {
	return NewJustificationService(justificationRepo, taskRepo, &MockEvidenceRepository{}, auth.NewTenantScopeGuard(), &MockEventPublisher{})
}

func lateTask() *entity.Task {
	realizado := testDate(2024, 3, 12)
	return &entity.Task{
		ID:               1,
		TenantID:         10,
		Prazo:            testDate(2024, 3, 10),
		Realizado:        &realizado,
		ResponsavelEmail: "ana@acme.com",
		Area:             "Fiscal",
	}
}

func TestSubmitJustificationSuccess(t *testing.T) {
	ctx := context.Background()
	session := &entity.Session{ActorID: 7, TenantID: 10, Email: "ana@acme.com", Role: entity.RoleResponsavel}

	mockTaskRepo := &MockTaskRepository{
		GetByIDFunc: func(ctx context.Context, tenantID, taskID int) (*entity.Task, error) {
			return lateTask(), nil
		},
	}

	var created *entity.Justification
	mockJustificationRepo := &MockJustificationRepository{
		CreateFunc: func(ctx context.Context, j *entity.Justification) (*entity.Justification, error) {
			out := *j
			out.ID = 5
			out.Status = entity.JustificationPending
			created = &out
			return &out, nil
		},
	}

	service := newJustificationServiceForTest(mockJustificationRepo, mockTaskRepo)

	result, err := service.Submit(ctx, session, 1, &entity.SubmitJustificationRequest{
		Descricao: "Sistema da prefeitura fora do ar",
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if result.Status != entity.JustificationPending {
		t.Errorf("Expected pending, got %s", result.Status)
	}
	if created.CreatedBy != 7 || created.TenantID != 10 {
		t.Errorf("Unexpected attribution: %+v", created)
	}
}

func TestSubmitJustificationReapontaEvidencias(t *testing.T) {
	ctx := context.Background()
	session := &entity.Session{ActorID: 7, TenantID: 10, Email: "ana@acme.com", Role: entity.RoleResponsavel}

	mockTaskRepo := &MockTaskRepository{
		GetByIDFunc: func(ctx context.Context, tenantID, taskID int) (*entity.Task, error) {
			return lateTask(), nil
		},
	}

	mockJustificationRepo := &MockJustificationRepository{
		CreateFunc: func(ctx context.Context, j *entity.Justification) (*entity.Justification, error) {
			out := *j
			out.ID = 5
			out.Status = entity.JustificationPending
			return &out, nil
		},
	}

	var attachedJustificationID int
	var attachedRefs []string
	mockEvidenceRepo := &MockEvidenceRepository{
		AttachToJustificationFunc: func(ctx context.Context, tenantID, taskID, justificationID int, refs []string) error {
			attachedJustificationID = justificationID
			attachedRefs = refs
			return nil
		},
	}

	service := NewJustificationService(mockJustificationRepo, mockTaskRepo, mockEvidenceRepo,
		auth.NewTenantScopeGuard(), &MockEventPublisher{})

	_, err := service.Submit(ctx, session, 1, &entity.SubmitJustificationRequest{
		Descricao:    "Sistema da prefeitura fora do ar",
		EvidenceRefs: []string{"ref-abc", "ref-def"},
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if attachedJustificationID != 5 {
		t.Errorf("Expected evidences attached to justification 5, got %d", attachedJustificationID)
	}
	if len(attachedRefs) != 2 || attachedRefs[0] != "ref-abc" || attachedRefs[1] != "ref-def" {
		t.Errorf("Expected both refs to be attached, got %v", attachedRefs)
	}
}

func TestSubmitJustificationReenvioAposRecusa(t *testing.T) {
	ctx := context.Background()
	session := &entity.Session{ActorID: 7, TenantID: 10, Email: "ana@acme.com", Role: entity.RoleResponsavel}

	comment := "Sem detalhes suficientes"
	recusada := entity.Justification{
		ID:            5,
		TenantID:      10,
		TaskID:        1,
		Descricao:     "primeira tentativa",
		Status:        entity.JustificationRefused,
		CreatedBy:     7,
		ReviewComment: &comment,
	}

	mockTaskRepo := &MockTaskRepository{
		GetByIDFunc: func(ctx context.Context, tenantID, taskID int) (*entity.Task, error) {
			return lateTask(), nil
		},
	}

	var created *entity.Justification
	mockJustificationRepo := &MockJustificationRepository{
		GetLatestByTaskFunc: func(ctx context.Context, tenantID, taskID int) (*entity.Justification, error) {
			return &recusada, nil
		},
		CreateFunc: func(ctx context.Context, j *entity.Justification) (*entity.Justification, error) {
			out := *j
			out.ID = 6
			out.Status = entity.JustificationPending
			created = &out
			return &out, nil
		},
		ListByTaskFunc: func(ctx context.Context, tenantID, taskID int) ([]entity.Justification, error) {
			return []entity.Justification{*created, recusada}, nil
		},
	}

	service := newJustificationServiceForTest(mockJustificationRepo, mockTaskRepo)

	// Recusa permite um novo envio: nasce uma linha nova, nunca um update da antiga
	result, err := service.Submit(ctx, session, 1, &entity.SubmitJustificationRequest{
		Descricao: "segunda tentativa, com detalhes",
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if result.ID == recusada.ID {
		t.Error("Expected a new row, not a rewrite of the refused one")
	}
	if result.Status != entity.JustificationPending {
		t.Errorf("Expected pending, got %s", result.Status)
	}

	// A recusada continua no histórico, intacta
	history, err := service.ListByTask(ctx, session, 1)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("Expected both rows in history, got %d", len(history))
	}
	old := history[1]
	if old.ID != 5 || old.Status != entity.JustificationRefused {
		t.Errorf("Expected refused row preserved, got %+v", old)
	}
	if old.Descricao != "primeira tentativa" || old.ReviewComment == nil || *old.ReviewComment != comment {
		t.Errorf("Expected refused row unmutated, got %+v", old)
	}
}

func TestSubmitJustificationTarefaNoPrazo(t *testing.T) {
	ctx := context.Background()
	session := &entity.Session{ActorID: 7, TenantID: 10, Email: "ana@acme.com", Role: entity.RoleResponsavel}

	realizado := testDate(2024, 3, 10)
	mockTaskRepo := &MockTaskRepository{
		GetByIDFunc: func(ctx context.Context, tenantID, taskID int) (*entity.Task, error) {
			return &entity.Task{ID: 1, TenantID: 10, Prazo: testDate(2024, 3, 10), Realizado: &realizado, ResponsavelEmail: "ana@acme.com"}, nil
		},
	}

	service := newJustificationServiceForTest(&MockJustificationRepository{}, mockTaskRepo)

	_, err := service.Submit(ctx, session, 1, &entity.SubmitJustificationRequest{Descricao: "x"})
	var vErr *entity.ValidationError
	if !errors.As(err, &vErr) || vErr.Field != "realizado" {
		t.Errorf("Expected validation error on realizado, got %v", err)
	}
}

func TestSubmitJustificationNaoResponsavel(t *testing.T) {
	ctx := context.Background()
	session := &entity.Session{ActorID: 7, TenantID: 10, Email: "outro@acme.com", Role: entity.RoleResponsavel}

	mockTaskRepo := &MockTaskRepository{
		GetByIDFunc: func(ctx context.Context, tenantID, taskID int) (*entity.Task, error) {
			return lateTask(), nil
		},
	}

	service := newJustificationServiceForTest(&MockJustificationRepository{}, mockTaskRepo)

	_, err := service.Submit(ctx, session, 1, &entity.SubmitJustificationRequest{Descricao: "x"})
	if err != entity.ErrForbidden {
		t.Errorf("Expected ErrForbidden, got %v", err)
	}
}

func TestSubmitJustificationBloqueadaETerminal(t *testing.T) {
	ctx := context.Background()
	session := &entity.Session{ActorID: 7, TenantID: 10, Email: "ana@acme.com", Role: entity.RoleResponsavel}

	mockTaskRepo := &MockTaskRepository{
		GetByIDFunc: func(ctx context.Context, tenantID, taskID int) (*entity.Task, error) {
			return lateTask(), nil
		},
	}
	mockJustificationRepo := &MockJustificationRepository{
		GetLatestByTaskFunc: func(ctx context.Context, tenantID, taskID int) (*entity.Justification, error) {
			return &entity.Justification{ID: 3, TaskID: 1, Status: entity.JustificationBlocked}, nil
		},
	}

	service := newJustificationServiceForTest(mockJustificationRepo, mockTaskRepo)

	_, err := service.Submit(ctx, session, 1, &entity.SubmitJustificationRequest{Descricao: "tentativa"})
	if err != entity.ErrJustificationConflict {
		t.Errorf("Expected ErrJustificationConflict, got %v", err)
	}
}

func TestSubmitJustificationConflitoAtiva(t *testing.T) {
	ctx := context.Background()
	session := &entity.Session{ActorID: 7, TenantID: 10, Email: "ana@acme.com", Role: entity.RoleResponsavel}

	mockTaskRepo := &MockTaskRepository{
		GetByIDFunc: func(ctx context.Context, tenantID, taskID int) (*entity.Task, error) {
			return lateTask(), nil
		},
	}
	// A corrida chega até o banco; o índice único parcial devolve o conflito
	mockJustificationRepo := &MockJustificationRepository{
		CreateFunc: func(ctx context.Context, j *entity.Justification) (*entity.Justification, error) {
			return nil, entity.ErrJustificationConflict
		},
	}

	service := newJustificationServiceForTest(mockJustificationRepo, mockTaskRepo)

	_, err := service.Submit(ctx, session, 1, &entity.SubmitJustificationRequest{Descricao: "de novo"})
	if err != entity.ErrJustificationConflict {
		t.Errorf("Expected ErrJustificationConflict, got %v", err)
	}
}

func TestReviewApproveSuccess(t *testing.T) {
	ctx := context.Background()
	session := &entity.Session{ActorID: 2, TenantID: 10, Email: "lider@acme.com", Role: entity.RoleLider, Area: "Fiscal"}

	mockTaskRepo := &MockTaskRepository{
		GetByIDFunc: func(ctx context.Context, tenantID, taskID int) (*entity.Task, error) {
			return lateTask(), nil
		},
	}

	var capturedFrom []entity.JustificationStatus
	mockJustificationRepo := &MockJustificationRepository{
		GetByIDFunc: func(ctx context.Context, tenantID, id int) (*entity.Justification, error) {
			return &entity.Justification{ID: 5, TenantID: 10, TaskID: 1, Status: entity.JustificationPending}, nil
		},
		ReviewFunc: func(ctx context.Context, tenantID, id int, newStatus entity.JustificationStatus,
			reviewedBy int, comment *string, fromStatuses []entity.JustificationStatus) (*entity.Justification, error) {
			capturedFrom = fromStatuses
			reviewed := &entity.Justification{ID: 5, TenantID: 10, TaskID: 1, Status: newStatus, ReviewedBy: &reviewedBy}
			return reviewed, nil
		},
	}

	service := newJustificationServiceForTest(mockJustificationRepo, mockTaskRepo)

	result, err := service.Review(ctx, session, 5, &entity.ReviewJustificationRequest{Decision: entity.DecisionApprove})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if result.Status != entity.JustificationApproved {
		t.Errorf("Expected approved, got %s", result.Status)
	}
	if len(capturedFrom) != 1 || capturedFrom[0] != entity.JustificationPending {
		t.Errorf("Expected approve to only transition from pending, got %v", capturedFrom)
	}
	if result.ReviewedBy == nil || *result.ReviewedBy != 2 {
		t.Error("Expected reviewer attribution")
	}
}

func TestReviewRefuseSemComentario(t *testing.T) {
	ctx := context.Background()
	session := &entity.Session{ActorID: 2, TenantID: 10, Role: entity.RoleLider, Area: "Fiscal"}

	mockTaskRepo := &MockTaskRepository{
		GetByIDFunc: func(ctx context.Context, tenantID, taskID int) (*entity.Task, error) {
			return lateTask(), nil
		},
	}
	mockJustificationRepo := &MockJustificationRepository{
		GetByIDFunc: func(ctx context.Context, tenantID, id int) (*entity.Justification, error) {
			return &entity.Justification{ID: 5, TenantID: 10, TaskID: 1, Status: entity.JustificationPending}, nil
		},
	}

	service := newJustificationServiceForTest(mockJustificationRepo, mockTaskRepo)

	_, err := service.Review(ctx, session, 5, &entity.ReviewJustificationRequest{Decision: entity.DecisionRefuse})
	var vErr *entity.ValidationError
	if !errors.As(err, &vErr) || vErr.Field != "comment" {
		t.Errorf("Expected validation error on comment, got %v", err)
	}
}

func TestReviewSegundaDecisaoPerdeACorrida(t *testing.T) {
	ctx := context.Background()
	session := &entity.Session{ActorID: 2, TenantID: 10, Role: entity.RoleLider, Area: "Fiscal"}

	mockTaskRepo := &MockTaskRepository{
		GetByIDFunc: func(ctx context.Context, tenantID, taskID int) (*entity.Task, error) {
			return lateTask(), nil
		},
	}
	// O compare-and-set não encontra linha em pending: outro revisor chegou antes
	mockJustificationRepo := &MockJustificationRepository{
		GetByIDFunc: func(ctx context.Context, tenantID, id int) (*entity.Justification, error) {
			return &entity.Justification{ID: 5, TenantID: 10, TaskID: 1, Status: entity.JustificationPending}, nil
		},
		ReviewFunc: func(ctx context.Context, tenantID, id int, newStatus entity.JustificationStatus,
			reviewedBy int, comment *string, fromStatuses []entity.JustificationStatus) (*entity.Justification, error) {
			return nil, nil
		},
	}

	service := newJustificationServiceForTest(mockJustificationRepo, mockTaskRepo)

	_, err := service.Review(ctx, session, 5, &entity.ReviewJustificationRequest{Decision: entity.DecisionApprove})
	if err != entity.ErrInvalidTransition {
		t.Errorf("Expected ErrInvalidTransition, got %v", err)
	}
}

func TestReviewBlockAPartirDeRefused(t *testing.T) {
	ctx := context.Background()
	session := &entity.Session{ActorID: 3, TenantID: 10, Role: entity.RoleAdministrador}

	mockTaskRepo := &MockTaskRepository{
		GetByIDFunc: func(ctx context.Context, tenantID, taskID int) (*entity.Task, error) {
			return lateTask(), nil
		},
	}

	var capturedFrom []entity.JustificationStatus
	mockJustificationRepo := &MockJustificationRepository{
		GetByIDFunc: func(ctx context.Context, tenantID, id int) (*entity.Justification, error) {
			return &entity.Justification{ID: 5, TenantID: 10, TaskID: 1, Status: entity.JustificationRefused}, nil
		},
		ReviewFunc: func(ctx context.Context, tenantID, id int, newStatus entity.JustificationStatus,
			reviewedBy int, comment *string, fromStatuses []entity.JustificationStatus) (*entity.Justification, error) {
			capturedFrom = fromStatuses
			return &entity.Justification{ID: 5, TenantID: 10, TaskID: 1, Status: newStatus}, nil
		},
	}

	service := newJustificationServiceForTest(mockJustificationRepo, mockTaskRepo)

	result, err := service.Review(ctx, session, 5, &entity.ReviewJustificationRequest{Decision: entity.DecisionBlock})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if result.Status != entity.JustificationBlocked {
		t.Errorf("Expected blocked, got %s", result.Status)
	}
	if len(capturedFrom) != 2 {
		t.Errorf("Expected block to transition from pending or refused, got %v", capturedFrom)
	}
}

func TestReviewLiderOutraArea(t *testing.T) {
	ctx := context.Background()
	session := &entity.Session{ActorID: 2, TenantID: 10, Role: entity.RoleLider, Area: "Contábil"}

	mockTaskRepo := &MockTaskRepository{
		GetByIDFunc: func(ctx context.Context, tenantID, taskID int) (*entity.Task, error) {
			return lateTask(), nil // área Fiscal
		},
	}
	mockJustificationRepo := &MockJustificationRepository{
		GetByIDFunc: func(ctx context.Context, tenantID, id int) (*entity.Justification, error) {
			return &entity.Justification{ID: 5, TenantID: 10, TaskID: 1, Status: entity.JustificationPending}, nil
		},
	}

	service := newJustificationServiceForTest(mockJustificationRepo, mockTaskRepo)

	_, err := service.Review(ctx, session, 5, &entity.ReviewJustificationRequest{Decision: entity.DecisionApprove})
	if err != entity.ErrForbidden {
		t.Errorf("Expected ErrForbidden, got %v", err)
	}
}

func TestReviewResponsavelSemCapacidade(t *testing.T) {
	ctx := context.Background()
	session := &entity.Session{ActorID: 7, TenantID: 10, Email: "ana@acme.com", Role: entity.RoleResponsavel}

	service := newJustificationServiceForTest(&MockJustificationRepository{}, &MockTaskRepository{})

	_, err := service.Review(ctx, session, 5, &entity.ReviewJustificationRequest{Decision: entity.DecisionApprove})
	if err != entity.ErrForbidden {
		t.Errorf("Expected ErrForbidden, got %v", err)
	}
}
