package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/taskcomply/obrigacoes-service/internal/entity"
	"github.com/taskcomply/obrigacoes-service/internal/infrastructure/auth"
)

func TestRuleValidateAllowed(t *testing.T) {
	ctx := context.Background()
	session := &entity.Session{ActorID: 7, TenantID: 10, Role: entity.RoleResponsavel}

	mockRuleRepo := &MockRuleRepository{
		GetFunc: func(ctx context.Context, tenantID int, area string) (*entity.Rule, error) {
			return &entity.Rule{TenantID: 10, Area: "Fiscal", AllowedRecorrencias: []string{"mensal", "anual"}}, nil
		},
	}

	service := NewRuleService(mockRuleRepo, auth.NewTenantScopeGuard())

	if err := service.Validate(ctx, session, "Fiscal", "mensal"); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
}

func TestRuleValidateNaoPermitida(t *testing.T) {
	ctx := context.Background()
	session := &entity.Session{ActorID: 7, TenantID: 10, Role: entity.RoleResponsavel}

	mockRuleRepo := &MockRuleRepository{
		GetFunc: func(ctx context.Context, tenantID int, area string) (*entity.Rule, error) {
			return &entity.Rule{TenantID: 10, Area: "Fiscal", AllowedRecorrencias: []string{"mensal"}}, nil
		},
	}

	service := NewRuleService(mockRuleRepo, auth.NewTenantScopeGuard())

	err := service.Validate(ctx, session, "Fiscal", "semanal")
	var rErr *entity.RuleViolationError
	if !errors.As(err, &rErr) {
		t.Fatalf("Expected RuleViolationError, got %v", err)
	}
	if rErr.Area != "Fiscal" || rErr.Recorrencia != "semanal" {
		t.Errorf("Unexpected violation: %+v", rErr)
	}
}

func TestRuleValidateSemRegraFailClosed(t *testing.T) {
	ctx := context.Background()
	session := &entity.Session{ActorID: 7, TenantID: 10, Role: entity.RoleResponsavel}

	// Nenhuma regra cadastrada para a área: nada é permitido
	mockRuleRepo := &MockRuleRepository{
		GetFunc: func(ctx context.Context, tenantID int, area string) (*entity.Rule, error) {
			return nil, nil
		},
	}

	service := NewRuleService(mockRuleRepo, auth.NewTenantScopeGuard())

	err := service.Validate(ctx, session, "Fiscal", "mensal")
	var rErr *entity.RuleViolationError
	if !errors.As(err, &rErr) {
		t.Errorf("Expected RuleViolationError, got %v", err)
	}
}

func TestRuleValidateAdminBypass(t *testing.T) {
	ctx := context.Background()
	session := &entity.Session{ActorID: 3, TenantID: 10, Role: entity.RoleAdministrador}

	getCalled := false
	mockRuleRepo := &MockRuleRepository{
		GetFunc: func(ctx context.Context, tenantID int, area string) (*entity.Rule, error) {
			getCalled = true
			return nil, nil
		},
	}

	service := NewRuleService(mockRuleRepo, auth.NewTenantScopeGuard())

	if err := service.Validate(ctx, session, "Fiscal", "qualquer"); err != nil {
		t.Errorf("Expected admin bypass, got %v", err)
	}
	if getCalled {
		t.Error("Expected rule lookup to be skipped on bypass")
	}
}

func TestRuleSaveSubstituiConjunto(t *testing.T) {
	ctx := context.Background()
	session := &entity.Session{ActorID: 2, TenantID: 10, Role: entity.RoleLider, Area: "Fiscal"}

	var saved *entity.Rule
	mockRuleRepo := &MockRuleRepository{
		SaveFunc: func(ctx context.Context, rule *entity.Rule) (*entity.Rule, error) {
			saved = rule
			return rule, nil
		},
	}

	service := NewRuleService(mockRuleRepo, auth.NewTenantScopeGuard())

	_, err := service.Save(ctx, session, &entity.SaveRuleRequest{
		TenantID:            10,
		Area:                "Fiscal",
		AllowedRecorrencias: []string{"anual"},
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// Substituição total: o conjunto gravado é exatamente o enviado
	if len(saved.AllowedRecorrencias) != 1 || saved.AllowedRecorrencias[0] != "anual" {
		t.Errorf("Expected full replace, got %v", saved.AllowedRecorrencias)
	}
	if saved.UpdatedBy != 2 {
		t.Errorf("Expected updated_by 2, got %d", saved.UpdatedBy)
	}
}

func TestRuleSaveOutroTenant(t *testing.T) {
	ctx := context.Background()
	session := &entity.Session{ActorID: 2, TenantID: 10, Role: entity.RoleLider, Area: "Fiscal"}

	service := NewRuleService(&MockRuleRepository{}, auth.NewTenantScopeGuard())

	_, err := service.Save(ctx, session, &entity.SaveRuleRequest{
		TenantID:            20,
		Area:                "Fiscal",
		AllowedRecorrencias: []string{"mensal"},
	})
	if err != entity.ErrForbidden {
		t.Errorf("Expected ErrForbidden, got %v", err)
	}
}

func TestRuleSaveResponsavelSemCapacidade(t *testing.T) {
	ctx := context.Background()
	session := &entity.Session{ActorID: 7, TenantID: 10, Role: entity.RoleResponsavel}

	service := NewRuleService(&MockRuleRepository{}, auth.NewTenantScopeGuard())

	_, err := service.Save(ctx, session, &entity.SaveRuleRequest{
		TenantID:            10,
		Area:                "Fiscal",
		AllowedRecorrencias: []string{"mensal"},
	})
	if err != entity.ErrForbidden {
		t.Errorf("Expected ErrForbidden, got %v", err)
	}
}
