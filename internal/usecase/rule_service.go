package usecase

import (
	"context"

	"github.com/taskcomply/obrigacoes-service/internal/entity"
	"github.com/taskcomply/obrigacoes-service/internal/infrastructure/auth"
	"github.com/taskcomply/obrigacoes-service/internal/repository"
)

// RuleService - regras de recorrência por (tenant, área). A validação só
// acontece na escrita da tarefa: encolher o conjunto permitido não invalida
// tarefas já criadas sob o conjunto antigo.
type RuleService struct {
	ruleRepo repository.IRuleRepository
	guard    *auth.TenantScopeGuard
}

func NewRuleService(ruleRepo repository.IRuleRepository, guard *auth.TenantScopeGuard) *RuleService {
	return &RuleService{
		ruleRepo: ruleRepo,
		guard:    guard,
	}
}

// Validate - recorrência contra o conjunto permitido da área do tenant.
// Sem regra cadastrada, nada é permitido (fail closed, nunca open).
func (s *RuleService) Validate(ctx context.Context, session *entity.Session, area, recorrencia string) error {
	// Administrador pode criar tarefas de qualquer recorrência em qualquer
	// área, ex.: ao configurar em nome de um time
	if s.guard.Has(session, auth.CapBypassRecorrencia) {
		return nil
	}

	rule, err := s.ruleRepo.Get(ctx, session.TenantID, area)
	if err != nil {
		return err
	}

	if !rule.Allows(recorrencia) {
		return &entity.RuleViolationError{Area: area, Recorrencia: recorrencia}
	}

	return nil
}

// Save - substitui por completo o conjunto permitido da área
func (s *RuleService) Save(ctx context.Context, session *entity.Session, req *entity.SaveRuleRequest) (*entity.Rule, error) {
	if err := s.guard.Authorize(session, req.TenantID, auth.CapManageRules); err != nil {
		return nil, err
	}

	if req.Area == "" {
		return nil, entity.NewValidationError("area", "área é obrigatória")
	}

	rule := &entity.Rule{
		TenantID:            req.TenantID,
		Area:                req.Area,
		AllowedRecorrencias: req.AllowedRecorrencias,
		UpdatedBy:           session.ActorID,
	}

	return s.ruleRepo.Save(ctx, rule)
}

// Get - regra vigente da área; nil quando nenhuma foi cadastrada
func (s *RuleService) Get(ctx context.Context, session *entity.Session, area string) (*entity.Rule, error) {
	if err := s.guard.Authorize(session, session.TenantID, auth.CapRead); err != nil {
		return nil, err
	}

	return s.ruleRepo.Get(ctx, session.TenantID, area)
}
