package auth

import (
	"testing"

	"github.com/taskcomply/obrigacoes-service/internal/entity"
)

func TestAuthorizeSameTenant(t *testing.T) {
	guard := NewTenantScopeGuard()
	session := &entity.Session{ActorID: 1, TenantID: 10, Role: entity.RoleResponsavel}

	if err := guard.Authorize(session, 10, CapWrite); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
}

func TestAuthorizeTenantMismatch(t *testing.T) {
	guard := NewTenantScopeGuard()
	// Admin de outro tenant também é barrado: o escopo vem antes do papel
	session := &entity.Session{ActorID: 1, TenantID: 10, Role: entity.RoleAdministrador}

	if err := guard.Authorize(session, 20, CapRead); err != entity.ErrForbidden {
		t.Errorf("Expected ErrForbidden, got %v", err)
	}
}

func TestAuthorizeNilSession(t *testing.T) {
	guard := NewTenantScopeGuard()

	if err := guard.Authorize(nil, 10, CapRead); err != entity.ErrForbidden {
		t.Errorf("Expected ErrForbidden, got %v", err)
	}
}

func TestAuthorizeImpersonationReadOnly(t *testing.T) {
	guard := NewTenantScopeGuard()
	session := &entity.Session{ActorID: 1, TenantID: 20, Role: entity.RoleAdministrador, Impersonating: true}

	if err := guard.Authorize(session, 20, CapRead); err != nil {
		t.Errorf("Expected read to be allowed, got %v", err)
	}
	if err := guard.Authorize(session, 20, CapWrite); err != entity.ErrForbidden {
		t.Errorf("Expected ErrForbidden on write, got %v", err)
	}
	if err := guard.Authorize(session, 20, CapReview); err != entity.ErrForbidden {
		t.Errorf("Expected ErrForbidden on review, got %v", err)
	}
}

func TestAuthorizeRoleCapabilities(t *testing.T) {
	guard := NewTenantScopeGuard()

	responsavel := &entity.Session{ActorID: 1, TenantID: 10, Role: entity.RoleResponsavel}
	if err := guard.Authorize(responsavel, 10, CapReview); err != entity.ErrForbidden {
		t.Errorf("Expected ErrForbidden for responsavel review, got %v", err)
	}
	if err := guard.Authorize(responsavel, 10, CapManageRules); err != entity.ErrForbidden {
		t.Errorf("Expected ErrForbidden for responsavel manage_rules, got %v", err)
	}

	lider := &entity.Session{ActorID: 2, TenantID: 10, Role: entity.RoleLider}
	if err := guard.Authorize(lider, 10, CapReview); err != nil {
		t.Errorf("Expected lider review to pass, got %v", err)
	}
	if err := guard.Authorize(lider, 10, CapManageRules); err != nil {
		t.Errorf("Expected lider manage_rules to pass, got %v", err)
	}
	if err := guard.Authorize(lider, 10, CapBypassRecorrencia); err != entity.ErrForbidden {
		t.Errorf("Expected ErrForbidden for lider bypass, got %v", err)
	}

	admin := &entity.Session{ActorID: 3, TenantID: 10, Role: entity.RoleAdministrador}
	if err := guard.Authorize(admin, 10, CapBypassRecorrencia); err != nil {
		t.Errorf("Expected admin bypass to pass, got %v", err)
	}
}

func TestHas(t *testing.T) {
	guard := NewTenantScopeGuard()

	admin := &entity.Session{ActorID: 1, TenantID: 10, Role: entity.RoleAdministrador}
	if !guard.Has(admin, CapBypassRecorrencia) {
		t.Error("Expected admin to have bypass_recorrencia")
	}

	lider := &entity.Session{ActorID: 2, TenantID: 10, Role: entity.RoleLider}
	if guard.Has(lider, CapBypassRecorrencia) {
		t.Error("Expected lider to not have bypass_recorrencia")
	}

	// Impersonação derruba qualquer capacidade de escrita, bypass incluído
	impersonating := &entity.Session{ActorID: 1, TenantID: 20, Role: entity.RoleAdministrador, Impersonating: true}
	if guard.Has(impersonating, CapBypassRecorrencia) {
		t.Error("Expected impersonating admin to not have bypass_recorrencia")
	}

	if guard.Has(nil, CapRead) {
		t.Error("Expected nil session to have no capabilities")
	}
}
