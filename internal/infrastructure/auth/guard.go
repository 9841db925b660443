package auth

import (
	"github.com/taskcomply/obrigacoes-service/internal/entity"
)

type Capability string

const (
	CapRead              Capability = "read"
	CapWrite             Capability = "write"
	CapReview            Capability = "review"
	CapManageRules       Capability = "manage_rules"
	CapBypassRecorrencia Capability = "bypass_recorrencia"
)

// Capacidades por papel. A UI só esconde botões; a decisão de verdade é esta.
var roleCapabilities = map[entity.Role]map[Capability]bool{
	entity.RoleResponsavel: {
		CapRead:  true,
		CapWrite: true,
	},
	entity.RoleLider: {
		CapRead:        true,
		CapWrite:       true,
		CapReview:      true,
		CapManageRules: true,
	},
	entity.RoleAdministrador: {
		CapRead:              true,
		CapWrite:             true,
		CapReview:            true,
		CapManageRules:       true,
		CapBypassRecorrencia: true,
	},
}

// TenantScopeGuard - valida escopo de tenant e capacidade do papel antes de
// qualquer transição de estado. A checagem de tenant vem sempre primeiro.
type TenantScopeGuard struct{}

func NewTenantScopeGuard() *TenantScopeGuard {
	return &TenantScopeGuard{}
}

// Authorize - ordem fixa: tenant -> impersonação -> capacidade do papel
func (g *TenantScopeGuard) Authorize(session *entity.Session, targetTenantID int, cap Capability) error {
	if session == nil {
		return entity.ErrForbidden
	}

	// 1. Escopo de tenant: mismatch nunca é filtrado em silêncio
	if session.TenantID != targetTenantID {
		return entity.ErrForbidden
	}

	// 2. Impersonação é somente-leitura, sem exceção por papel
	if session.Impersonating && cap != CapRead {
		return entity.ErrForbidden
	}

	// 3. Capacidade do papel, avaliada só depois do escopo passar
	if !roleCapabilities[session.Role][cap] {
		return entity.ErrForbidden
	}

	return nil
}

// Has - consulta de capacidade sem checagem de escopo (ex.: bypass de regra)
func (g *TenantScopeGuard) Has(session *entity.Session, cap Capability) bool {
	if session == nil {
		return false
	}
	if session.Impersonating && cap != CapRead {
		return false
	}
	return roleCapabilities[session.Role][cap]
}
