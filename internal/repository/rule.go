package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/taskcomply/obrigacoes-service/internal/entity"
)

type RuleRepository struct {
	db *pgxpool.Pool
}

func NewRuleRepository(db *pgxpool.Pool) *RuleRepository {
	return &RuleRepository{
		db: db,
	}
}

// Get - regra da área; nil quando não existe (o chamador trata como conjunto vazio)
func (r *RuleRepository) Get(ctx context.Context, tenantID int, area string) (*entity.Rule, error) {
	query := `
	SELECT id, tenant_id, area, allowed_recorrencias, updated_by, updated_at
	FROM "rule"
	WHERE tenant_id = $1 AND area = $2
	`

	var rule entity.Rule
	err := r.db.QueryRow(ctx, query, tenantID, area).Scan(
		&rule.ID,
		&rule.TenantID,
		&rule.Area,
		&rule.AllowedRecorrencias,
		&rule.UpdatedBy,
		&rule.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	return &rule, nil
}

// Save - substitui por completo o conjunto permitido da área; nunca faz merge
// com o conjunto anterior
func (r *RuleRepository) Save(ctx context.Context, rule *entity.Rule) (*entity.Rule, error) {
	query := `
	INSERT INTO "rule" (tenant_id, area, allowed_recorrencias, updated_by)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (tenant_id, area) DO UPDATE SET
	    allowed_recorrencias = $3,
	    updated_by = $4,
	    updated_at = CURRENT_TIMESTAMP
	RETURNING id, tenant_id, area, allowed_recorrencias, updated_by, updated_at
	`

	var saved entity.Rule
	err := r.db.QueryRow(ctx, query,
		rule.TenantID,
		rule.Area,
		rule.AllowedRecorrencias,
		rule.UpdatedBy,
	).Scan(
		&saved.ID,
		&saved.TenantID,
		&saved.Area,
		&saved.AllowedRecorrencias,
		&saved.UpdatedBy,
		&saved.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &saved, nil
}
