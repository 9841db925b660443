package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/taskcomply/obrigacoes-service/internal/entity"
)

type JustificationRepository struct {
	db *pgxpool.Pool
}

func NewJustificationRepository(db *pgxpool.Pool) *JustificationRepository {
	return &JustificationRepository{
		db: db,
	}
}

const justificationColumns = `id, tenant_id, task_id, descricao, status, created_by, created_at,
	reviewed_by, reviewed_at, review_comment`

func scanJustification(row pgx.Row) (*entity.Justification, error) {
	var j entity.Justification
	err := row.Scan(
		&j.ID,
		&j.TenantID,
		&j.TaskID,
		&j.Descricao,
		&j.Status,
		&j.CreatedBy,
		&j.CreatedAt,
		&j.ReviewedBy,
		&j.ReviewedAt,
		&j.ReviewComment,
	)
	if err != nil {
		return nil, err
	}
	return &j, nil
}

// Create - insere uma justificativa em pending. O índice único parcial em
// (task_id) WHERE status IN ('pending','approved') garante no banco que só
// existe uma justificativa ativa por tarefa; violação vira ErrJustificationConflict.
func (r *JustificationRepository) Create(ctx context.Context, j *entity.Justification) (*entity.Justification, error) {

	query := `
	INSERT INTO "justification" (tenant_id, task_id, descricao, status, created_by)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING ` + justificationColumns + `
	`

	created, err := scanJustification(r.db.QueryRow(ctx, query,
		j.TenantID,
		j.TaskID,
		j.Descricao,
		entity.JustificationPending,
		j.CreatedBy,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, entity.ErrJustificationConflict
		}
		return nil, err
	}

	return created, nil
}

func (r *JustificationRepository) GetByID(ctx context.Context, tenantID, id int) (*entity.Justification, error) {
	query := `
	SELECT ` + justificationColumns + `
	FROM "justification"
	WHERE id = $1 AND tenant_id = $2
	`

	j, err := scanJustification(r.db.QueryRow(ctx, query, id, tenantID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	return j, nil
}

// GetLatestByTask - justificativa mais recente da tarefa; dela deriva o
// justification_status exibido
func (r *JustificationRepository) GetLatestByTask(ctx context.Context, tenantID, taskID int) (*entity.Justification, error) {
	query := `
	SELECT ` + justificationColumns + `
	FROM "justification"
	WHERE tenant_id = $1 AND task_id = $2
	ORDER BY created_at DESC, id DESC
	LIMIT 1
	`

	j, err := scanJustification(r.db.QueryRow(ctx, query, tenantID, taskID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	return j, nil
}

// ListByTask - histórico completo, incluindo recusadas; linhas antigas nunca
// são alteradas
func (r *JustificationRepository) ListByTask(ctx context.Context, tenantID, taskID int) ([]entity.Justification, error) {
	query := `
	SELECT ` + justificationColumns + `
	FROM "justification"
	WHERE tenant_id = $1 AND task_id = $2
	ORDER BY created_at DESC, id DESC
	`

	rows, err := r.db.Query(ctx, query, tenantID, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var justifications []entity.Justification
	for rows.Next() {
		j, err := scanJustification(rows)
		if err != nil {
			return nil, err
		}
		justifications = append(justifications, *j)
	}

	return justifications, rows.Err()
}

// Review - transição de status com compare-and-set: o WHERE carrega os status
// de origem permitidos, então dois revisores concorrentes nunca aplicam duas
// decisões; quem perde a corrida recebe zero linhas.
func (r *JustificationRepository) Review(ctx context.Context, tenantID, id int,
	newStatus entity.JustificationStatus, reviewedBy int, comment *string,
	fromStatuses []entity.JustificationStatus) (*entity.Justification, error) {

	from := make([]string, len(fromStatuses))
	for i, s := range fromStatuses {
		from[i] = string(s)
	}

	query := `
	UPDATE "justification"
	SET status = $1, reviewed_by = $2, reviewed_at = CURRENT_TIMESTAMP, review_comment = $3
	WHERE id = $4 AND tenant_id = $5 AND status = ANY($6)
	RETURNING ` + justificationColumns + `
	`

	j, err := scanJustification(r.db.QueryRow(ctx, query, newStatus, reviewedBy, comment, id, tenantID, from))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	return j, nil
}
