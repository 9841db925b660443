package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/taskcomply/obrigacoes-service/internal/entity"
)

type EvidenceRepository struct {
	db *pgxpool.Pool
}

func NewEvidenceRepository(db *pgxpool.Pool) *EvidenceRepository {
	return &EvidenceRepository{
		db: db,
	}
}

const evidenceColumns = `id, tenant_id, task_id, justification_id, file_name, mime_type, file_size,
	storage_ref, uploaded_by, uploaded_at`

func scanEvidence(row pgx.Row) (*entity.Evidence, error) {
	var e entity.Evidence
	err := row.Scan(
		&e.ID,
		&e.TenantID,
		&e.TaskID,
		&e.JustificationID,
		&e.FileName,
		&e.MimeType,
		&e.FileSize,
		&e.StorageRef,
		&e.UploadedBy,
		&e.UploadedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Create - persiste apenas metadados; os bytes já foram confirmados pelo blob store
func (r *EvidenceRepository) Create(ctx context.Context, e *entity.Evidence) (*entity.Evidence, error) {
	query := `
	INSERT INTO "evidence" (id, tenant_id, task_id, justification_id, file_name, mime_type, file_size, storage_ref, uploaded_by)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	RETURNING ` + evidenceColumns + `
	`

	return scanEvidence(r.db.QueryRow(ctx, query,
		e.ID,
		e.TenantID,
		e.TaskID,
		e.JustificationID,
		e.FileName,
		e.MimeType,
		e.FileSize,
		e.StorageRef,
		e.UploadedBy,
	))
}

func (r *EvidenceRepository) ListByTask(ctx context.Context, tenantID, taskID int) ([]entity.Evidence, error) {
	query := `
	SELECT ` + evidenceColumns + `
	FROM "evidence"
	WHERE tenant_id = $1 AND task_id = $2
	ORDER BY uploaded_at DESC
	`
	return r.queryEvidences(ctx, query, tenantID, taskID)
}

func (r *EvidenceRepository) ListByJustification(ctx context.Context, tenantID, justificationID int) ([]entity.Evidence, error) {
	query := `
	SELECT ` + evidenceColumns + `
	FROM "evidence"
	WHERE tenant_id = $1 AND justification_id = $2
	ORDER BY uploaded_at DESC
	`
	return r.queryEvidences(ctx, query, tenantID, justificationID)
}

// AttachToJustification - re-aponta evidências já enviadas da tarefa para a
// justificativa. O CHECK da tabela exige exatamente um alvo, então task_id é
// zerado na mesma escrita.
func (r *EvidenceRepository) AttachToJustification(ctx context.Context, tenantID, taskID, justificationID int, refs []string) error {
	query := `
	UPDATE "evidence"
	SET justification_id = $1, task_id = NULL
	WHERE tenant_id = $2 AND task_id = $3 AND storage_ref = ANY($4)
	`

	_, err := r.db.Exec(ctx, query, justificationID, tenantID, taskID, refs)
	return err
}

func (r *EvidenceRepository) queryEvidences(ctx context.Context, query string, args ...interface{}) ([]entity.Evidence, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var evidences []entity.Evidence
	for rows.Next() {
		e, err := scanEvidence(rows)
		if err != nil {
			return nil, err
		}
		evidences = append(evidences, *e)
	}

	return evidences, rows.Err()
}
