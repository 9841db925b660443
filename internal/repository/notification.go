package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/taskcomply/obrigacoes-service/internal/entity"
)

type NotificationRepository struct {
	db *pgxpool.Pool
}

func NewNotificationRepository(db *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{
		db: db,
	}
}

// Create - insere uma notificação pendente de envio
func (r *NotificationRepository) Create(ctx context.Context, n *entity.Notification) error {
	query := `
	INSERT INTO "notification" (tenant_id, event_type, task_id, justification_id, actor_id, payload)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING id, created_at
	`

	return r.db.QueryRow(ctx, query,
		n.TenantID,
		n.EventType,
		n.TaskID,
		n.JustificationID,
		n.ActorID,
		n.Payload,
	).Scan(&n.ID, &n.CreatedAt)
}

// ListPending - notificações ainda não enviadas, mais antigas primeiro
func (r *NotificationRepository) ListPending(ctx context.Context, limit int) ([]entity.Notification, error) {
	query := `
	SELECT id, tenant_id, event_type, task_id, justification_id, actor_id, payload, created_at, sent_at
	FROM "notification"
	WHERE sent_at IS NULL
	ORDER BY created_at ASC
	LIMIT $1
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []entity.Notification
	for rows.Next() {
		var n entity.Notification
		err := rows.Scan(
			&n.ID,
			&n.TenantID,
			&n.EventType,
			&n.TaskID,
			&n.JustificationID,
			&n.ActorID,
			&n.Payload,
			&n.CreatedAt,
			&n.SentAt,
		)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}

	return notifications, rows.Err()
}
