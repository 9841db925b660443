package repository

import (
	"context"
	"time"

	"github.com/taskcomply/obrigacoes-service/internal/entity"
)

// ITaskRepository - interface para TaskRepository
type ITaskRepository interface {
	Create(ctx context.Context, task *entity.Task) (*entity.Task, error)
	GetByID(ctx context.Context, tenantID, taskID int) (*entity.Task, error)
	Update(ctx context.Context, tenantID, taskID int, updates map[string]interface{}) (*entity.Task, error)
	List(ctx context.Context, tenantID int, filter entity.ListTasksFilter) ([]entity.Task, error)
	ListByParent(ctx context.Context, tenantID, parentID int) ([]entity.Task, error)
}

// IJustificationRepository - interface para JustificationRepository
type IJustificationRepository interface {
	Create(ctx context.Context, j *entity.Justification) (*entity.Justification, error)
	GetByID(ctx context.Context, tenantID, id int) (*entity.Justification, error)
	GetLatestByTask(ctx context.Context, tenantID, taskID int) (*entity.Justification, error)
	ListByTask(ctx context.Context, tenantID, taskID int) ([]entity.Justification, error)
	Review(ctx context.Context, tenantID, id int, newStatus entity.JustificationStatus,
		reviewedBy int, comment *string, fromStatuses []entity.JustificationStatus) (*entity.Justification, error)
}

// IRuleRepository - interface para RuleRepository
type IRuleRepository interface {
	Get(ctx context.Context, tenantID int, area string) (*entity.Rule, error)
	Save(ctx context.Context, rule *entity.Rule) (*entity.Rule, error)
}

// IEvidenceRepository - interface para EvidenceRepository
type IEvidenceRepository interface {
	Create(ctx context.Context, e *entity.Evidence) (*entity.Evidence, error)
	ListByTask(ctx context.Context, tenantID, taskID int) ([]entity.Evidence, error)
	ListByJustification(ctx context.Context, tenantID, justificationID int) ([]entity.Evidence, error)
	AttachToJustification(ctx context.Context, tenantID, taskID, justificationID int, refs []string) error
}

// IUserRepository - interface para UserRepository
type IUserRepository interface {
	Create(ctx context.Context, user *entity.User) (*entity.User, error)
	GetByID(ctx context.Context, id int) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, id int, updates map[string]interface{}) (*entity.User, error)
}

// IRefreshTokenRepository - interface para RefreshTokenRepository
type IRefreshTokenRepository interface {
	Save(ctx context.Context, userID int, tokenHash string, expiresAt time.Time) error
	GetByHash(ctx context.Context, tokenHash string) (*RefreshToken, error)
	Revoke(ctx context.Context, tokenHash string) error
	RevokeAll(ctx context.Context, userID int) error
	CleanupExpired(ctx context.Context) error
}

// INotificationRepository - interface para NotificationRepository
type INotificationRepository interface {
	Create(ctx context.Context, n *entity.Notification) error
	ListPending(ctx context.Context, limit int) ([]entity.Notification, error)
}
