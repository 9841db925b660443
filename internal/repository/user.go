package repository

import (
	"context"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/taskcomply/obrigacoes-service/internal/entity"
)

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

const userColumns = `id, tenant_id, nome, email, password_hash, role, area, is_active, last_login, created_at, updated_at`

func scanUser(row pgx.Row) (*entity.User, error) {
	var user entity.User
	err := row.Scan(
		&user.ID,
		&user.TenantID,
		&user.Nome,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.Area,
		&user.IsActive,
		&user.LastLogin,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Create - cria usuário já vinculado a tenant, papel e área
func (r *UserRepository) Create(ctx context.Context, user *entity.User) (*entity.User, error) {

	query := `
	INSERT INTO "user" (tenant_id, nome, email, password_hash, role, area)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING ` + userColumns + `
	`

	return scanUser(r.db.QueryRow(ctx, query,
		user.TenantID,
		user.Nome,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.Area,
	))
}

func (r *UserRepository) GetByID(ctx context.Context, id int) (*entity.User, error) {
	query := `
	SELECT ` + userColumns + `
	FROM "user"
	WHERE id = $1
	`

	user, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	return user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	query := `
	SELECT ` + userColumns + `
	FROM "user"
	WHERE email = $1
	`

	user, err := scanUser(r.db.QueryRow(ctx, query, email))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	return user, nil
}

// Update - atualização com SET dinâmico, mesmo padrão do TaskRepository
func (r *UserRepository) Update(ctx context.Context, id int, updates map[string]interface{}) (*entity.User, error) {
	setClause := ""
	args := []interface{}{}
	argIndex := 1

	for field, value := range updates {
		if field == "updated_at" {
			continue
		}
		if argIndex > 1 {
			setClause += ", "
		}
		setClause += field + " = $" + strconv.Itoa(argIndex)
		args = append(args, value)
		argIndex++
	}

	if argIndex > 1 {
		setClause += ", updated_at = CURRENT_TIMESTAMP"
	}

	query := `
	UPDATE "user"
	SET ` + setClause + `
	WHERE id = $` + strconv.Itoa(argIndex) + `
	RETURNING ` + userColumns + `
	`
	args = append(args, id)

	user, err := scanUser(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	return user, nil
}
