package repository

import (
	"context"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/taskcomply/obrigacoes-service/internal/entity"
)

type TaskRepository struct {
	db *pgxpool.Pool
}

func NewTaskRepository(db *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{
		db: db,
	}
}

const taskColumns = `id, tenant_id, titulo, descricao, competencia, recorrencia, prazo, realizado,
	responsavel_email, responsavel_nome, area, parent_task_id,
	created_by, created_at, updated_by, updated_at, prazo_modified_by, prazo_modified_at, realizado_por,
	(SELECT COUNT(*) FROM task s WHERE s.parent_task_id = task.id) AS subtask_count`

func scanTask(row pgx.Row) (*entity.Task, error) {
	var task entity.Task
	err := row.Scan(
		&task.ID,
		&task.TenantID,
		&task.Titulo,
		&task.Descricao,
		&task.Competencia,
		&task.Recorrencia,
		&task.Prazo,
		&task.Realizado,
		&task.ResponsavelEmail,
		&task.ResponsavelNome,
		&task.Area,
		&task.ParentTaskID,
		&task.CreatedBy,
		&task.CreatedAt,
		&task.UpdatedBy,
		&task.UpdatedAt,
		&task.PrazoModifiedBy,
		&task.PrazoModifiedAt,
		&task.RealizadoPor,
		&task.SubtaskCount,
	)
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *TaskRepository) Create(ctx context.Context, task *entity.Task) (*entity.Task, error) {

	query := `
	INSERT INTO "task" (tenant_id, titulo, descricao, competencia, recorrencia, prazo,
		responsavel_email, responsavel_nome, area, parent_task_id, created_by)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	RETURNING ` + taskColumns + `
	`

	row := r.db.QueryRow(ctx, query,
		task.TenantID,
		task.Titulo,
		task.Descricao,
		task.Competencia,
		task.Recorrencia,
		task.Prazo,
		task.ResponsavelEmail,
		task.ResponsavelNome,
		task.Area,
		task.ParentTaskID,
		task.CreatedBy,
	)

	return scanTask(row)
}

// GetByID - busca sempre escopada por tenant; tarefa de outro tenant é
// indistinguível de inexistente
func (r *TaskRepository) GetByID(ctx context.Context, tenantID, taskID int) (*entity.Task, error) {

	query := `
	SELECT ` + taskColumns + `
	FROM "task"
	WHERE id = $1 AND tenant_id = $2
	`

	task, err := scanTask(r.db.QueryRow(ctx, query, taskID, tenantID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	return task, nil
}

// Update - atualização de tarefa com SET dinâmico
func (r *TaskRepository) Update(ctx context.Context, tenantID, taskID int, updates map[string]interface{}) (*entity.Task, error) {
	// Montamos a parte SET dinamicamente
	setClause := ""
	args := []interface{}{}
	argIndex := 1

	for field, value := range updates {
		if field == "updated_at" {
			continue // nunca atualizado manualmente
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
	UPDATE task
	SET ` + setClause + `
	WHERE id = $` + strconv.Itoa(argIndex) + ` AND tenant_id = $` + strconv.Itoa(argIndex+1) + `
	RETURNING ` + taskColumns + `
	`
	args = append(args, taskID, tenantID)

	task, err := scanTask(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	return task, nil
}

// List - lista de tarefas do tenant com filtros opcionais
func (r *TaskRepository) List(ctx context.Context, tenantID int, filter entity.ListTasksFilter) ([]entity.Task, error) {
	query := `
	SELECT ` + taskColumns + `
	FROM "task"
	WHERE tenant_id = $1
	`
	args := []interface{}{tenantID}
	argIndex := 2

	if filter.Area != "" {
		query += " AND area = $" + strconv.Itoa(argIndex)
		args = append(args, filter.Area)
		argIndex++
	}

	if filter.Competencia != "" {
		query += " AND competencia = $" + strconv.Itoa(argIndex)
		args = append(args, filter.Competencia)
		argIndex++
	}

	if filter.ResponsavelEmail != "" {
		query += " AND responsavel_email = $" + strconv.Itoa(argIndex)
		args = append(args, filter.ResponsavelEmail)
		argIndex++
	}

	query += " ORDER BY prazo ASC, created_at DESC"

	return r.queryTasks(ctx, query, args...)
}

// ListByParent - subtarefas de uma tarefa pai
func (r *TaskRepository) ListByParent(ctx context.Context, tenantID, parentID int) ([]entity.Task, error) {
	query := `
	SELECT ` + taskColumns + `
	FROM "task"
	WHERE tenant_id = $1 AND parent_task_id = $2
	ORDER BY created_at ASC
	`
	return r.queryTasks(ctx, query, tenantID, parentID)
}

func (r *TaskRepository) queryTasks(ctx context.Context, query string, args ...interface{}) ([]entity.Task, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []entity.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}

	return tasks, rows.Err()
}
