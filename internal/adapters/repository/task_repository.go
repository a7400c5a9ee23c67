package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/odysseyapp/core/internal/domain/entities"
	"github.com/odysseyapp/core/internal/ports"
)

// TaskRepositoryImpl implements the TaskRepository interface
type TaskRepositoryImpl struct {
	db *sqlx.DB
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(db *sqlx.DB) ports.TaskRepository {
	return &TaskRepositoryImpl{db: db}
}

func (r *TaskRepositoryImpl) Create(ctx context.Context, task *entities.Task) error {
	query := `
		INSERT INTO tasks (id, user_id, list_id, title, priority, due_date, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`

	if task.ID == uuid.Nil {
		task.ID = uuid.New()
	}

	err := r.db.QueryRowContext(ctx, query,
		task.ID, task.UserID, task.ListID, task.Title,
		task.Priority, task.DueDate, task.Status,
	).Scan(&task.CreatedAt, &task.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create task: %w", err)
	}

	return nil
}

func (r *TaskRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*entities.Task, error) {
	query := `
		SELECT id, user_id, list_id, title, priority, due_date, status, created_at, updated_at
		FROM tasks
		WHERE id = $1`

	var task entities.Task
	err := r.db.GetContext(ctx, &task, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, entities.ErrTaskNotFound
		}
		return nil, fmt.Errorf("get task by id: %w", err)
	}

	return &task, nil
}

func (r *TaskRepositoryImpl) GetForUser(ctx context.Context, userID uuid.UUID, filter ports.TaskFilter) ([]*entities.Task, error) {
	where, args := buildTaskFilter(userID, filter)

	query := fmt.Sprintf(`
		SELECT id, user_id, list_id, title, priority, due_date, status, created_at, updated_at
		FROM tasks
		WHERE %s
		ORDER BY %s %s`, where, taskSortColumn(filter.SortBy), sortOrder(filter.SortOrder))

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", filter.Limit, filter.Offset)
	}

	var tasks []*entities.Task
	err := r.db.SelectContext(ctx, &tasks, query, args...)
	if err != nil {
		return nil, fmt.Errorf("get tasks for user: %w", err)
	}

	return tasks, nil
}

func (r *TaskRepositoryImpl) GetForList(ctx context.Context, listID uuid.UUID) ([]*entities.Task, error) {
	query := `
		SELECT id, user_id, list_id, title, priority, due_date, status, created_at, updated_at
		FROM tasks
		WHERE list_id = $1
		ORDER BY created_at ASC`

	var tasks []*entities.Task
	err := r.db.SelectContext(ctx, &tasks, query, listID)
	if err != nil {
		return nil, fmt.Errorf("get tasks for list: %w", err)
	}

	return tasks, nil
}

func (r *TaskRepositoryImpl) Update(ctx context.Context, task *entities.Task) error {
	query := `
		UPDATE tasks
		SET title = $2, priority = $3, due_date = $4, status = $5, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.QueryRowContext(ctx, query,
		task.ID, task.Title, task.Priority, task.DueDate, task.Status,
	).Scan(&task.UpdatedAt)

	if err != nil {
		if err == sql.ErrNoRows {
			return entities.ErrTaskNotFound
		}
		return fmt.Errorf("update task: %w", err)
	}

	return nil
}

func (r *TaskRepositoryImpl) UpdateStatus(ctx context.Context, id uuid.UUID, status entities.TaskStatus) error {
	query := `
		UPDATE tasks
		SET status = $2, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("update task status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return entities.ErrTaskNotFound
	}

	return nil
}

func (r *TaskRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM tasks WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return entities.ErrTaskNotFound
	}

	return nil
}

func (r *TaskRepositoryImpl) Count(ctx context.Context, userID uuid.UUID, filter ports.TaskFilter) (int64, error) {
	where, args := buildTaskFilter(userID, filter)
	query := fmt.Sprintf(`SELECT COUNT(*) FROM tasks WHERE %s`, where)

	var count int64
	err := r.db.GetContext(ctx, &count, query, args...)
	if err != nil {
		return 0, fmt.Errorf("count tasks: %w", err)
	}

	return count, nil
}

// buildTaskFilter assembles the WHERE clause and positional args for a
// filtered task query. The user id is always the first condition.
func buildTaskFilter(userID uuid.UUID, filter ports.TaskFilter) (string, []interface{}) {
	conditions := []string{"user_id = $1"}
	args := []interface{}{userID}

	addCondition := func(clause string, value interface{}) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(clause, len(args)))
	}

	if filter.ListID != nil {
		addCondition("list_id = $%d", *filter.ListID)
	}
	if filter.Status != nil {
		addCondition("status = $%d", *filter.Status)
	}
	if filter.Priority != nil {
		addCondition("priority = $%d", *filter.Priority)
	}
	if filter.DueBefore != nil {
		addCondition("due_date <= $%d", *filter.DueBefore)
	}
	if filter.DueAfter != nil {
		addCondition("due_date >= $%d", *filter.DueAfter)
	}
	if filter.Search != nil && *filter.Search != "" {
		addCondition("title ILIKE $%d", "%"+*filter.Search+"%")
	}

	return strings.Join(conditions, " AND "), args
}

func taskSortColumn(sortBy string) string {
	switch sortBy {
	case "title", "priority", "due_date", "status", "updated_at":
		return sortBy
	default:
		return "created_at"
	}
}

func sortOrder(order string) string {
	if strings.EqualFold(order, "desc") {
		return "DESC"
	}
	return "ASC"
}
