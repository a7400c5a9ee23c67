package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/odysseyapp/core/internal/domain/entities"
	"github.com/odysseyapp/core/internal/ports"
)

// ListRepositoryImpl implements the ListRepository interface
type ListRepositoryImpl struct {
	db *sqlx.DB
}

// NewListRepository creates a new list repository
func NewListRepository(db *sqlx.DB) ports.ListRepository {
	return &ListRepositoryImpl{db: db}
}

func (r *ListRepositoryImpl) Create(ctx context.Context, list *entities.TaskList) error {
	query := `
		INSERT INTO task_lists (id, user_id, title, icon)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`

	if list.ID == uuid.Nil {
		list.ID = uuid.New()
	}

	err := r.db.QueryRowContext(ctx, query,
		list.ID, list.UserID, list.Title, list.Icon,
	).Scan(&list.CreatedAt)

	if err != nil {
		return fmt.Errorf("create list: %w", err)
	}

	return nil
}

func (r *ListRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*entities.TaskList, error) {
	query := `
		SELECT id, user_id, title, icon, created_at
		FROM task_lists
		WHERE id = $1`

	var list entities.TaskList
	err := r.db.GetContext(ctx, &list, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, entities.ErrListNotFound
		}
		return nil, fmt.Errorf("get list by id: %w", err)
	}

	return &list, nil
}

func (r *ListRepositoryImpl) GetForUser(ctx context.Context, userID uuid.UUID) ([]*entities.TaskList, error) {
	query := `
		SELECT id, user_id, title, icon, created_at
		FROM task_lists
		WHERE user_id = $1
		ORDER BY created_at ASC`

	var lists []*entities.TaskList
	err := r.db.SelectContext(ctx, &lists, query, userID)
	if err != nil {
		return nil, fmt.Errorf("get lists for user: %w", err)
	}

	return lists, nil
}

func (r *ListRepositoryImpl) Update(ctx context.Context, list *entities.TaskList) error {
	query := `
		UPDATE task_lists
		SET title = $2, icon = $3
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, list.ID, list.Title, list.Icon)
	if err != nil {
		return fmt.Errorf("update list: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return entities.ErrListNotFound
	}

	return nil
}

func (r *ListRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	// Tasks in the list go with it; the FK is ON DELETE CASCADE.
	query := `DELETE FROM task_lists WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete list: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return entities.ErrListNotFound
	}

	return nil
}
