package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/taskhub/taskhub-api/internal/core/domain"
	"github.com/taskhub/taskhub-api/internal/core/ports"
)

const taskColumns = `id, title, description, completed, user_id, created_at, updated_at`

// TaskRepository implements ports.TaskRepository on database/sql.
type TaskRepository struct {
	db DBTX
}

func NewTaskRepository(db DBTX) ports.TaskRepository {
	return &TaskRepository{db: db}
}

// Create stores task. A task for a user that no longer exists yields
// domain.ErrUserNotFound.
func (r *TaskRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	query :=
		`INSERT INTO tasks (title, description, completed, user_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`

	created := *task
	err := r.db.QueryRowContext(ctx, query,
		task.Title, task.Description, task.Completed, task.UserID,
		task.CreatedAt.UTC(), task.UpdatedAt.UTC()).Scan(&created.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &created, nil
}

func (r *TaskRepository) FindByID(ctx context.Context, id int64) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`

	t, err := scanTask(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return t, nil
}

func (r *TaskRepository) List(ctx context.Context) ([]*domain.Task, error) {
	return r.query(ctx, `SELECT `+taskColumns+` FROM tasks ORDER BY id`)
}

func (r *TaskRepository) ListByUser(ctx context.Context, userID int64) ([]*domain.Task, error) {
	return r.query(ctx, `SELECT `+taskColumns+` FROM tasks WHERE user_id = $1 ORDER BY id`, userID)
}

func (r *TaskRepository) query(ctx context.Context, query string, args ...any) ([]*domain.Task, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	tasks := []*domain.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return tasks, nil
}

func (r *TaskRepository) Update(ctx context.Context, task *domain.Task) error {
	query :=
		`UPDATE tasks SET title = $1, description = $2, completed = $3, updated_at = $4
		 WHERE id = $5`

	res, err := r.db.ExecContext(ctx, query,
		task.Title, task.Description, task.Completed, task.UpdatedAt.UTC(), task.ID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectAffected(res, domain.ErrTaskNotFound)
}

func (r *TaskRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectAffected(res, domain.ErrTaskNotFound)
}

func scanTask(row rowScanner) (*domain.Task, error) {
	t := &domain.Task{}
	if err := row.Scan(&t.ID, &t.Title, &t.Description, &t.Completed, &t.UserID, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	return t, nil
}
