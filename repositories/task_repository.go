package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/camma-system/models"
)

var ErrTaskNotFound = errors.New("task not found")

type TaskRepository interface {
	Create(ctx context.Context, task *models.Task) error
	GetByID(ctx context.Context, id int) (*models.Task, error)
	// List при assignedTo != nil возвращает только задачи этого пользователя.
	List(ctx context.Context, assignedTo *int, page Pagination) ([]models.Task, error)
	Update(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, id int) error
	CountOpen(ctx context.Context) (int, error)
}

type postgresTaskRepository struct {
	db *sql.DB
}

func NewPostgresTaskRepository(db *sql.DB) TaskRepository {
	return &postgresTaskRepository{db: db}
}

const taskColumns = `id, title, description, status, priority, assigned_to_id, created_by_id, due_date,
	completed_date, event_id, checklist_items, created_at, updated_at`

// scanTask разбирает checklist_items при каждом чтении.
func scanTask(row interface{ Scan(...interface{}) error }) (*models.Task, error) {
	t := &models.Task{}
	var checklist *string
	err := row.Scan(
		&t.ID, &t.Title, &t.Description, &t.Status, &t.Priority, &t.AssignedToID, &t.CreatedByID, &t.DueDate,
		&t.CompletedDate, &t.EventID, &checklist, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if t.ChecklistItems, err = models.DecodeStringList(checklist); err != nil {
		return nil, fmt.Errorf("task %d: %w", t.ID, err)
	}
	return t, nil
}

func (r *postgresTaskRepository) Create(ctx context.Context, t *models.Task) error {
	checklist, err := models.EncodeStringList(t.ChecklistItems)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO tasks (title, description, status, priority, assigned_to_id, created_by_id, due_date, event_id, checklist_items)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at`

	err = r.db.QueryRowContext(ctx, query,
		t.Title, t.Description, t.Status, t.Priority, t.AssignedToID, t.CreatedByID, t.DueDate, t.EventID, checklist,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return handleTaskError(err)
	}
	if t.ChecklistItems == nil {
		t.ChecklistItems = []string{}
	}
	return nil
}

func (r *postgresTaskRepository) GetByID(ctx context.Context, id int) (*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`
	t, err := scanTask(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to scan task %d: %w", id, err)
	}
	return t, nil
}

func (r *postgresTaskRepository) List(ctx context.Context, assignedTo *int, page Pagination) ([]models.Task, error) {
	page = page.normalized()
	query := `SELECT ` + taskColumns + ` FROM tasks
		WHERE ($1::INTEGER IS NULL OR assigned_to_id = $1)
		ORDER BY id OFFSET $2 LIMIT $3`

	rows, err := r.db.QueryContext(ctx, query, assignedTo, page.Skip, page.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := make([]models.Task, 0)
	for rows.Next() {
		t, scanErr := scanTask(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		tasks = append(tasks, *t)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return tasks, nil
}

// Update заменяет чеклист целиком.
func (r *postgresTaskRepository) Update(ctx context.Context, t *models.Task) error {
	checklist, err := models.EncodeStringList(t.ChecklistItems)
	if err != nil {
		return err
	}

	query := `
		UPDATE tasks SET
			title = $1, description = $2, status = $3, priority = $4, assigned_to_id = $5,
			due_date = $6, completed_date = $7, checklist_items = $8, event_id = $9,
			updated_at = (NOW() AT TIME ZONE 'utc')
		WHERE id = $10
		RETURNING updated_at`

	err = r.db.QueryRowContext(ctx, query,
		t.Title, t.Description, t.Status, t.Priority, t.AssignedToID,
		t.DueDate, t.CompletedDate, checklist, t.EventID, t.ID,
	).Scan(&t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrTaskNotFound
	}
	return handleTaskError(err)
}

func (r *postgresTaskRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete task %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrTaskNotFound)
}

func (r *postgresTaskRepository) CountOpen(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tasks WHERE status <> $1`, models.TaskDone).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count open tasks: %w", err)
	}
	return n, nil
}

var ErrTaskInvalidReference = errors.New("task references a missing user or event")

func handleTaskError(err error) error {
	if err == nil {
		return nil
	}
	if code, _, ok := constraintViolation(err); ok && code == pqForeignKeyViolation {
		return ErrTaskInvalidReference
	}
	return err
}
