package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/camma-system/models"
)

var (
	ErrTrainerNotFound = errors.New("trainer not found")
	ErrManagerNotFound = errors.New("manager not found")
)

type TrainerRepository interface {
	Create(ctx context.Context, trainer *models.Trainer) error
	GetByID(ctx context.Context, id int) (*models.Trainer, error)
	List(ctx context.Context, page Pagination) ([]models.Trainer, error)
}

type ManagerRepository interface {
	Create(ctx context.Context, manager *models.Manager) error
	GetByID(ctx context.Context, id int) (*models.Manager, error)
	List(ctx context.Context, page Pagination) ([]models.Manager, error)
}

type postgresTrainerRepository struct {
	db *sql.DB
}

func NewPostgresTrainerRepository(db *sql.DB) TrainerRepository {
	return &postgresTrainerRepository{db: db}
}

func (r *postgresTrainerRepository) Create(ctx context.Context, t *models.Trainer) error {
	query := `
		INSERT INTO trainers (user_id, first_name, last_name, phone, email, club_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query, t.UserID, t.FirstName, t.LastName, t.Phone, t.Email, t.ClubID).
		Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		if code, _, ok := constraintViolation(err); ok && code == pqForeignKeyViolation {
			return ErrClubNotFound
		}
		return fmt.Errorf("failed to create trainer: %w", err)
	}
	return nil
}

func (r *postgresTrainerRepository) GetByID(ctx context.Context, id int) (*models.Trainer, error) {
	query := `SELECT id, user_id, first_name, last_name, phone, email, club_id, created_at FROM trainers WHERE id = $1`
	t := &models.Trainer{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&t.ID, &t.UserID, &t.FirstName, &t.LastName, &t.Phone, &t.Email, &t.ClubID, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTrainerNotFound
		}
		return nil, fmt.Errorf("failed to scan trainer %d: %w", id, err)
	}
	return t, nil
}

func (r *postgresTrainerRepository) List(ctx context.Context, page Pagination) ([]models.Trainer, error) {
	page = page.normalized()
	query := `
		SELECT id, user_id, first_name, last_name, phone, email, club_id, created_at
		FROM trainers ORDER BY last_name, first_name OFFSET $1 LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, page.Skip, page.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	trainers := make([]models.Trainer, 0)
	for rows.Next() {
		var t models.Trainer
		if err := rows.Scan(&t.ID, &t.UserID, &t.FirstName, &t.LastName, &t.Phone, &t.Email, &t.ClubID, &t.CreatedAt); err != nil {
			return nil, err
		}
		trainers = append(trainers, t)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return trainers, nil
}

type postgresManagerRepository struct {
	db *sql.DB
}

func NewPostgresManagerRepository(db *sql.DB) ManagerRepository {
	return &postgresManagerRepository{db: db}
}

func (r *postgresManagerRepository) Create(ctx context.Context, m *models.Manager) error {
	query := `
		INSERT INTO managers (user_id, first_name, last_name, phone, email)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query, m.UserID, m.FirstName, m.LastName, m.Phone, m.Email).
		Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create manager: %w", err)
	}
	return nil
}

func (r *postgresManagerRepository) GetByID(ctx context.Context, id int) (*models.Manager, error) {
	query := `SELECT id, user_id, first_name, last_name, phone, email, created_at FROM managers WHERE id = $1`
	m := &models.Manager{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&m.ID, &m.UserID, &m.FirstName, &m.LastName, &m.Phone, &m.Email, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrManagerNotFound
		}
		return nil, fmt.Errorf("failed to scan manager %d: %w", id, err)
	}
	return m, nil
}

func (r *postgresManagerRepository) List(ctx context.Context, page Pagination) ([]models.Manager, error) {
	page = page.normalized()
	query := `
		SELECT id, user_id, first_name, last_name, phone, email, created_at
		FROM managers ORDER BY last_name, first_name OFFSET $1 LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, page.Skip, page.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	managers := make([]models.Manager, 0)
	for rows.Next() {
		var m models.Manager
		if err := rows.Scan(&m.ID, &m.UserID, &m.FirstName, &m.LastName, &m.Phone, &m.Email, &m.CreatedAt); err != nil {
			return nil, err
		}
		managers = append(managers, m)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return managers, nil
}
