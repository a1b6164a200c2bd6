package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/camma-system/models"
)

var ErrPromotionNotFound = errors.New("promotion not found")

type PromotionRepository interface {
	Create(ctx context.Context, promotion *models.Promotion) error
	GetByID(ctx context.Context, id int) (*models.Promotion, error)
	List(ctx context.Context, page Pagination) ([]models.Promotion, error)
}

type postgresPromotionRepository struct {
	db *sql.DB
}

func NewPostgresPromotionRepository(db *sql.DB) PromotionRepository {
	return &postgresPromotionRepository{db: db}
}

func (r *postgresPromotionRepository) Create(ctx context.Context, p *models.Promotion) error {
	query := `
		INSERT INTO promotions (name, description, website, contact_email)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query, p.Name, p.Description, p.Website, p.ContactEmail).
		Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create promotion: %w", err)
	}
	return nil
}

func (r *postgresPromotionRepository) GetByID(ctx context.Context, id int) (*models.Promotion, error) {
	query := `SELECT id, name, description, website, contact_email, created_at FROM promotions WHERE id = $1`
	p := &models.Promotion{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.Description, &p.Website, &p.ContactEmail, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPromotionNotFound
		}
		return nil, fmt.Errorf("failed to scan promotion %d: %w", id, err)
	}
	return p, nil
}

func (r *postgresPromotionRepository) List(ctx context.Context, page Pagination) ([]models.Promotion, error) {
	page = page.normalized()
	query := `
		SELECT id, name, description, website, contact_email, created_at
		FROM promotions ORDER BY name ASC OFFSET $1 LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, page.Skip, page.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	promotions := make([]models.Promotion, 0)
	for rows.Next() {
		var p models.Promotion
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Website, &p.ContactEmail, &p.CreatedAt); err != nil {
			return nil, err
		}
		promotions = append(promotions, p)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return promotions, nil
}
