package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/camma-system/models"
)

var ErrClubNotFound = errors.New("club not found")

type ClubRepository interface {
	Create(ctx context.Context, club *models.Club) error
	GetByID(ctx context.Context, id int) (*models.Club, error)
	List(ctx context.Context, page Pagination) ([]models.Club, error)
}

type postgresClubRepository struct {
	db *sql.DB
}

func NewPostgresClubRepository(db *sql.DB) ClubRepository {
	return &postgresClubRepository{db: db}
}

func (r *postgresClubRepository) Create(ctx context.Context, club *models.Club) error {
	query := `
		INSERT INTO clubs (name, address, city, country, phone, email)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		club.Name, club.Address, club.City, club.Country, club.Phone, club.Email,
	).Scan(&club.ID, &club.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create club: %w", err)
	}
	return nil
}

func (r *postgresClubRepository) GetByID(ctx context.Context, id int) (*models.Club, error) {
	query := `SELECT id, name, address, city, country, phone, email, created_at FROM clubs WHERE id = $1`
	club := &models.Club{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&club.ID, &club.Name, &club.Address, &club.City, &club.Country, &club.Phone, &club.Email, &club.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrClubNotFound
		}
		return nil, fmt.Errorf("failed to scan club %d: %w", id, err)
	}
	return club, nil
}

func (r *postgresClubRepository) List(ctx context.Context, page Pagination) ([]models.Club, error) {
	page = page.normalized()
	query := `
		SELECT id, name, address, city, country, phone, email, created_at
		FROM clubs ORDER BY name ASC OFFSET $1 LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, page.Skip, page.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	clubs := make([]models.Club, 0)
	for rows.Next() {
		var c models.Club
		if err := rows.Scan(&c.ID, &c.Name, &c.Address, &c.City, &c.Country, &c.Phone, &c.Email, &c.CreatedAt); err != nil {
			return nil, err
		}
		clubs = append(clubs, c)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return clubs, nil
}
