package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Dosada05/camma-system/models"
)

type AchievementRepository interface {
	Create(ctx context.Context, achievement *models.Achievement) error
	ListByFighter(ctx context.Context, fighterID int) ([]models.Achievement, error)
}

type postgresAchievementRepository struct {
	db *sql.DB
}

func NewPostgresAchievementRepository(db *sql.DB) AchievementRepository {
	return &postgresAchievementRepository{db: db}
}

func (r *postgresAchievementRepository) Create(ctx context.Context, a *models.Achievement) error {
	query := `
		INSERT INTO achievements (fighter_id, title, description, date_achieved, certificate_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query, a.FighterID, a.Title, a.Description, a.DateAchieved, a.CertificateURL).
		Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		if code, _, ok := constraintViolation(err); ok && code == pqForeignKeyViolation {
			return ErrFighterNotFound
		}
		return fmt.Errorf("failed to create achievement: %w", err)
	}
	return nil
}

func (r *postgresAchievementRepository) ListByFighter(ctx context.Context, fighterID int) ([]models.Achievement, error) {
	query := `
		SELECT id, fighter_id, title, description, date_achieved, certificate_url, created_at
		FROM achievements WHERE fighter_id = $1
		ORDER BY date_achieved DESC NULLS LAST, id`

	rows, err := r.db.QueryContext(ctx, query, fighterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	achievements := make([]models.Achievement, 0)
	for rows.Next() {
		var a models.Achievement
		if err := rows.Scan(&a.ID, &a.FighterID, &a.Title, &a.Description, &a.DateAchieved, &a.CertificateURL, &a.CreatedAt); err != nil {
			return nil, err
		}
		achievements = append(achievements, a)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return achievements, nil
}
