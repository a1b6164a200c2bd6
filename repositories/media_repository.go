package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Dosada05/camma-system/models"
)

type MediaRepository interface {
	Create(ctx context.Context, media *models.MediaContent) error
	ListByEvent(ctx context.Context, eventID int) ([]models.MediaContent, error)
}

type postgresMediaRepository struct {
	db *sql.DB
}

func NewPostgresMediaRepository(db *sql.DB) MediaRepository {
	return &postgresMediaRepository{db: db}
}

func (r *postgresMediaRepository) Create(ctx context.Context, m *models.MediaContent) error {
	tags, err := models.EncodeStringList(m.Tags)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO media_content (event_id, title, file_url, file_type, tags, description, uploaded_by_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	err = r.db.QueryRowContext(ctx, query,
		m.EventID, m.Title, m.FileURL, m.FileType, tags, m.Description, m.UploadedByID,
	).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		if code, _, ok := constraintViolation(err); ok && code == pqForeignKeyViolation {
			return ErrEventNotFound
		}
		return fmt.Errorf("failed to create media content: %w", err)
	}
	if m.Tags == nil {
		m.Tags = []string{}
	}
	return nil
}

func (r *postgresMediaRepository) ListByEvent(ctx context.Context, eventID int) ([]models.MediaContent, error) {
	query := `
		SELECT id, event_id, title, file_url, file_type, tags, description, uploaded_by_id, created_at
		FROM media_content WHERE event_id = $1 ORDER BY created_at DESC, id`

	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]models.MediaContent, 0)
	for rows.Next() {
		var m models.MediaContent
		var tags *string
		if err := rows.Scan(&m.ID, &m.EventID, &m.Title, &m.FileURL, &m.FileType, &tags, &m.Description, &m.UploadedByID, &m.CreatedAt); err != nil {
			return nil, err
		}
		if m.Tags, err = models.DecodeStringList(tags); err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
