package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/camma-system/models"
)

var ErrEventNotFound = errors.New("event not found")

type EventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	GetByID(ctx context.Context, id int) (*models.Event, error)
	List(ctx context.Context, page Pagination) ([]models.Event, error)
	Update(ctx context.Context, event *models.Event) error
	// IncrementConfirmedPairs вызывается в той же транзакции, что и вставка боя.
	IncrementConfirmedPairs(ctx context.Context, exec SQLExecutor, eventID int) error
	Count(ctx context.Context) (int, error)
	SumConfirmedPairs(ctx context.Context) (int, error)
}

type postgresEventRepository struct {
	db *sql.DB
}

func NewPostgresEventRepository(db *sql.DB) EventRepository {
	return &postgresEventRepository{db: db}
}

func (r *postgresEventRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const eventColumns = `id, name, event_type, event_date, venue, city, country, organizer_id,
	total_slots, confirmed_pairs, pending_applications, approved_without_pair,
	poster_url, description, created_at, updated_at`

func scanEvent(row interface{ Scan(...interface{}) error }) (*models.Event, error) {
	e := &models.Event{}
	err := row.Scan(
		&e.ID, &e.Name, &e.EventType, &e.EventDate, &e.Venue, &e.City, &e.Country, &e.OrganizerID,
		&e.TotalSlots, &e.ConfirmedPairs, &e.PendingApplications, &e.ApprovedWithoutPair,
		&e.PosterURL, &e.Description, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (r *postgresEventRepository) Create(ctx context.Context, e *models.Event) error {
	query := `
		INSERT INTO events (name, event_type, event_date, venue, city, country, organizer_id, total_slots, poster_url, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, confirmed_pairs, pending_applications, approved_without_pair, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		e.Name, e.EventType, e.EventDate, e.Venue, e.City, e.Country, e.OrganizerID, e.TotalSlots, e.PosterURL, e.Description,
	).Scan(&e.ID, &e.ConfirmedPairs, &e.PendingApplications, &e.ApprovedWithoutPair, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if code, _, ok := constraintViolation(err); ok && code == pqForeignKeyViolation {
			return ErrPromotionNotFound
		}
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}

func (r *postgresEventRepository) GetByID(ctx context.Context, id int) (*models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	e, err := scanEvent(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to scan event %d: %w", id, err)
	}
	return e, nil
}

func (r *postgresEventRepository) List(ctx context.Context, page Pagination) ([]models.Event, error) {
	page = page.normalized()
	query := `SELECT ` + eventColumns + ` FROM events ORDER BY event_date DESC, id OFFSET $1 LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, page.Skip, page.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]models.Event, 0)
	for rows.Next() {
		e, scanErr := scanEvent(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		events = append(events, *e)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

// Update не трогает confirmed_pairs: счётчик меняется только вместе с боями.
func (r *postgresEventRepository) Update(ctx context.Context, e *models.Event) error {
	query := `
		UPDATE events SET
			name = $1, event_type = $2, event_date = $3, venue = $4, city = $5, country = $6,
			organizer_id = $7, total_slots = $8, pending_applications = $9, approved_without_pair = $10,
			poster_url = $11, description = $12, updated_at = (NOW() AT TIME ZONE 'utc')
		WHERE id = $13
		RETURNING confirmed_pairs, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		e.Name, e.EventType, e.EventDate, e.Venue, e.City, e.Country,
		e.OrganizerID, e.TotalSlots, e.PendingApplications, e.ApprovedWithoutPair,
		e.PosterURL, e.Description, e.ID,
	).Scan(&e.ConfirmedPairs, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrEventNotFound
		}
		if code, _, ok := constraintViolation(err); ok && code == pqForeignKeyViolation {
			return ErrPromotionNotFound
		}
		return fmt.Errorf("failed to update event %d: %w", e.ID, err)
	}
	return nil
}

func (r *postgresEventRepository) IncrementConfirmedPairs(ctx context.Context, exec SQLExecutor, eventID int) error {
	query := `
		UPDATE events SET confirmed_pairs = confirmed_pairs + 1, updated_at = (NOW() AT TIME ZONE 'utc')
		WHERE id = $1`
	result, err := r.getExecutor(exec).ExecContext(ctx, query, eventID)
	if err != nil {
		return fmt.Errorf("failed to increment confirmed pairs for event %d: %w", eventID, err)
	}
	return checkAffectedRows(result, ErrEventNotFound)
}

func (r *postgresEventRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM events`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count events: %w", err)
	}
	return n, nil
}

func (r *postgresEventRepository) SumConfirmedPairs(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COALESCE(SUM(confirmed_pairs), 0) FROM events`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to sum confirmed pairs: %w", err)
	}
	return n, nil
}
