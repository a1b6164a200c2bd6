package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/camma-system/models"
)

var ErrFightNotFound = errors.New("fight not found")

type FightRepository interface {
	Create(ctx context.Context, exec SQLExecutor, fight *models.Fight) error
	GetByID(ctx context.Context, id int) (*models.Fight, error)
	ListByEvent(ctx context.Context, eventID int) ([]models.Fight, error)
	UpdateResult(ctx context.Context, fight *models.Fight) error
}

type postgresFightRepository struct {
	db *sql.DB
}

func NewPostgresFightRepository(db *sql.DB) FightRepository {
	return &postgresFightRepository{db: db}
}

func (r *postgresFightRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const fightColumns = `id, event_id, fighter1_id, fighter2_id, fight_number, weight_class, rounds, round_duration,
	winner_id, result, method, round_ended, time_ended, video_url, highlight_url, created_at, updated_at`

func scanFight(row interface{ Scan(...interface{}) error }) (*models.Fight, error) {
	f := &models.Fight{}
	err := row.Scan(
		&f.ID, &f.EventID, &f.Fighter1ID, &f.Fighter2ID, &f.FightNumber, &f.WeightClass, &f.Rounds, &f.RoundDuration,
		&f.WinnerID, &f.Result, &f.Method, &f.RoundEnded, &f.TimeEnded, &f.VideoURL, &f.HighlightURL,
		&f.CreatedAt, &f.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (r *postgresFightRepository) Create(ctx context.Context, exec SQLExecutor, f *models.Fight) error {
	query := `
		INSERT INTO fights (event_id, fighter1_id, fighter2_id, fight_number, weight_class, rounds, round_duration)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`

	err := r.getExecutor(exec).QueryRowContext(ctx, query,
		f.EventID, f.Fighter1ID, f.Fighter2ID, f.FightNumber, f.WeightClass, f.Rounds, f.RoundDuration,
	).Scan(&f.ID, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		if code, _, ok := constraintViolation(err); ok && code == pqForeignKeyViolation {
			return ErrEventNotFound
		}
		return fmt.Errorf("failed to create fight: %w", err)
	}
	return nil
}

func (r *postgresFightRepository) GetByID(ctx context.Context, id int) (*models.Fight, error) {
	query := `SELECT ` + fightColumns + ` FROM fights WHERE id = $1`
	f, err := scanFight(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFightNotFound
		}
		return nil, fmt.Errorf("failed to scan fight %d: %w", id, err)
	}
	return f, nil
}

func (r *postgresFightRepository) ListByEvent(ctx context.Context, eventID int) ([]models.Fight, error) {
	query := `SELECT ` + fightColumns + ` FROM fights WHERE event_id = $1 ORDER BY fight_number NULLS LAST, id`

	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	fights := make([]models.Fight, 0)
	for rows.Next() {
		f, scanErr := scanFight(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		fights = append(fights, *f)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return fights, nil
}

func (r *postgresFightRepository) UpdateResult(ctx context.Context, f *models.Fight) error {
	query := `
		UPDATE fights SET
			winner_id = $1, result = $2, method = $3, round_ended = $4, time_ended = $5,
			video_url = $6, highlight_url = $7, updated_at = (NOW() AT TIME ZONE 'utc')
		WHERE id = $8
		RETURNING updated_at`

	err := r.db.QueryRowContext(ctx, query,
		f.WinnerID, f.Result, f.Method, f.RoundEnded, f.TimeEnded, f.VideoURL, f.HighlightURL, f.ID,
	).Scan(&f.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrFightNotFound
		}
		return fmt.Errorf("failed to update fight result %d: %w", f.ID, err)
	}
	return nil
}
