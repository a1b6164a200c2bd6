package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/camma-system/models"
)

var ErrApplicationNotFound = errors.New("event application not found")

type ApplicationRepository interface {
	Create(ctx context.Context, app *models.EventApplication) error
	GetByID(ctx context.Context, id int) (*models.EventApplication, error)
	ListByEvent(ctx context.Context, eventID int) ([]models.EventApplication, error)
	Update(ctx context.Context, app *models.EventApplication) error
	CountByStatus(ctx context.Context) (map[models.ApplicationStatus]int, error)
}

type postgresApplicationRepository struct {
	db *sql.DB
}

func NewPostgresApplicationRepository(db *sql.DB) ApplicationRepository {
	return &postgresApplicationRepository{db: db}
}

const applicationColumns = `id, event_id, fighter_id, applicant_user_id, desired_weight_class, comments, status,
	medical_docs_url, antidoping_test_date, antidoping_test_result, antidoping_conducted_by, created_at, updated_at`

func scanApplication(row interface{ Scan(...interface{}) error }) (*models.EventApplication, error) {
	a := &models.EventApplication{}
	err := row.Scan(
		&a.ID, &a.EventID, &a.FighterID, &a.ApplicantUserID, &a.DesiredWeightClass, &a.Comments, &a.Status,
		&a.MedicalDocsURL, &a.AntidopingTestDate, &a.AntidopingTestResult, &a.AntidopingConductedBy,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *postgresApplicationRepository) Create(ctx context.Context, a *models.EventApplication) error {
	query := `
		INSERT INTO event_applications (event_id, fighter_id, applicant_user_id, desired_weight_class, comments, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		a.EventID, a.FighterID, a.ApplicantUserID, a.DesiredWeightClass, a.Comments, a.Status,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create event application: %w", err)
	}
	return nil
}

func (r *postgresApplicationRepository) GetByID(ctx context.Context, id int) (*models.EventApplication, error) {
	query := `SELECT ` + applicationColumns + ` FROM event_applications WHERE id = $1`
	a, err := scanApplication(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrApplicationNotFound
		}
		return nil, fmt.Errorf("failed to scan event application %d: %w", id, err)
	}
	return a, nil
}

func (r *postgresApplicationRepository) ListByEvent(ctx context.Context, eventID int) ([]models.EventApplication, error) {
	query := `SELECT ` + applicationColumns + ` FROM event_applications WHERE event_id = $1 ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	apps := make([]models.EventApplication, 0)
	for rows.Next() {
		a, scanErr := scanApplication(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		apps = append(apps, *a)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *postgresApplicationRepository) Update(ctx context.Context, a *models.EventApplication) error {
	query := `
		UPDATE event_applications SET
			desired_weight_class = $1, comments = $2, status = $3, medical_docs_url = $4,
			antidoping_test_date = $5, antidoping_test_result = $6, antidoping_conducted_by = $7,
			updated_at = (NOW() AT TIME ZONE 'utc')
		WHERE id = $8
		RETURNING updated_at`

	err := r.db.QueryRowContext(ctx, query,
		a.DesiredWeightClass, a.Comments, a.Status, a.MedicalDocsURL,
		a.AntidopingTestDate, a.AntidopingTestResult, a.AntidopingConductedBy,
		a.ID,
	).Scan(&a.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrApplicationNotFound
		}
		return fmt.Errorf("failed to update event application %d: %w", a.ID, err)
	}
	return nil
}

// CountByStatus возвращает счётчики по всем известным статусам, включая нулевые.
func (r *postgresApplicationRepository) CountByStatus(ctx context.Context) (map[models.ApplicationStatus]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM event_applications GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[models.ApplicationStatus]int, len(models.ApplicationStatuses))
	for _, s := range models.ApplicationStatuses {
		counts[s] = 0
	}
	for rows.Next() {
		var status models.ApplicationStatus
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return counts, nil
}
