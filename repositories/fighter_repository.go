package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/camma-system/models"
)

var (
	ErrFighterNotFound         = errors.New("fighter not found")
	ErrFighterUserConflict     = errors.New("user already has a fighter profile")
	ErrFighterPassportConflict = errors.New("fighter passport id conflict")
	ErrFighterInvalidRelation  = errors.New("fighter references a missing club, trainer, manager or promotion")
)

type FighterRepository interface {
	Create(ctx context.Context, exec SQLExecutor, fighter *models.Fighter) error
	GetByID(ctx context.Context, id int) (*models.Fighter, error)
	GetByUserID(ctx context.Context, exec SQLExecutor, userID int) (*models.Fighter, error)
	List(ctx context.Context, page Pagination) ([]models.Fighter, error)
	Update(ctx context.Context, fighter *models.Fighter) error
	UpdatePhoto(ctx context.Context, id int, photoURL string) error
	CountAll(ctx context.Context) (int, error)
	CountVerified(ctx context.Context) (int, error)
	CountAvailable(ctx context.Context) (int, error)
}

type postgresFighterRepository struct {
	db *sql.DB
}

func NewPostgresFighterRepository(db *sql.DB) FighterRepository {
	return &postgresFighterRepository{db: db}
}

func (r *postgresFighterRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const fighterColumns = `id, user_id, fighter_id, first_name, last_name, middle_name, birth_date, birth_place,
	nationality, gender, height, weight_class, passport_series, passport_number, photo_url,
	wins, losses, draws, last_fight_date, verification_status, participation_status, is_verified,
	verification_date, verified_by, is_available, is_injured, injury_date,
	club_id, trainer_id, manager_id, promotion_id, created_at, updated_at`

func scanFighter(row interface{ Scan(...interface{}) error }) (*models.Fighter, error) {
	f := &models.Fighter{}
	err := row.Scan(
		&f.ID, &f.UserID, &f.FighterID, &f.FirstName, &f.LastName, &f.MiddleName, &f.BirthDate, &f.BirthPlace,
		&f.Nationality, &f.Gender, &f.Height, &f.WeightClass, &f.PassportSeries, &f.PassportNumber, &f.PhotoURL,
		&f.Wins, &f.Losses, &f.Draws, &f.LastFightDate, &f.VerificationStatus, &f.ParticipationStatus, &f.IsVerified,
		&f.VerificationDate, &f.VerifiedBy, &f.IsAvailable, &f.IsInjured, &f.InjuryDate,
		&f.ClubID, &f.TrainerID, &f.ManagerID, &f.PromotionID, &f.CreatedAt, &f.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (r *postgresFighterRepository) Create(ctx context.Context, exec SQLExecutor, f *models.Fighter) error {
	query := `
		INSERT INTO fighters (
			user_id, fighter_id, first_name, last_name, middle_name, birth_date, birth_place, nationality,
			gender, height, weight_class, passport_series, passport_number, wins, losses, draws,
			verification_status, participation_status, is_verified, is_available, is_injured,
			club_id, trainer_id, manager_id, promotion_id
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16,
			$17, $18, $19, $20, $21, $22, $23, $24, $25)
		RETURNING id, created_at, updated_at`

	err := r.getExecutor(exec).QueryRowContext(ctx, query,
		f.UserID, f.FighterID, f.FirstName, f.LastName, f.MiddleName, f.BirthDate, f.BirthPlace, f.Nationality,
		f.Gender, f.Height, f.WeightClass, f.PassportSeries, f.PassportNumber, f.Wins, f.Losses, f.Draws,
		f.VerificationStatus, f.ParticipationStatus, f.IsVerified, f.IsAvailable, f.IsInjured,
		f.ClubID, f.TrainerID, f.ManagerID, f.PromotionID,
	).Scan(&f.ID, &f.CreatedAt, &f.UpdatedAt)

	return handleFighterError(err)
}

func (r *postgresFighterRepository) GetByID(ctx context.Context, id int) (*models.Fighter, error) {
	query := `SELECT ` + fighterColumns + ` FROM fighters WHERE id = $1`
	f, err := scanFighter(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFighterNotFound
		}
		return nil, fmt.Errorf("failed to scan fighter %d: %w", id, err)
	}
	return f, nil
}

func (r *postgresFighterRepository) GetByUserID(ctx context.Context, exec SQLExecutor, userID int) (*models.Fighter, error) {
	query := `SELECT ` + fighterColumns + ` FROM fighters WHERE user_id = $1`
	f, err := scanFighter(r.getExecutor(exec).QueryRowContext(ctx, query, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFighterNotFound
		}
		return nil, fmt.Errorf("failed to scan fighter for user %d: %w", userID, err)
	}
	return f, nil
}

func (r *postgresFighterRepository) List(ctx context.Context, page Pagination) ([]models.Fighter, error) {
	page = page.normalized()
	query := `SELECT ` + fighterColumns + ` FROM fighters ORDER BY id OFFSET $1 LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, page.Skip, page.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	fighters := make([]models.Fighter, 0)
	for rows.Next() {
		f, scanErr := scanFighter(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		fighters = append(fighters, *f)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return fighters, nil
}

// Update перезаписывает все изменяемые поля; fighter_id, user_id и photo_url не трогает.
func (r *postgresFighterRepository) Update(ctx context.Context, f *models.Fighter) error {
	query := `
		UPDATE fighters SET
			first_name = $1, last_name = $2, middle_name = $3, birth_date = $4, birth_place = $5,
			nationality = $6, gender = $7, height = $8, weight_class = $9,
			passport_series = $10, passport_number = $11, wins = $12, losses = $13, draws = $14,
			last_fight_date = $15, verification_status = $16, participation_status = $17,
			is_verified = $18, verification_date = $19, verified_by = $20,
			is_available = $21, is_injured = $22, injury_date = $23,
			club_id = $24, trainer_id = $25, manager_id = $26, promotion_id = $27,
			updated_at = (NOW() AT TIME ZONE 'utc')
		WHERE id = $28
		RETURNING updated_at`

	err := r.db.QueryRowContext(ctx, query,
		f.FirstName, f.LastName, f.MiddleName, f.BirthDate, f.BirthPlace,
		f.Nationality, f.Gender, f.Height, f.WeightClass,
		f.PassportSeries, f.PassportNumber, f.Wins, f.Losses, f.Draws,
		f.LastFightDate, f.VerificationStatus, f.ParticipationStatus,
		f.IsVerified, f.VerificationDate, f.VerifiedBy,
		f.IsAvailable, f.IsInjured, f.InjuryDate,
		f.ClubID, f.TrainerID, f.ManagerID, f.PromotionID,
		f.ID,
	).Scan(&f.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrFighterNotFound
	}
	return handleFighterError(err)
}

func (r *postgresFighterRepository) UpdatePhoto(ctx context.Context, id int, photoURL string) error {
	query := `UPDATE fighters SET photo_url = $1, updated_at = (NOW() AT TIME ZONE 'utc') WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, photoURL, id)
	if err != nil {
		return fmt.Errorf("failed to update photo for fighter %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrFighterNotFound)
}

func (r *postgresFighterRepository) CountAll(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM fighters`)
}

func (r *postgresFighterRepository) CountVerified(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM fighters WHERE is_verified = TRUE`)
}

func (r *postgresFighterRepository) CountAvailable(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM fighters WHERE is_available = TRUE`)
}

func (r *postgresFighterRepository) count(ctx context.Context, query string) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count fighters: %w", err)
	}
	return n, nil
}

func handleFighterError(err error) error {
	if err == nil {
		return nil
	}
	code, constraint, ok := constraintViolation(err)
	if !ok {
		return err
	}
	switch code {
	case pqUniqueViolation:
		switch constraint {
		case "fighters_user_id_key":
			return ErrFighterUserConflict
		case "fighters_fighter_id_key":
			return ErrFighterPassportConflict
		}
	case pqForeignKeyViolation:
		return ErrFighterInvalidRelation
	}
	return err
}
