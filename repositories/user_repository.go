package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Dosada05/camma-system/models"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserPhoneConflict = errors.New("user phone number conflict")
	ErrUserEmailConflict = errors.New("user email conflict")
	ErrOTPNotConsumed    = errors.New("otp code was not consumed")
)

type UserRepository interface {
	Create(ctx context.Context, exec SQLExecutor, user *models.User) error
	GetByID(ctx context.Context, id int) (*models.User, error)
	GetByPhone(ctx context.Context, exec SQLExecutor, phone string) (*models.User, error)
	// UpsertOTP создаёт пользователя с указанной ролью или обновляет OTP существующего.
	UpsertOTP(ctx context.Context, phone string, role models.UserRole, code string, expiresAt time.Time) (*models.User, error)
	// ConsumeOTP очищает OTP и помечает пользователя проверенным, только если код всё ещё равен code.
	ConsumeOTP(ctx context.Context, id int, code string) error
	List(ctx context.Context, page Pagination) ([]models.User, error)
}

type postgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUserRepository(db *sql.DB) UserRepository {
	return &postgresUserRepository{db: db}
}

func (r *postgresUserRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const userColumns = `id, phone_number, email, role, is_active, is_verified, otp_code, otp_expires_at, created_at, updated_at`

func scanUser(row interface{ Scan(...interface{}) error }) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID,
		&user.PhoneNumber,
		&user.Email,
		&user.Role,
		&user.IsActive,
		&user.IsVerified,
		&user.OTPCode,
		&user.OTPExpiresAt,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *postgresUserRepository) Create(ctx context.Context, exec SQLExecutor, user *models.User) error {
	query := `
		INSERT INTO users (phone_number, email, role, is_active, is_verified)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`

	err := r.getExecutor(exec).QueryRowContext(ctx, query,
		user.PhoneNumber,
		user.Email,
		user.Role,
		user.IsActive,
		user.IsVerified,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)

	return handleUserError(err)
}

func (r *postgresUserRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	user, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to scan user %d: %w", id, err)
	}
	return user, nil
}

func (r *postgresUserRepository) GetByPhone(ctx context.Context, exec SQLExecutor, phone string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE phone_number = $1`
	user, err := scanUser(r.getExecutor(exec).QueryRowContext(ctx, query, phone))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to scan user by phone: %w", err)
	}
	return user, nil
}

func (r *postgresUserRepository) UpsertOTP(ctx context.Context, phone string, role models.UserRole, code string, expiresAt time.Time) (*models.User, error) {
	query := `
		INSERT INTO users (phone_number, role, otp_code, otp_expires_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (phone_number) DO UPDATE SET
			otp_code = EXCLUDED.otp_code,
			otp_expires_at = EXCLUDED.otp_expires_at,
			updated_at = (NOW() AT TIME ZONE 'utc')
		RETURNING ` + userColumns

	user, err := scanUser(r.db.QueryRowContext(ctx, query, phone, role, code, expiresAt))
	if err != nil {
		return nil, fmt.Errorf("failed to upsert otp for user: %w", err)
	}
	return user, nil
}

func (r *postgresUserRepository) ConsumeOTP(ctx context.Context, id int, code string) error {
	query := `
		UPDATE users SET
			otp_code = NULL,
			otp_expires_at = NULL,
			is_verified = TRUE,
			updated_at = (NOW() AT TIME ZONE 'utc')
		WHERE id = $1 AND otp_code = $2`

	result, err := r.db.ExecContext(ctx, query, id, code)
	if err != nil {
		return fmt.Errorf("failed to consume otp for user %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrOTPNotConsumed)
}

func (r *postgresUserRepository) List(ctx context.Context, page Pagination) ([]models.User, error) {
	page = page.normalized()
	query := `SELECT ` + userColumns + ` FROM users ORDER BY id OFFSET $1 LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, page.Skip, page.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]models.User, 0)
	for rows.Next() {
		user, scanErr := scanUser(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		users = append(users, *user)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

func handleUserError(err error) error {
	if err == nil {
		return nil
	}
	if code, constraint, ok := constraintViolation(err); ok && code == pqUniqueViolation {
		switch constraint {
		case "users_phone_number_key":
			return ErrUserPhoneConflict
		case "users_email_key":
			return ErrUserEmailConflict
		}
	}
	return err
}
