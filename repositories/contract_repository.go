package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/camma-system/models"
)

var (
	ErrContractNotFound       = errors.New("contract not found")
	ErrContractNumberConflict = errors.New("contract number conflict")
)

type ContractRepository interface {
	Create(ctx context.Context, contract *models.Contract) error
	GetByID(ctx context.Context, id int) (*models.Contract, error)
	List(ctx context.Context, page Pagination) ([]models.Contract, error)
	Update(ctx context.Context, contract *models.Contract) error
	CountByStatus(ctx context.Context, status models.ContractStatus) (int, error)
}

type postgresContractRepository struct {
	db *sql.DB
}

func NewPostgresContractRepository(db *sql.DB) ContractRepository {
	return &postgresContractRepository{db: db}
}

const contractColumns = `id, contract_number, fighter_id, promotion_id, start_date, end_date, total_fights,
	remaining_fights, base_fee, win_bonus, per_fight_bonus, early_termination_penalty, status,
	verification_date, contract_file_url, created_at, updated_at`

func scanContract(row interface{ Scan(...interface{}) error }) (*models.Contract, error) {
	c := &models.Contract{}
	err := row.Scan(
		&c.ID, &c.ContractNumber, &c.FighterID, &c.PromotionID, &c.StartDate, &c.EndDate, &c.TotalFights,
		&c.RemainingFights, &c.BaseFee, &c.WinBonus, &c.PerFightBonus, &c.EarlyTerminationPenalty, &c.Status,
		&c.VerificationDate, &c.ContractFileURL, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *postgresContractRepository) Create(ctx context.Context, c *models.Contract) error {
	query := `
		INSERT INTO contracts (
			contract_number, fighter_id, promotion_id, start_date, end_date, total_fights, remaining_fights,
			base_fee, win_bonus, per_fight_bonus, early_termination_penalty, status, contract_file_url
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		c.ContractNumber, c.FighterID, c.PromotionID, c.StartDate, c.EndDate, c.TotalFights, c.RemainingFights,
		c.BaseFee, c.WinBonus, c.PerFightBonus, c.EarlyTerminationPenalty, c.Status, c.ContractFileURL,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)

	return handleContractError(err)
}

func (r *postgresContractRepository) GetByID(ctx context.Context, id int) (*models.Contract, error) {
	query := `SELECT ` + contractColumns + ` FROM contracts WHERE id = $1`
	c, err := scanContract(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrContractNotFound
		}
		return nil, fmt.Errorf("failed to scan contract %d: %w", id, err)
	}
	return c, nil
}

func (r *postgresContractRepository) List(ctx context.Context, page Pagination) ([]models.Contract, error) {
	page = page.normalized()
	query := `SELECT ` + contractColumns + ` FROM contracts ORDER BY id OFFSET $1 LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, page.Skip, page.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	contracts := make([]models.Contract, 0)
	for rows.Next() {
		c, scanErr := scanContract(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		contracts = append(contracts, *c)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return contracts, nil
}

// Update пишет все изменяемые поля. Параллельные продления не сериализуются: побеждает последний commit.
func (r *postgresContractRepository) Update(ctx context.Context, c *models.Contract) error {
	query := `
		UPDATE contracts SET
			end_date = $1, total_fights = $2, remaining_fights = $3,
			base_fee = $4, win_bonus = $5, per_fight_bonus = $6, early_termination_penalty = $7,
			status = $8, verification_date = $9, contract_file_url = $10,
			updated_at = (NOW() AT TIME ZONE 'utc')
		WHERE id = $11
		RETURNING updated_at`

	err := r.db.QueryRowContext(ctx, query,
		c.EndDate, c.TotalFights, c.RemainingFights,
		c.BaseFee, c.WinBonus, c.PerFightBonus, c.EarlyTerminationPenalty,
		c.Status, c.VerificationDate, c.ContractFileURL,
		c.ID,
	).Scan(&c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrContractNotFound
	}
	return handleContractError(err)
}

func (r *postgresContractRepository) CountByStatus(ctx context.Context, status models.ContractStatus) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM contracts WHERE status = $1`, status).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count contracts: %w", err)
	}
	return n, nil
}

func handleContractError(err error) error {
	if err == nil {
		return nil
	}
	if code, constraint, ok := constraintViolation(err); ok {
		if code == pqUniqueViolation && constraint == "contracts_contract_number_key" {
			return ErrContractNumberConflict
		}
	}
	return err
}
