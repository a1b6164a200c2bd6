package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Dosada05/camma-system/models"
	"github.com/Dosada05/camma-system/repositories"
)

type ContractService interface {
	CreateContract(ctx context.Context, input CreateContractInput) (*models.Contract, error)
	GetContract(ctx context.Context, id int) (*models.Contract, error)
	ListContracts(ctx context.Context, page repositories.Pagination) ([]models.Contract, error)
	UpdateContract(ctx context.Context, id int, input ContractUpdate) (*models.Contract, error)
	ExtendContract(ctx context.Context, input ContractExtensionInput) (*models.Contract, error)
}

type CreateContractInput struct {
	ContractNumber string      `json:"contract_number"`
	FighterID      int         `json:"fighter_id"`
	PromotionID    int         `json:"promotion_id"`
	StartDate      models.Date `json:"start_date"`
	EndDate        models.Date `json:"end_date"`
	TotalFights    int         `json:"total_fights"`
	models.ContractTerms
	ContractFileURL *string `json:"contract_file_url"`
}

type ContractUpdate struct {
	Status          *models.ContractStatus `json:"status"`
	EndDate         *models.Date           `json:"end_date"`
	RemainingFights *int                   `json:"remaining_fights"`
	ContractFileURL *string                `json:"contract_file_url"`
	models.ContractTerms
}

type ContractExtensionInput struct {
	ContractID       int                   `json:"contract_id"`
	NewEndDate       models.Date           `json:"new_end_date"`
	AdditionalFights int                   `json:"additional_fights"`
	NewTerms         *models.ContractTerms `json:"new_terms"`
}

type contractService struct {
	contractRepo repositories.ContractRepository
	relations    *RelationChecker
	now          func() time.Time
}

func NewContractService(contractRepo repositories.ContractRepository, relations *RelationChecker) ContractService {
	return &contractService{
		contractRepo: contractRepo,
		relations:    relations,
		now:          time.Now,
	}
}

func validateTerms(v *validator, t models.ContractTerms) {
	nonNegative := func(p *float64, field string) {
		if p != nil {
			v.check(*p >= 0, field, "must not be negative")
		}
	}
	nonNegative(t.BaseFee, "base_fee")
	nonNegative(t.WinBonus, "win_bonus")
	nonNegative(t.PerFightBonus, "per_fight_bonus")
	nonNegative(t.EarlyTerminationPenalty, "early_termination_penalty")
}

func applyTerms(c *models.Contract, t models.ContractTerms) {
	setPtrIfNotNil(&c.BaseFee, t.BaseFee)
	setPtrIfNotNil(&c.WinBonus, t.WinBonus)
	setPtrIfNotNil(&c.PerFightBonus, t.PerFightBonus)
	setPtrIfNotNil(&c.EarlyTerminationPenalty, t.EarlyTerminationPenalty)
}

func (s *contractService) CreateContract(ctx context.Context, in CreateContractInput) (*models.Contract, error) {
	v := newValidator()
	v.length(in.ContractNumber, "contract_number", 1, 100)
	v.check(!in.StartDate.IsZero(), "start_date", "is required")
	v.check(!in.EndDate.IsZero(), "end_date", "is required")
	v.check(!in.EndDate.Before(in.StartDate.Time), "end_date", "must not be before start_date")
	v.check(in.TotalFights >= 1, "total_fights", "must be at least 1")
	validateTerms(v, in.ContractTerms)
	if err := v.err(); err != nil {
		return nil, err
	}

	if err := s.relations.Fighter(ctx, in.FighterID); err != nil {
		return nil, err
	}
	if err := s.relations.Promotion(ctx, in.PromotionID); err != nil {
		return nil, err
	}

	contract := &models.Contract{
		ContractNumber:  in.ContractNumber,
		FighterID:       in.FighterID,
		PromotionID:     in.PromotionID,
		StartDate:       in.StartDate,
		EndDate:         in.EndDate,
		TotalFights:     in.TotalFights,
		RemainingFights: in.TotalFights,
		Status:          models.ContractUnderReview,
		ContractFileURL: in.ContractFileURL,
	}
	applyTerms(contract, in.ContractTerms)

	if err := s.contractRepo.Create(ctx, contract); err != nil {
		return nil, mapContractRepoError(err)
	}
	return contract, nil
}

func (s *contractService) GetContract(ctx context.Context, id int) (*models.Contract, error) {
	contract, err := s.contractRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapContractRepoError(err)
	}
	return contract, nil
}

func (s *contractService) ListContracts(ctx context.Context, page repositories.Pagination) ([]models.Contract, error) {
	contracts, err := s.contractRepo.List(ctx, page)
	if err != nil {
		return nil, fmt.Errorf("failed to list contracts: %w", err)
	}
	return contracts, nil
}

// UpdateContract принимает любой статус из набора; VERIFIED проставляет verification_date.
func (s *contractService) UpdateContract(ctx context.Context, id int, in ContractUpdate) (*models.Contract, error) {
	v := newValidator()
	if in.Status != nil {
		v.check(in.Status.IsValid(), "status", "unknown contract status")
	}
	validateTerms(v, in.ContractTerms)
	if err := v.err(); err != nil {
		return nil, err
	}

	contract, err := s.contractRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapContractRepoError(err)
	}

	if in.Status != nil {
		contract.Status = *in.Status
		if *in.Status == models.ContractVerified {
			now := s.now().UTC()
			contract.VerificationDate = &now
		}
	}
	setIfNotNil(&contract.EndDate, in.EndDate)
	setIfNotNil(&contract.RemainingFights, in.RemainingFights)
	setPtrIfNotNil(&contract.ContractFileURL, in.ContractFileURL)
	applyTerms(contract, in.ContractTerms)

	v = newValidator()
	v.check(contract.RemainingFights >= 0 && contract.RemainingFights <= contract.TotalFights,
		"remaining_fights", "must be between 0 and total_fights")
	v.check(!contract.EndDate.Before(contract.StartDate.Time), "end_date", "must not be before start_date")
	if err := v.err(); err != nil {
		return nil, err
	}

	if err := s.contractRepo.Update(ctx, contract); err != nil {
		return nil, mapContractRepoError(err)
	}
	return contract, nil
}

// ExtendContract добавляет бои к общему и оставшемуся числу и переносит дату окончания.
func (s *contractService) ExtendContract(ctx context.Context, in ContractExtensionInput) (*models.Contract, error) {
	if in.AdditionalFights < 0 {
		return nil, ErrNegativeExtension
	}
	v := newValidator()
	v.check(!in.NewEndDate.IsZero(), "new_end_date", "is required")
	if in.NewTerms != nil {
		validateTerms(v, *in.NewTerms)
	}
	if err := v.err(); err != nil {
		return nil, err
	}

	contract, err := s.contractRepo.GetByID(ctx, in.ContractID)
	if err != nil {
		return nil, mapContractRepoError(err)
	}

	contract.EndDate = in.NewEndDate
	contract.TotalFights += in.AdditionalFights
	contract.RemainingFights += in.AdditionalFights
	if in.NewTerms != nil {
		applyTerms(contract, *in.NewTerms)
	}

	if err := s.contractRepo.Update(ctx, contract); err != nil {
		return nil, mapContractRepoError(err)
	}
	return contract, nil
}

func mapContractRepoError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrContractNotFound):
		return ErrContractNotFound
	case errors.Is(err, repositories.ErrContractNumberConflict):
		return ErrContractNumberConflict
	default:
		return err
	}
}
