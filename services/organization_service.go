package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dosada05/camma-system/models"
	"github.com/Dosada05/camma-system/repositories"
)

// OrganizationService ведёт справочники клубов, промоушенов, тренеров и менеджеров.
type OrganizationService interface {
	CreateClub(ctx context.Context, input ClubInput) (*models.Club, error)
	GetClub(ctx context.Context, id int) (*models.Club, error)
	ListClubs(ctx context.Context, page repositories.Pagination) ([]models.Club, error)

	CreatePromotion(ctx context.Context, input PromotionInput) (*models.Promotion, error)
	GetPromotion(ctx context.Context, id int) (*models.Promotion, error)
	ListPromotions(ctx context.Context, page repositories.Pagination) ([]models.Promotion, error)

	CreateTrainer(ctx context.Context, input TrainerInput) (*models.Trainer, error)
	GetTrainer(ctx context.Context, id int) (*models.Trainer, error)
	ListTrainers(ctx context.Context, page repositories.Pagination) ([]models.Trainer, error)

	CreateManager(ctx context.Context, input ManagerInput) (*models.Manager, error)
	GetManager(ctx context.Context, id int) (*models.Manager, error)
	ListManagers(ctx context.Context, page repositories.Pagination) ([]models.Manager, error)
}

type ClubInput struct {
	Name    string  `json:"name"`
	Address *string `json:"address"`
	City    *string `json:"city"`
	Country *string `json:"country"`
	Phone   *string `json:"phone"`
	Email   *string `json:"email"`
}

type PromotionInput struct {
	Name         string  `json:"name"`
	Description  *string `json:"description"`
	Website      *string `json:"website"`
	ContactEmail *string `json:"contact_email"`
}

type TrainerInput struct {
	UserID    *int    `json:"user_id"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Phone     *string `json:"phone"`
	Email     *string `json:"email"`
	ClubID    *int    `json:"club_id"`
}

type ManagerInput struct {
	UserID    *int    `json:"user_id"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Phone     *string `json:"phone"`
	Email     *string `json:"email"`
}

type organizationService struct {
	clubRepo      repositories.ClubRepository
	promotionRepo repositories.PromotionRepository
	trainerRepo   repositories.TrainerRepository
	managerRepo   repositories.ManagerRepository
	relations     *RelationChecker
}

func NewOrganizationService(
	clubRepo repositories.ClubRepository,
	promotionRepo repositories.PromotionRepository,
	trainerRepo repositories.TrainerRepository,
	managerRepo repositories.ManagerRepository,
	relations *RelationChecker,
) OrganizationService {
	return &organizationService{
		clubRepo:      clubRepo,
		promotionRepo: promotionRepo,
		trainerRepo:   trainerRepo,
		managerRepo:   managerRepo,
		relations:     relations,
	}
}

func (s *organizationService) CreateClub(ctx context.Context, in ClubInput) (*models.Club, error) {
	v := newValidator()
	v.length(in.Name, "name", 1, 200)
	v.optionalLength(in.City, "city", 100)
	v.optionalLength(in.Country, "country", 100)
	v.optionalLength(in.Phone, "phone", 20)
	v.optionalLength(in.Email, "email", 100)
	if err := v.err(); err != nil {
		return nil, err
	}

	club := &models.Club{
		Name:    in.Name,
		Address: in.Address,
		City:    in.City,
		Country: in.Country,
		Phone:   in.Phone,
		Email:   in.Email,
	}
	if err := s.clubRepo.Create(ctx, club); err != nil {
		return nil, err
	}
	return club, nil
}

func (s *organizationService) GetClub(ctx context.Context, id int) (*models.Club, error) {
	club, err := s.clubRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrClubNotFound) {
			return nil, ErrClubNotFound
		}
		return nil, err
	}
	return club, nil
}

func (s *organizationService) ListClubs(ctx context.Context, page repositories.Pagination) ([]models.Club, error) {
	return s.clubRepo.List(ctx, page)
}

func (s *organizationService) CreatePromotion(ctx context.Context, in PromotionInput) (*models.Promotion, error) {
	v := newValidator()
	v.length(in.Name, "name", 1, 200)
	v.optionalLength(in.Website, "website", 200)
	v.optionalLength(in.ContactEmail, "contact_email", 100)
	if err := v.err(); err != nil {
		return nil, err
	}

	promotion := &models.Promotion{
		Name:         in.Name,
		Description:  in.Description,
		Website:      in.Website,
		ContactEmail: in.ContactEmail,
	}
	if err := s.promotionRepo.Create(ctx, promotion); err != nil {
		return nil, err
	}
	return promotion, nil
}

func (s *organizationService) GetPromotion(ctx context.Context, id int) (*models.Promotion, error) {
	promotion, err := s.promotionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrPromotionNotFound) {
			return nil, ErrPromotionNotFound
		}
		return nil, err
	}
	return promotion, nil
}

func (s *organizationService) ListPromotions(ctx context.Context, page repositories.Pagination) ([]models.Promotion, error) {
	return s.promotionRepo.List(ctx, page)
}

func (s *organizationService) CreateTrainer(ctx context.Context, in TrainerInput) (*models.Trainer, error) {
	v := newValidator()
	v.length(in.FirstName, "first_name", 1, 100)
	v.length(in.LastName, "last_name", 1, 100)
	v.optionalLength(in.Phone, "phone", 20)
	v.optionalLength(in.Email, "email", 100)
	if err := v.err(); err != nil {
		return nil, err
	}
	if in.UserID != nil {
		if err := s.relations.User(ctx, *in.UserID); err != nil {
			return nil, err
		}
	}
	if err := s.relations.FighterRelations(ctx, in.ClubID, nil, nil, nil); err != nil {
		return nil, err
	}

	trainer := &models.Trainer{
		UserID:    in.UserID,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Phone:     in.Phone,
		Email:     in.Email,
		ClubID:    in.ClubID,
	}
	if err := s.trainerRepo.Create(ctx, trainer); err != nil {
		if errors.Is(err, repositories.ErrClubNotFound) {
			return nil, ErrClubNotFound
		}
		return nil, err
	}
	return trainer, nil
}

func (s *organizationService) GetTrainer(ctx context.Context, id int) (*models.Trainer, error) {
	trainer, err := s.trainerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTrainerNotFound) {
			return nil, ErrTrainerNotFound
		}
		return nil, err
	}
	return trainer, nil
}

func (s *organizationService) ListTrainers(ctx context.Context, page repositories.Pagination) ([]models.Trainer, error) {
	return s.trainerRepo.List(ctx, page)
}

func (s *organizationService) CreateManager(ctx context.Context, in ManagerInput) (*models.Manager, error) {
	v := newValidator()
	v.length(in.FirstName, "first_name", 1, 100)
	v.length(in.LastName, "last_name", 1, 100)
	v.optionalLength(in.Phone, "phone", 20)
	v.optionalLength(in.Email, "email", 100)
	if err := v.err(); err != nil {
		return nil, err
	}
	if in.UserID != nil {
		if err := s.relations.User(ctx, *in.UserID); err != nil {
			return nil, err
		}
	}

	manager := &models.Manager{
		UserID:    in.UserID,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Phone:     in.Phone,
		Email:     in.Email,
	}
	if err := s.managerRepo.Create(ctx, manager); err != nil {
		return nil, fmt.Errorf("failed to create manager: %w", err)
	}
	return manager, nil
}

func (s *organizationService) GetManager(ctx context.Context, id int) (*models.Manager, error) {
	manager, err := s.managerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrManagerNotFound) {
			return nil, ErrManagerNotFound
		}
		return nil, err
	}
	return manager, nil
}

func (s *organizationService) ListManagers(ctx context.Context, page repositories.Pagination) ([]models.Manager, error) {
	return s.managerRepo.List(ctx, page)
}
