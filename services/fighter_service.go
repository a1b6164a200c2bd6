package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/Dosada05/camma-system/models"
	"github.com/Dosada05/camma-system/repositories"
	"github.com/Dosada05/camma-system/storage"
	"github.com/google/uuid"
)

type FighterService interface {
	CreateFighter(ctx context.Context, userID int, input CreateFighterInput) (*models.Fighter, error)
	GetFighter(ctx context.Context, id int) (*models.Fighter, error)
	ListFighters(ctx context.Context, page repositories.Pagination) ([]models.Fighter, error)
	UpdateFighter(ctx context.Context, id int, input FighterUpdate) (*models.Fighter, error)
	SetVerification(ctx context.Context, id int, input VerificationInput) (*models.Fighter, error)
	UploadPhoto(ctx context.Context, id int, filename string, size int64, file io.Reader) (string, error)
	RegisterByThirdParty(ctx context.Context, input ThirdPartyRegistrationInput) (*models.RegistrationResult, error)
	AddAchievement(ctx context.Context, fighterID int, input AchievementInput) (*models.Achievement, error)
	ListAchievements(ctx context.Context, fighterID int) ([]models.Achievement, error)
}

type CreateFighterInput struct {
	FirstName      string        `json:"first_name"`
	LastName       string        `json:"last_name"`
	MiddleName     *string       `json:"middle_name"`
	BirthDate      models.Date   `json:"birth_date"`
	BirthPlace     *string       `json:"birth_place"`
	Nationality    *string       `json:"nationality"`
	Gender         models.Gender `json:"gender"`
	Height         *int          `json:"height"`
	WeightClass    *string       `json:"weight_class"`
	Wins           int           `json:"wins"`
	Losses         int           `json:"losses"`
	Draws          int           `json:"draws"`
	PassportSeries *string       `json:"passport_series"`
	PassportNumber *string       `json:"passport_number"`
	ClubID         *int          `json:"club_id"`
	TrainerID      *int          `json:"trainer_id"`
	ManagerID      *int          `json:"manager_id"`
	PromotionID    *int          `json:"promotion_id"`
}

// FighterUpdate перечисляет изменяемые поля; nil означает "не менять".
type FighterUpdate struct {
	FirstName           *string                     `json:"first_name"`
	LastName            *string                     `json:"last_name"`
	MiddleName          *string                     `json:"middle_name"`
	BirthDate           *models.Date                `json:"birth_date"`
	BirthPlace          *string                     `json:"birth_place"`
	Nationality         *string                     `json:"nationality"`
	Gender              *models.Gender              `json:"gender"`
	Height              *int                        `json:"height"`
	WeightClass         *string                     `json:"weight_class"`
	Wins                *int                        `json:"wins"`
	Losses              *int                        `json:"losses"`
	Draws               *int                        `json:"draws"`
	LastFightDate       *models.Date                `json:"last_fight_date"`
	PassportSeries      *string                     `json:"passport_series"`
	PassportNumber      *string                     `json:"passport_number"`
	ParticipationStatus *models.ParticipationStatus `json:"participation_status"`
	IsAvailable         *bool                       `json:"is_available"`
	IsInjured           *bool                       `json:"is_injured"`
	InjuryDate          *models.Date                `json:"injury_date"`
	ClubID              *int                        `json:"club_id"`
	TrainerID           *int                        `json:"trainer_id"`
	ManagerID           *int                        `json:"manager_id"`
	PromotionID         *int                        `json:"promotion_id"`
}

type VerificationInput struct {
	Status     models.VerificationStatus `json:"status"`
	VerifiedBy *string                   `json:"verified_by"`
}

type ThirdPartyRegistrationInput struct {
	PhoneNumber string `json:"phone_number"`
	CreateFighterInput
}

type AchievementInput struct {
	Title          string       `json:"title"`
	Description    *string      `json:"description"`
	DateAchieved   *models.Date `json:"date_achieved"`
	CertificateURL *string      `json:"certificate_url"`
}

type FighterServiceDeps struct {
	Tx              repositories.Transactor
	FighterRepo     repositories.FighterRepository
	UserRepo        repositories.UserRepository
	AchievementRepo repositories.AchievementRepository
	Relations       *RelationChecker
	Uploader        storage.FileUploader
	MaxUploadSize   int64
	Metrics         *DomainMetrics
	Logger          *slog.Logger
}

type fighterService struct {
	FighterServiceDeps
	now           func() time.Time
	newPassportID func() string
}

func NewFighterService(deps FighterServiceDeps) FighterService {
	return &fighterService{
		FighterServiceDeps: deps,
		now:                time.Now,
		newPassportID:      NewFighterPassportID,
	}
}

// NewFighterPassportID - CAMMA + 8 hex-символов в верхнем регистре.
// Повтор не предусмотрен: коллизия всплывает как ErrFighterIDConflict.
func NewFighterPassportID() string {
	id := uuid.New()
	return fmt.Sprintf("%s%X", models.FighterPassportPrefix, id[:4])
}

func validateFighterInput(v *validator, in CreateFighterInput) {
	v.length(in.FirstName, "first_name", 1, 100)
	v.length(in.LastName, "last_name", 1, 100)
	v.optionalLength(in.MiddleName, "middle_name", 100)
	v.check(!in.BirthDate.IsZero(), "birth_date", "is required")
	v.optionalLength(in.BirthPlace, "birth_place", 200)
	v.optionalLength(in.Nationality, "nationality", 100)
	v.check(in.Gender.IsValid(), "gender", "must be one of М, Ж")
	if in.Height != nil {
		v.check(*in.Height >= 120 && *in.Height <= 250, "height", "must be between 120 and 250 cm")
	}
	v.optionalLength(in.WeightClass, "weight_class", 50)
	v.check(in.Wins >= 0, "wins", "must not be negative")
	v.check(in.Losses >= 0, "losses", "must not be negative")
	v.check(in.Draws >= 0, "draws", "must not be negative")
	v.optionalLength(in.PassportSeries, "passport_series", 10)
	v.optionalLength(in.PassportNumber, "passport_number", 20)
}

func (s *fighterService) newFighter(userID *int, in CreateFighterInput) *models.Fighter {
	return &models.Fighter{
		UserID:              userID,
		FighterID:           s.newPassportID(),
		FirstName:           in.FirstName,
		LastName:            in.LastName,
		MiddleName:          in.MiddleName,
		BirthDate:           in.BirthDate,
		BirthPlace:          in.BirthPlace,
		Nationality:         in.Nationality,
		Gender:              in.Gender,
		Height:              in.Height,
		WeightClass:         in.WeightClass,
		PassportSeries:      in.PassportSeries,
		PassportNumber:      in.PassportNumber,
		Wins:                in.Wins,
		Losses:              in.Losses,
		Draws:               in.Draws,
		VerificationStatus:  models.VerificationUnderReview,
		ParticipationStatus: models.ParticipationFreeAgent,
		IsAvailable:         true,
		ClubID:              in.ClubID,
		TrainerID:           in.TrainerID,
		ManagerID:           in.ManagerID,
		PromotionID:         in.PromotionID,
	}
}

func (s *fighterService) CreateFighter(ctx context.Context, userID int, input CreateFighterInput) (*models.Fighter, error) {
	v := newValidator()
	validateFighterInput(v, input)
	if err := v.err(); err != nil {
		return nil, err
	}
	if err := s.Relations.FighterRelations(ctx, input.ClubID, input.TrainerID, input.ManagerID, input.PromotionID); err != nil {
		return nil, err
	}

	fighter := s.newFighter(&userID, input)
	if err := s.FighterRepo.Create(ctx, nil, fighter); err != nil {
		return nil, mapFighterRepoError(err)
	}
	return fighter, nil
}

func (s *fighterService) GetFighter(ctx context.Context, id int) (*models.Fighter, error) {
	fighter, err := s.FighterRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapFighterRepoError(err)
	}
	return fighter, nil
}

func (s *fighterService) ListFighters(ctx context.Context, page repositories.Pagination) ([]models.Fighter, error) {
	fighters, err := s.FighterRepo.List(ctx, page)
	if err != nil {
		return nil, fmt.Errorf("failed to list fighters: %w", err)
	}
	return fighters, nil
}

func (s *fighterService) UpdateFighter(ctx context.Context, id int, in FighterUpdate) (*models.Fighter, error) {
	fighter, err := s.FighterRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapFighterRepoError(err)
	}

	setIfNotNil(&fighter.FirstName, in.FirstName)
	setIfNotNil(&fighter.LastName, in.LastName)
	setPtrIfNotNil(&fighter.MiddleName, in.MiddleName)
	setIfNotNil(&fighter.BirthDate, in.BirthDate)
	setPtrIfNotNil(&fighter.BirthPlace, in.BirthPlace)
	setPtrIfNotNil(&fighter.Nationality, in.Nationality)
	setIfNotNil(&fighter.Gender, in.Gender)
	setPtrIfNotNil(&fighter.Height, in.Height)
	setPtrIfNotNil(&fighter.WeightClass, in.WeightClass)
	setIfNotNil(&fighter.Wins, in.Wins)
	setIfNotNil(&fighter.Losses, in.Losses)
	setIfNotNil(&fighter.Draws, in.Draws)
	setPtrIfNotNil(&fighter.LastFightDate, in.LastFightDate)
	setPtrIfNotNil(&fighter.PassportSeries, in.PassportSeries)
	setPtrIfNotNil(&fighter.PassportNumber, in.PassportNumber)
	setIfNotNil(&fighter.ParticipationStatus, in.ParticipationStatus)
	setIfNotNil(&fighter.IsAvailable, in.IsAvailable)
	setIfNotNil(&fighter.IsInjured, in.IsInjured)
	setPtrIfNotNil(&fighter.InjuryDate, in.InjuryDate)
	setPtrIfNotNil(&fighter.ClubID, in.ClubID)
	setPtrIfNotNil(&fighter.TrainerID, in.TrainerID)
	setPtrIfNotNil(&fighter.ManagerID, in.ManagerID)
	setPtrIfNotNil(&fighter.PromotionID, in.PromotionID)

	v := newValidator()
	validateFighterInput(v, CreateFighterInput{
		FirstName: fighter.FirstName, LastName: fighter.LastName, MiddleName: fighter.MiddleName,
		BirthDate: fighter.BirthDate, BirthPlace: fighter.BirthPlace, Nationality: fighter.Nationality,
		Gender: fighter.Gender, Height: fighter.Height, WeightClass: fighter.WeightClass,
		Wins: fighter.Wins, Losses: fighter.Losses, Draws: fighter.Draws,
		PassportSeries: fighter.PassportSeries, PassportNumber: fighter.PassportNumber,
	})
	v.check(fighter.ParticipationStatus.IsValid(), "participation_status", "unknown participation status")
	if err := v.err(); err != nil {
		return nil, err
	}
	if err := s.Relations.FighterRelations(ctx, in.ClubID, in.TrainerID, in.ManagerID, in.PromotionID); err != nil {
		return nil, err
	}

	if err := s.FighterRepo.Update(ctx, fighter); err != nil {
		return nil, mapFighterRepoError(err)
	}
	return fighter, nil
}

// SetVerification меняет статус проверки; is_verified следует за статусом VERIFIED.
func (s *fighterService) SetVerification(ctx context.Context, id int, in VerificationInput) (*models.Fighter, error) {
	if !in.Status.IsValid() {
		return nil, fmt.Errorf("%w: verification status %q", ErrInvalidStatus, in.Status)
	}
	fighter, err := s.FighterRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapFighterRepoError(err)
	}

	now := s.now().UTC()
	fighter.VerificationStatus = in.Status
	fighter.IsVerified = in.Status == models.VerificationVerified
	fighter.VerificationDate = &now
	fighter.VerifiedBy = in.VerifiedBy

	if err := s.FighterRepo.Update(ctx, fighter); err != nil {
		return nil, mapFighterRepoError(err)
	}
	return fighter, nil
}

// UploadPhoto читает файл целиком в память, затем сохраняет его и обновляет photo_url.
func (s *fighterService) UploadPhoto(ctx context.Context, id int, filename string, size int64, file io.Reader) (string, error) {
	if s.MaxUploadSize > 0 && size > s.MaxUploadSize {
		return "", fmt.Errorf("%w: limit is %d bytes", ErrFileTooLarge, s.MaxUploadSize)
	}
	contentType, err := storage.ImageContentType(filename)
	if err != nil {
		return "", fmt.Errorf("%w: only .jpg, .jpeg, .png and .gif are allowed", ErrInvalidFileType)
	}

	if _, err := s.FighterRepo.GetByID(ctx, id); err != nil {
		return "", mapFighterRepoError(err)
	}

	data, err := readAllLimited(file, s.MaxUploadSize)
	if err != nil {
		return "", err
	}

	key := storage.FighterPhotoKey(id, filename)
	result, err := s.Uploader.Upload(ctx, key, contentType, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to store fighter photo: %w", err)
	}

	if err := s.FighterRepo.UpdatePhoto(ctx, id, result.Location); err != nil {
		if delErr := s.Uploader.Delete(context.Background(), key); delErr != nil {
			s.Logger.WarnContext(ctx, "failed to remove orphaned photo", slog.String("key", key), slog.Any("error", delErr))
		}
		return "", mapFighterRepoError(err)
	}
	s.Metrics.uploadStored("fighter_photo")
	return result.Location, nil
}

// RegisterByThirdParty находит или создаёт пользователя по телефону и заводит ему профиль бойца.
// Если профиль уже есть, возвращается success=false без ошибки.
func (s *fighterService) RegisterByThirdParty(ctx context.Context, in ThirdPartyRegistrationInput) (*models.RegistrationResult, error) {
	phone, err := NormalizePhone(in.PhoneNumber)
	v := newValidator()
	v.check(err == nil, "phone_number", "must be a valid international phone number")
	validateFighterInput(v, in.CreateFighterInput)
	v.check(in.PassportSeries != nil && *in.PassportSeries != "", "passport_series", "is required")
	v.check(in.PassportNumber != nil && *in.PassportNumber != "", "passport_number", "is required")
	v.check(in.Height != nil, "height", "is required")
	v.check(in.WeightClass != nil && *in.WeightClass != "", "weight_class", "is required")
	if err := v.err(); err != nil {
		return nil, err
	}
	if err := s.Relations.FighterRelations(ctx, in.ClubID, in.TrainerID, in.ManagerID, in.PromotionID); err != nil {
		return nil, err
	}

	var result *models.RegistrationResult
	err = s.Tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		user, err := s.UserRepo.GetByPhone(ctx, exec, phone)
		switch {
		case errors.Is(err, repositories.ErrUserNotFound):
			user = &models.User{PhoneNumber: phone, Role: models.RoleFighter, IsActive: true}
			if err := s.UserRepo.Create(ctx, exec, user); err != nil {
				if errors.Is(err, repositories.ErrUserPhoneConflict) {
					return ErrPhoneConflict
				}
				return fmt.Errorf("failed to create user: %w", err)
			}
		case err != nil:
			return fmt.Errorf("failed to find user by phone: %w", err)
		default:
			if _, err := s.FighterRepo.GetByUserID(ctx, exec, user.ID); err == nil {
				result = &models.RegistrationResult{
					Success: false,
					Message: "Пользователь с этим номером уже зарегистрирован как боец",
				}
				return nil
			} else if !errors.Is(err, repositories.ErrFighterNotFound) {
				return fmt.Errorf("failed to check existing fighter: %w", err)
			}
		}

		fighter := s.newFighter(&user.ID, in.CreateFighterInput)
		if err := s.FighterRepo.Create(ctx, exec, fighter); err != nil {
			return mapFighterRepoError(err)
		}
		result = &models.RegistrationResult{
			Success:              true,
			Message:              "Боец зарегистрирован и ожидает проверки",
			FighterID:            &fighter.ID,
			VerificationRequired: true,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *fighterService) AddAchievement(ctx context.Context, fighterID int, in AchievementInput) (*models.Achievement, error) {
	v := newValidator()
	v.length(in.Title, "title", 1, 200)
	v.optionalLength(in.CertificateURL, "certificate_url", 500)
	if err := v.err(); err != nil {
		return nil, err
	}
	if _, err := s.FighterRepo.GetByID(ctx, fighterID); err != nil {
		return nil, mapFighterRepoError(err)
	}

	achievement := &models.Achievement{
		FighterID:      fighterID,
		Title:          in.Title,
		Description:    in.Description,
		DateAchieved:   in.DateAchieved,
		CertificateURL: in.CertificateURL,
	}
	if err := s.AchievementRepo.Create(ctx, achievement); err != nil {
		return nil, mapFighterRepoError(err)
	}
	return achievement, nil
}

func (s *fighterService) ListAchievements(ctx context.Context, fighterID int) ([]models.Achievement, error) {
	if _, err := s.FighterRepo.GetByID(ctx, fighterID); err != nil {
		return nil, mapFighterRepoError(err)
	}
	items, err := s.AchievementRepo.ListByFighter(ctx, fighterID)
	if err != nil {
		return nil, fmt.Errorf("failed to list achievements: %w", err)
	}
	return items, nil
}

func mapFighterRepoError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrFighterNotFound):
		return ErrFighterNotFound
	case errors.Is(err, repositories.ErrFighterUserConflict):
		return ErrFighterProfileExists
	case errors.Is(err, repositories.ErrFighterPassportConflict):
		return ErrFighterIDConflict
	case errors.Is(err, repositories.ErrFighterInvalidRelation):
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	default:
		return err
	}
}
