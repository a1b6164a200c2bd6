package services

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/Dosada05/camma-system/repositories"
)

// --- Общие хелперы ---

func setIfNotNil[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// setPtrIfNotNil для nullable-полей: значение копируется, чтобы не держать ссылку на входную структуру.
func setPtrIfNotNil[T any](dst **T, src *T) {
	if src != nil {
		v := *src
		*dst = &v
	}
}

// readAllLimited читает весь файл в память. При max > 0 файл больше max даёт ErrFileTooLarge.
func readAllLimited(r io.Reader, max int64) ([]byte, error) {
	if max <= 0 {
		return io.ReadAll(r)
	}
	data, err := io.ReadAll(io.LimitReader(r, max+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > max {
		return nil, fmt.Errorf("%w: limit is %d bytes", ErrFileTooLarge, max)
	}
	return data, nil
}

// RelationChecker проверяет существование связанных записей до записи основной сущности.
type RelationChecker struct {
	Clubs      repositories.ClubRepository
	Trainers   repositories.TrainerRepository
	Managers   repositories.ManagerRepository
	Promotions repositories.PromotionRepository
	Fighters   repositories.FighterRepository
	Events     repositories.EventRepository
	Users      repositories.UserRepository
}

func (c *RelationChecker) FighterRelations(ctx context.Context, clubID, trainerID, managerID, promotionID *int) error {
	if clubID != nil {
		if _, err := c.Clubs.GetByID(ctx, *clubID); err != nil {
			return translateNotFound(err, repositories.ErrClubNotFound, ErrClubNotFound)
		}
	}
	if trainerID != nil {
		if _, err := c.Trainers.GetByID(ctx, *trainerID); err != nil {
			return translateNotFound(err, repositories.ErrTrainerNotFound, ErrTrainerNotFound)
		}
	}
	if managerID != nil {
		if _, err := c.Managers.GetByID(ctx, *managerID); err != nil {
			return translateNotFound(err, repositories.ErrManagerNotFound, ErrManagerNotFound)
		}
	}
	if promotionID != nil {
		return c.Promotion(ctx, *promotionID)
	}
	return nil
}

func (c *RelationChecker) Promotion(ctx context.Context, id int) error {
	if _, err := c.Promotions.GetByID(ctx, id); err != nil {
		return translateNotFound(err, repositories.ErrPromotionNotFound, ErrPromotionNotFound)
	}
	return nil
}

func (c *RelationChecker) Fighter(ctx context.Context, id int) error {
	if _, err := c.Fighters.GetByID(ctx, id); err != nil {
		return translateNotFound(err, repositories.ErrFighterNotFound, ErrFighterNotFound)
	}
	return nil
}

func (c *RelationChecker) Event(ctx context.Context, id int) error {
	if _, err := c.Events.GetByID(ctx, id); err != nil {
		return translateNotFound(err, repositories.ErrEventNotFound, ErrEventNotFound)
	}
	return nil
}

func (c *RelationChecker) User(ctx context.Context, id int) error {
	if _, err := c.Users.GetByID(ctx, id); err != nil {
		return translateNotFound(err, repositories.ErrUserNotFound, ErrUserNotFound)
	}
	return nil
}

func translateNotFound(err, repoErr, serviceErr error) error {
	if errors.Is(err, repoErr) {
		return serviceErr
	}
	return fmt.Errorf("failed to check related record: %w", err)
}
