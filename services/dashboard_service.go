package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/Dosada05/camma-system/models"
	"github.com/Dosada05/camma-system/repositories"
)

type DashboardService interface {
	GetStats(ctx context.Context) (*models.DashboardStats, error)
	GetMatchmakingStats(ctx context.Context) (*models.MatchmakingStats, error)
}

type dashboardService struct {
	fighterRepo     repositories.FighterRepository
	eventRepo       repositories.EventRepository
	applicationRepo repositories.ApplicationRepository
	contractRepo    repositories.ContractRepository
	taskRepo        repositories.TaskRepository
}

func NewDashboardService(
	fighterRepo repositories.FighterRepository,
	eventRepo repositories.EventRepository,
	applicationRepo repositories.ApplicationRepository,
	contractRepo repositories.ContractRepository,
	taskRepo repositories.TaskRepository,
) DashboardService {
	return &dashboardService{
		fighterRepo:     fighterRepo,
		eventRepo:       eventRepo,
		applicationRepo: applicationRepo,
		contractRepo:    contractRepo,
		taskRepo:        taskRepo,
	}
}

// VerificationRate - процент верифицированных бойцов без округления; 0 при total == 0.
func VerificationRate(verified, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(verified) * 100 / float64(total)
}

func (s *dashboardService) GetStats(ctx context.Context) (*models.DashboardStats, error) {
	var stats models.DashboardStats

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.TotalFighters, err = s.fighterRepo.CountAll(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.VerifiedFighters, err = s.fighterRepo.CountVerified(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.ActiveFighters, err = s.fighterRepo.CountAvailable(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to collect fighter stats: %w", err)
	}

	stats.VerificationRate = VerificationRate(stats.VerifiedFighters, stats.TotalFighters)
	return &stats, nil
}

func (s *dashboardService) GetMatchmakingStats(ctx context.Context) (*models.MatchmakingStats, error) {
	var stats models.MatchmakingStats

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.TotalEvents, err = s.eventRepo.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.ConfirmedPairs, err = s.eventRepo.SumConfirmedPairs(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.ApplicationsByStatus, err = s.applicationRepo.CountByStatus(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.ActiveContracts, err = s.contractRepo.CountByStatus(gctx, models.ContractVerified)
		return err
	})
	g.Go(func() (err error) {
		stats.OpenTasks, err = s.taskRepo.CountOpen(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to collect matchmaking stats: %w", err)
	}

	stats.PendingApplications = stats.ApplicationsByStatus[models.ApplicationSubmitted] +
		stats.ApplicationsByStatus[models.ApplicationUnderMatchmakerReview]
	return &stats, nil
}
