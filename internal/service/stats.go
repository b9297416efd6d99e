package service

import (
	"context"
	"fmt"

	"subcity/internal/model"
	"subcity/internal/repository"
)

// StatsService serves the admin dashboard.
type StatsService interface {
	Stats(ctx context.Context) (*model.Stats, error)
	RecentActivities(ctx context.Context, limit int) ([]model.Activity, error)
}

type statsService struct {
	repo repository.Store
}

func NewStatsService(repo repository.Store) StatsService {
	return &statsService{repo: repo}
}

func (s *statsService) Stats(ctx context.Context) (*model.Stats, error) {
	var out model.Stats
	var err error
	if out.Employees, err = s.repo.EmployeeCount(ctx); err != nil {
		return nil, fmt.Errorf("count employees: %w", err)
	}
	if out.Documents, err = s.repo.DocumentCount(ctx); err != nil {
		return nil, fmt.Errorf("count documents: %w", err)
	}
	if out.Investments, err = s.repo.InvestmentCount(ctx); err != nil {
		return nil, fmt.Errorf("count investments: %w", err)
	}
	if out.Population, err = s.repo.TotalPopulation(ctx); err != nil {
		return nil, fmt.Errorf("total population: %w", err)
	}
	return &out, nil
}

// RecentActivities returns the newest entries; a non-positive limit uses the store default.
func (s *statsService) RecentActivities(ctx context.Context, limit int) ([]model.Activity, error) {
	if limit <= 0 {
		limit = repository.DefaultRecentActivities
	}
	return s.repo.RecentActivities(ctx, limit)
}
