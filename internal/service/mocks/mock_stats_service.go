package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"subcity/internal/model"
	"subcity/internal/service"
)

type MockStatsService struct {
	mock.Mock
}

var _ service.StatsService = (*MockStatsService)(nil)

func (m *MockStatsService) Stats(ctx context.Context) (*model.Stats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Stats), args.Error(1)
}

func (m *MockStatsService) RecentActivities(ctx context.Context, limit int) ([]model.Activity, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Activity), args.Error(1)
}
