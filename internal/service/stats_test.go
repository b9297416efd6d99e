package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"subcity/internal/model"
	"subcity/internal/repository"
	"subcity/internal/repository/memory"
	repoMocks "subcity/internal/repository/mocks"
)

func TestStatsService_Stats(t *testing.T) {
	svc := NewStatsService(memory.New())

	stats, err := svc.Stats(context.Background())

	require.NoError(t, err)
	assert.Equal(t, &model.Stats{Employees: 4, Documents: 0, Investments: 3, Population: 45260}, stats)
}

func TestStatsService_Stats_Empty(t *testing.T) {
	svc := NewStatsService(memory.New(memory.WithSeed(false)))

	stats, err := svc.Stats(context.Background())

	require.NoError(t, err)
	assert.Equal(t, &model.Stats{}, stats)
}

func TestStatsService_Stats_Error(t *testing.T) {
	mRepo := new(repoMocks.MockStore)
	mRepo.On("EmployeeCount", mock.Anything).Return(4, nil)
	mRepo.On("DocumentCount", mock.Anything).Return(0, errors.New("db fail"))
	svc := NewStatsService(mRepo)

	_, err := svc.Stats(context.Background())

	assert.ErrorContains(t, err, "count documents: db fail")
	mRepo.AssertExpectations(t)
}

func TestStatsService_RecentActivities_DefaultLimit(t *testing.T) {
	mRepo := new(repoMocks.MockStore)
	mRepo.On("RecentActivities", mock.Anything, repository.DefaultRecentActivities).
		Return([]model.Activity{{ID: 1}}, nil)
	svc := NewStatsService(mRepo)

	got, err := svc.RecentActivities(context.Background(), -5)

	require.NoError(t, err)
	assert.Len(t, got, 1)
	mRepo.AssertExpectations(t)
}
