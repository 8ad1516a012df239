package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/konkursant/portal/internal/statistics/model"
	"github.com/konkursant/portal/internal/statistics/repository"
	userModel "github.com/konkursant/portal/internal/user/model"
)

// mockRepository is a mock implementation of repository.Repository for unit tests.
type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) GetReviewersStatistics(ctx context.Context) ([]model.ReviewerStatistics, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ReviewerStatistics), args.Error(1)
}

func (m *mockRepository) GetProjectStatistics(ctx context.Context) (*model.ProjectStatistics, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProjectStatistics), args.Error(1)
}

var _ repository.Repository = (*mockRepository)(nil)

var (
	reviewer  = &userModel.User{ID: 2, Role: userModel.RoleReviewer, IsActive: true}
	admin     = &userModel.User{ID: 3, Role: userModel.RoleAdmin, IsActive: true}
	applicant = &userModel.User{ID: 4, Role: userModel.RoleUser, IsActive: true}
)

func TestService_GetReviewersStatistics(t *testing.T) {
	ctx := context.Background()

	t.Run("success with reviewers", func(t *testing.T) {
		mockRepo := new(mockRepository)
		svc := New(mockRepo, zap.NewNop().Sugar())

		mockRepo.On("GetReviewersStatistics", ctx).Return([]model.ReviewerStatistics{
			{UserID: 2, FullName: "Алиса Котова", Role: "reviewer", ReviewCount: 5, IsActive: true},
			{UserID: 7, FullName: "Борис Лебедев", Role: "reviewer", ReviewCount: 3, IsActive: true},
		}, nil)

		resp, err := svc.GetReviewersStatistics(ctx, reviewer)

		require.NoError(t, err)
		assert.Equal(t, 2, resp.Total)
		require.Len(t, resp.Reviewers, 2)
		assert.Equal(t, int64(2), resp.Reviewers[0].UserID)
		assert.Equal(t, 5, resp.Reviewers[0].ReviewCount)
		mockRepo.AssertExpectations(t)
	})

	t.Run("nil list becomes empty", func(t *testing.T) {
		mockRepo := new(mockRepository)
		svc := New(mockRepo, zap.NewNop().Sugar())

		mockRepo.On("GetReviewersStatistics", ctx).Return([]model.ReviewerStatistics(nil), nil)

		resp, err := svc.GetReviewersStatistics(ctx, admin)

		require.NoError(t, err)
		assert.Equal(t, 0, resp.Total)
		assert.NotNil(t, resp.Reviewers)
	})

	t.Run("applicant is denied", func(t *testing.T) {
		mockRepo := new(mockRepository)
		svc := New(mockRepo, zap.NewNop().Sugar())

		resp, err := svc.GetReviewersStatistics(ctx, applicant)

		assert.ErrorIs(t, err, model.ErrAccessDenied)
		assert.Nil(t, resp)
		mockRepo.AssertNotCalled(t, "GetReviewersStatistics", mock.Anything)
	})

	t.Run("repository error", func(t *testing.T) {
		mockRepo := new(mockRepository)
		svc := New(mockRepo, zap.NewNop().Sugar())

		repoErr := errors.New("database error")
		mockRepo.On("GetReviewersStatistics", ctx).Return(nil, repoErr)

		resp, err := svc.GetReviewersStatistics(ctx, reviewer)

		assert.ErrorIs(t, err, repoErr)
		assert.Nil(t, resp)
	})
}

func TestService_GetProjectStatistics(t *testing.T) {
	ctx := context.Background()

	t.Run("rounds the average", func(t *testing.T) {
		mockRepo := new(mockRepository)
		svc := New(mockRepo, zap.NewNop().Sugar())

		mockRepo.On("GetProjectStatistics", ctx).Return(&model.ProjectStatistics{
			TotalProjects:            3,
			AwaitingReview:           1,
			Reviewed:                 2,
			AverageReviewsPerProject: 5.0 / 3.0,
			ProjectsWith0Reviews:     1,
			ProjectsWith2Reviews:     1,
			ProjectsWith3PlusReviews: 1,
		}, nil)

		resp, err := svc.GetProjectStatistics(ctx, admin)

		require.NoError(t, err)
		assert.Equal(t, 3, resp.Statistics.TotalProjects)
		assert.Equal(t, 1.67, resp.Statistics.AverageReviewsPerProject)
		assert.Equal(t, 1, resp.Statistics.ProjectsWith3PlusReviews)
		mockRepo.AssertExpectations(t)
	})

	t.Run("missing actor is denied", func(t *testing.T) {
		mockRepo := new(mockRepository)
		svc := New(mockRepo, zap.NewNop().Sugar())

		_, err := svc.GetProjectStatistics(ctx, nil)

		assert.ErrorIs(t, err, model.ErrAccessDenied)
	})

	t.Run("repository error", func(t *testing.T) {
		mockRepo := new(mockRepository)
		svc := New(mockRepo, zap.NewNop().Sugar())

		repoErr := errors.New("database error")
		mockRepo.On("GetProjectStatistics", ctx).Return(nil, repoErr)

		resp, err := svc.GetProjectStatistics(ctx, reviewer)

		assert.ErrorIs(t, err, repoErr)
		assert.Nil(t, resp)
	})
}
