package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/konkursant/portal/internal/middleware"
	"github.com/konkursant/portal/internal/review/aggregate"
	"github.com/konkursant/portal/internal/review/model"
	"github.com/konkursant/portal/internal/review/service"
	userModel "github.com/konkursant/portal/internal/user/model"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) Schemas() model.SchemaResponse {
	args := m.Called()
	return args.Get(0).(model.SchemaResponse)
}

func (m *mockService) CreateReview(
	ctx context.Context,
	actor *userModel.User,
	projectID int64,
	record model.ReviewRecord,
) (*model.ReviewRecord, error) {
	args := m.Called(ctx, actor, projectID, record)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ReviewRecord), args.Error(1)
}

func (m *mockService) GetProjectReviews(
	ctx context.Context,
	actor *userModel.User,
	projectID int64,
) (*model.ReviewsResponse, error) {
	args := m.Called(ctx, actor, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ReviewsResponse), args.Error(1)
}

func (m *mockService) GetVerifiedReviews(ctx context.Context, actor *userModel.User) (*model.ReviewsResponse, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ReviewsResponse), args.Error(1)
}

func (m *mockService) GetProjectSummary(
	ctx context.Context,
	actor *userModel.User,
	projectID int64,
) (*aggregate.ProjectSummary, error) {
	args := m.Called(ctx, actor, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*aggregate.ProjectSummary), args.Error(1)
}

func (m *mockService) GetVerifiedSummaries(ctx context.Context, actor *userModel.User) (*aggregate.Report, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*aggregate.Report), args.Error(1)
}

var _ service.Service = (*mockService)(nil)

var reviewer = &userModel.User{ID: 5, FullName: "Петров Пётр", Role: userModel.RoleReviewer, IsActive: true}

func setupRouter(svc service.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		middleware.SetCurrentUser(c, reviewer)
		c.Next()
	})

	h := New(svc, zap.NewNop().Sugar())
	r.GET("/reviews/schema", h.Schemas)
	r.POST("/reviews/create_review/:project_id", h.CreateReview)
	r.GET("/reviews/verified_projects", h.GetVerifiedReviews)
	r.GET("/reviews/verified_projects/summary", h.GetVerifiedSummaries)
	r.GET("/reviews/:project_id", h.GetProjectReviews)
	r.GET("/reviews/:project_id/summary", h.GetProjectSummary)
	return r
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Error.Code
}

func TestHandler_Schemas(t *testing.T) {
	mockSvc := new(mockService)
	mockSvc.On("Schemas").Return(model.SchemaResponse{
		Active:  model.SchemaCurrent,
		Schemas: []model.Schema{{Version: model.SchemaCurrent}},
	})

	w := httptest.NewRecorder()
	setupRouter(mockSvc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/reviews/schema", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"active":"current"`)
}

func TestHandler_CreateReview(t *testing.T) {
	body := `{"team_experience": 8, "budget_realism": "6", "feedback": "Хороший проект"}`

	tests := []struct {
		name           string
		path           string
		body           string
		setupMock      func(*mockService)
		expectedStatus int
		expectedCode   string
	}{
		{
			name: "success",
			path: "/reviews/create_review/10",
			body: body,
			setupMock: func(m *mockService) {
				m.On("CreateReview", mock.Anything, reviewer, int64(10), mock.MatchedBy(func(r model.ReviewRecord) bool {
					return r.Scores[model.KeyTeamExperience] == model.NewScore(8) &&
						r.Scores[model.KeyBudgetRealism] == model.NewScore(6) &&
						r.Feedback == "Хороший проект"
				})).Return(&model.ReviewRecord{
					ProjectID:  10,
					ReviewerID: reviewer.ID,
					Scores:     map[string]model.Score{model.KeyTeamExperience: model.NewScore(8)},
					Status:     model.StatusFinalized,
				}, nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "invalid project id",
			path:           "/reviews/create_review/x",
			body:           body,
			setupMock:      func(m *mockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "INVALID_REQUEST",
		},
		{
			name:           "malformed body",
			path:           "/reviews/create_review/10",
			body:           `[1, 2]`,
			setupMock:      func(m *mockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "INVALID_REQUEST",
		},
		{
			name: "invalid score",
			path: "/reviews/create_review/10",
			body: body,
			setupMock: func(m *mockService) {
				m.On("CreateReview", mock.Anything, reviewer, int64(10), mock.Anything).
					Return(nil, &model.ScoreError{Key: model.KeyPlannedExpenses, Reason: "missing"})
			},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "INVALID_REQUEST",
		},
		{
			name: "not a reviewer",
			path: "/reviews/create_review/10",
			body: body,
			setupMock: func(m *mockService) {
				m.On("CreateReview", mock.Anything, reviewer, int64(10), mock.Anything).Return(nil, model.ErrNotReviewer)
			},
			expectedStatus: http.StatusForbidden,
			expectedCode:   "FORBIDDEN",
		},
		{
			name: "project not found",
			path: "/reviews/create_review/10",
			body: body,
			setupMock: func(m *mockService) {
				m.On("CreateReview", mock.Anything, reviewer, int64(10), mock.Anything).Return(nil, model.ErrProjectNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedCode:   "NOT_FOUND",
		},
		{
			name: "already reviewed",
			path: "/reviews/create_review/10",
			body: body,
			setupMock: func(m *mockService) {
				m.On("CreateReview", mock.Anything, reviewer, int64(10), mock.Anything).Return(nil, model.ErrReviewExists)
			},
			expectedStatus: http.StatusConflict,
			expectedCode:   "REVIEW_EXISTS",
		},
		{
			name: "limit reached",
			path: "/reviews/create_review/10",
			body: body,
			setupMock: func(m *mockService) {
				m.On("CreateReview", mock.Anything, reviewer, int64(10), mock.Anything).
					Return(nil, model.ErrReviewLimitReached)
			},
			expectedStatus: http.StatusConflict,
			expectedCode:   "REVIEW_LIMIT",
		},
		{
			name: "internal error",
			path: "/reviews/create_review/10",
			body: body,
			setupMock: func(m *mockService) {
				m.On("CreateReview", mock.Anything, reviewer, int64(10), mock.Anything).Return(nil, errors.New("db down"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedCode:   "INTERNAL_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := new(mockService)
			tt.setupMock(mockSvc)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, tt.path, bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			setupRouter(mockSvc).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedCode != "" {
				assert.Equal(t, tt.expectedCode, errorCode(t, w))
			} else {
				var fields map[string]any
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fields))
				assert.Equal(t, float64(8), fields[model.KeyTeamExperience])
				assert.Equal(t, model.StatusFinalized, fields["status"])
			}
			mockSvc.AssertExpectations(t)
		})
	}
}

func TestHandler_GetProjectReviews(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		mockSvc := new(mockService)
		mockSvc.On("GetProjectReviews", mock.Anything, reviewer, int64(10)).Return(&model.ReviewsResponse{
			Reviews: []model.ReviewRecord{{ProjectID: 10, ReviewerID: 7}},
		}, nil)

		w := httptest.NewRecorder()
		setupRouter(mockSvc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/reviews/10", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		var resp model.ReviewsResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Reviews, 1)
		assert.Equal(t, int64(7), resp.Reviews[0].ReviewerID)
	})

	t.Run("forbidden", func(t *testing.T) {
		mockSvc := new(mockService)
		mockSvc.On("GetProjectReviews", mock.Anything, reviewer, int64(10)).Return(nil, model.ErrAccessDenied)

		w := httptest.NewRecorder()
		setupRouter(mockSvc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/reviews/10", nil))

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestHandler_GetVerifiedReviews(t *testing.T) {
	mockSvc := new(mockService)
	mockSvc.On("GetVerifiedReviews", mock.Anything, reviewer).Return(&model.ReviewsResponse{
		Reviews: []model.ReviewRecord{{ProjectID: 1}, {ProjectID: 2}},
	}, nil)

	w := httptest.NewRecorder()
	setupRouter(mockSvc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/reviews/verified_projects", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestHandler_GetProjectSummary(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		mockSvc := new(mockService)
		mockSvc.On("GetProjectSummary", mock.Anything, reviewer, int64(10)).Return(&aggregate.ProjectSummary{
			ProjectID:         10,
			ReviewerCount:     2,
			AverageOfAverages: 6.83,
		}, nil)

		w := httptest.NewRecorder()
		setupRouter(mockSvc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/reviews/10/summary", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		var summary aggregate.ProjectSummary
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
		assert.Equal(t, 6.83, summary.AverageOfAverages)
	})

	t.Run("fetch failure", func(t *testing.T) {
		mockSvc := new(mockService)
		mockSvc.On("GetProjectSummary", mock.Anything, reviewer, int64(10)).
			Return(nil, errors.New("fetch reviews: timeout"))

		w := httptest.NewRecorder()
		setupRouter(mockSvc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/reviews/10/summary", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "timeout")
	})
}

func TestHandler_GetVerifiedSummaries(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		mockSvc := new(mockService)
		mockSvc.On("GetVerifiedSummaries", mock.Anything, reviewer).Return(&aggregate.Report{
			Projects: []aggregate.ProjectSummary{{ProjectID: 1}, {ProjectID: 2}},
		}, nil)

		w := httptest.NewRecorder()
		setupRouter(mockSvc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/reviews/verified_projects/summary", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		var report aggregate.Report
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
		assert.Len(t, report.Projects, 2)
	})

	t.Run("forbidden", func(t *testing.T) {
		mockSvc := new(mockService)
		mockSvc.On("GetVerifiedSummaries", mock.Anything, reviewer).Return(nil, model.ErrAccessDenied)

		w := httptest.NewRecorder()
		setupRouter(mockSvc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/reviews/verified_projects/summary", nil))

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "FORBIDDEN", errorCode(t, w))
	})
}
