package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/konkursant/portal/internal/database/sqlitetest"
	"github.com/konkursant/portal/internal/middleware"
	"github.com/konkursant/portal/internal/statistics/model"
	userRepository "github.com/konkursant/portal/internal/user/repository"
)

func TestRegisterRoutes(t *testing.T) {
	db := sqlitetest.Open(t)
	logger := zap.NewNop().Sugar()

	applicant := sqlitetest.InsertUser(t, db, "a@konkursant.ru", "Иванов Иван", "user")
	reviewer := sqlitetest.InsertUser(t, db, "expert@konkursant.ru", "Петров Пётр", "reviewer")
	admin := sqlitetest.InsertUser(t, db, "admin@konkursant.ru", "Админ", "admin")
	project := sqlitetest.InsertProject(t, db, applicant, "Школьный технопарк")
	sqlitetest.InsertReview(t, db, project, reviewer, "current", map[string]int{"team_experience": 8})

	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group("/", middleware.Identity(userRepository.New(db, logger), logger))
	RegisterRoutes(api, db, logger)

	get := func(path string, userID int64) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set(middleware.UserIDHeader, strconv.FormatInt(userID, 10))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	t.Run("reviewers statistics", func(t *testing.T) {
		w := get("/statistics/reviewers", admin)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resp model.ReviewersStatisticsResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Equal(t, 1, resp.Total)
		assert.Equal(t, reviewer, resp.Reviewers[0].UserID)
		assert.Equal(t, 1, resp.Reviewers[0].ReviewCount)
	})

	t.Run("project statistics", func(t *testing.T) {
		w := get("/statistics/projects", reviewer)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resp model.ProjectStatisticsResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, 1, resp.Statistics.TotalProjects)
		assert.Equal(t, 1, resp.Statistics.ProjectsWith1Review)
		assert.Equal(t, 1.0, resp.Statistics.AverageReviewsPerProject)
	})

	t.Run("applicant is forbidden", func(t *testing.T) {
		assert.Equal(t, http.StatusForbidden, get("/statistics/reviewers", applicant).Code)
		assert.Equal(t, http.StatusForbidden, get("/statistics/projects", applicant).Code)
	})

	t.Run("missing identity", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/statistics/projects", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("non-existent route returns 404", func(t *testing.T) {
		assert.Equal(t, http.StatusNotFound, get("/statistics/nonexistent", admin).Code)
	})
}
