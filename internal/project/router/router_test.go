package router

import (
	"bytes"
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
	"github.com/konkursant/portal/internal/project/model"
	userRepository "github.com/konkursant/portal/internal/user/repository"
)

func TestRegisterRoutes(t *testing.T) {
	db := sqlitetest.Open(t)
	logger := zap.NewNop().Sugar()

	applicant := sqlitetest.InsertUser(t, db, "a@konkursant.ru", "Иванов Иван", "user")
	other := sqlitetest.InsertUser(t, db, "b@konkursant.ru", "Смирнова Ольга", "user")
	reviewer := sqlitetest.InsertUser(t, db, "expert@konkursant.ru", "Петров Пётр", "reviewer")
	sqlitetest.InsertProject(t, db, other, "Чужой проект")

	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group("/", middleware.Identity(userRepository.New(db, logger), logger))
	RegisterRoutes(api, db, logger)

	do := func(method, path string, userID int64, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(middleware.UserIDHeader, strconv.FormatInt(userID, 10))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := do(http.MethodPost, "/projects/create", applicant, `{"title":"Школьный технопарк"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created model.ProjectWithOwner
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, model.StatusAwaitingReview, created.Status)
	assert.Equal(t, "Иванов Иван", created.OwnerFullName)

	t.Run("applicant lists only own projects", func(t *testing.T) {
		w := do(http.MethodGet, "/projects/all_access_projects", applicant, "")
		require.Equal(t, http.StatusOK, w.Code)

		var resp model.ListProjectsResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Projects, 1)
		assert.Equal(t, created.ID, resp.Projects[0].ID)
	})

	t.Run("reviewer lists all projects", func(t *testing.T) {
		w := do(http.MethodGet, "/projects/all_access_projects", reviewer, "")
		require.Equal(t, http.StatusOK, w.Code)

		var resp model.ListProjectsResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Len(t, resp.Projects, 2)
	})

	t.Run("other applicant cannot read or delete", func(t *testing.T) {
		path := "/projects/" + strconv.FormatInt(created.ID, 10)
		assert.Equal(t, http.StatusForbidden, do(http.MethodGet, path, other, "").Code)
		assert.Equal(t, http.StatusForbidden,
			do(http.MethodDelete, "/projects/delete/"+strconv.FormatInt(created.ID, 10), other, "").Code)
	})

	t.Run("owner deletes", func(t *testing.T) {
		w := do(http.MethodDelete, "/projects/delete/"+strconv.FormatInt(created.ID, 10), applicant, "")
		assert.Equal(t, http.StatusOK, w.Code)

		w = do(http.MethodGet, "/projects/"+strconv.FormatInt(created.ID, 10), applicant, "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("anonymous request is rejected", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/projects/all_access_projects", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
