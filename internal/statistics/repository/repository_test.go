package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/konkursant/portal/internal/database/sqlitetest"
)

var scores = map[string]int{"team_experience": 8}

type fixture struct {
	db        *gorm.DB
	repo      Repository
	applicant int64
	alice     int64
	bob       int64
	idle      int64
}

func setup(t *testing.T) fixture {
	t.Helper()
	db := sqlitetest.Open(t)
	return fixture{
		db:        db,
		repo:      New(db, zap.NewNop().Sugar()),
		applicant: sqlitetest.InsertUser(t, db, "a@konkursant.ru", "Иванов Иван", "user"),
		alice:     sqlitetest.InsertUser(t, db, "alice@konkursant.ru", "Алиса Котова", "reviewer"),
		bob:       sqlitetest.InsertUser(t, db, "bob@konkursant.ru", "Борис Лебедев", "reviewer"),
		idle:      sqlitetest.InsertUser(t, db, "idle@konkursant.ru", "Павел Сидоров", "reviewer"),
	}
}

func TestGetReviewersStatistics(t *testing.T) {
	ctx := context.Background()

	t.Run("empty database", func(t *testing.T) {
		db := sqlitetest.Open(t)
		stats, err := New(db, zap.NewNop().Sugar()).GetReviewersStatistics(ctx)
		require.NoError(t, err)
		assert.NotNil(t, stats)
		assert.Empty(t, stats)
	})

	t.Run("counts reviews per reviewer", func(t *testing.T) {
		f := setup(t)
		p1 := sqlitetest.InsertProject(t, f.db, f.applicant, "Технопарк")
		p2 := sqlitetest.InsertProject(t, f.db, f.applicant, "Библиотека")
		sqlitetest.InsertReview(t, f.db, p1, f.bob, "current", scores)
		sqlitetest.InsertReview(t, f.db, p2, f.bob, "current", scores)
		sqlitetest.InsertReview(t, f.db, p1, f.alice, "current", scores)

		stats, err := f.repo.GetReviewersStatistics(ctx)
		require.NoError(t, err)
		require.Len(t, stats, 3)

		assert.Equal(t, f.bob, stats[0].UserID)
		assert.Equal(t, "Борис Лебедев", stats[0].FullName)
		assert.Equal(t, "reviewer", stats[0].Role)
		assert.Equal(t, 2, stats[0].ReviewCount)
		assert.True(t, stats[0].IsActive)

		assert.Equal(t, f.alice, stats[1].UserID)
		assert.Equal(t, 1, stats[1].ReviewCount)

		assert.Equal(t, f.idle, stats[2].UserID)
		assert.Equal(t, 0, stats[2].ReviewCount)
	})

	t.Run("keeps former reviewers who have reviews", func(t *testing.T) {
		f := setup(t)
		p := sqlitetest.InsertProject(t, f.db, f.applicant, "Технопарк")
		sqlitetest.InsertReview(t, f.db, p, f.alice, "current", scores)
		require.NoError(t, f.db.Exec("UPDATE users SET role = 'user' WHERE id_user = ?", f.alice).Error)

		stats, err := f.repo.GetReviewersStatistics(ctx)
		require.NoError(t, err)
		require.Len(t, stats, 3)
		assert.Equal(t, f.alice, stats[0].UserID)
		assert.Equal(t, "user", stats[0].Role)
		assert.Equal(t, 1, stats[0].ReviewCount)

		for _, s := range stats {
			assert.NotEqual(t, f.applicant, s.UserID)
		}
	})
}

func TestGetProjectStatistics(t *testing.T) {
	ctx := context.Background()

	t.Run("empty database", func(t *testing.T) {
		db := sqlitetest.Open(t)
		stats, err := New(db, zap.NewNop().Sugar()).GetProjectStatistics(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, stats.TotalProjects)
		assert.Equal(t, 0.0, stats.AverageReviewsPerProject)
		assert.Equal(t, 0, stats.ProjectsWith0Reviews)
	})

	t.Run("coverage buckets", func(t *testing.T) {
		f := setup(t)
		full := sqlitetest.InsertProject(t, f.db, f.applicant, "Технопарк")
		two := sqlitetest.InsertProject(t, f.db, f.applicant, "Библиотека")
		one := sqlitetest.InsertProject(t, f.db, f.applicant, "Сквер")
		sqlitetest.InsertProject(t, f.db, f.applicant, "Спортзал")

		for _, reviewer := range []int64{f.alice, f.bob, f.idle} {
			sqlitetest.InsertReview(t, f.db, full, reviewer, "current", scores)
		}
		sqlitetest.InsertReview(t, f.db, two, f.alice, "current", scores)
		sqlitetest.InsertReview(t, f.db, two, f.bob, "current", scores)
		sqlitetest.InsertReview(t, f.db, one, f.alice, "current", scores)
		require.NoError(t, f.db.Exec(
			"UPDATE projects SET status = 'Оценено' WHERE id_project IN (?, ?, ?)", full, two, one,
		).Error)

		stats, err := f.repo.GetProjectStatistics(ctx)
		require.NoError(t, err)
		assert.Equal(t, 4, stats.TotalProjects)
		assert.Equal(t, 1, stats.AwaitingReview)
		assert.Equal(t, 3, stats.Reviewed)
		assert.InDelta(t, 1.5, stats.AverageReviewsPerProject, 1e-9)
		assert.Equal(t, 1, stats.ProjectsWith0Reviews)
		assert.Equal(t, 1, stats.ProjectsWith1Review)
		assert.Equal(t, 1, stats.ProjectsWith2Reviews)
		assert.Equal(t, 1, stats.ProjectsWith3PlusReviews)
	})
}
