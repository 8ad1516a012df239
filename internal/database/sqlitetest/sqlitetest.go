// Package sqlitetest opens in-memory SQLite databases carrying the portal schema for unit tests.
package sqlitetest

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// schema mirrors migrations/000001_init.up.sql in SQLite dialect.
var schema = []string{
	`CREATE TABLE users (
		id_user INTEGER PRIMARY KEY AUTOINCREMENT,
		email VARCHAR(255) NOT NULL UNIQUE,
		full_name VARCHAR(255) NOT NULL DEFAULT '',
		role VARCHAR(16) NOT NULL DEFAULT 'user' CHECK (role IN ('user', 'reviewer', 'admin')),
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE projects (
		id_project INTEGER PRIMARY KEY AUTOINCREMENT,
		owner_id INTEGER NOT NULL REFERENCES users (id_user) ON DELETE CASCADE,
		title VARCHAR(255) NOT NULL CHECK (LENGTH(title) > 0),
		description TEXT NOT NULL DEFAULT '',
		status VARCHAR(64) NOT NULL DEFAULT 'Ожидает проверки',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE reviews (
		id_review INTEGER PRIMARY KEY AUTOINCREMENT,
		project_id INTEGER NOT NULL REFERENCES projects (id_project) ON DELETE CASCADE,
		reviewer_id INTEGER NOT NULL REFERENCES users (id_user) ON DELETE CASCADE,
		schema_version VARCHAR(32) NOT NULL,
		feedback TEXT NOT NULL DEFAULT 'Комментариев нет',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE (project_id, reviewer_id)
	)`,
	`CREATE TABLE review_scores (
		review_id INTEGER NOT NULL REFERENCES reviews (id_review) ON DELETE CASCADE,
		criterion_key VARCHAR(64) NOT NULL,
		score SMALLINT NOT NULL CHECK (score BETWEEN 1 AND 10),
		PRIMARY KEY (review_id, criterion_key)
	)`,
}

// Open returns a fresh in-memory database with the portal tables and foreign keys enabled.
// The pool is limited to one connection so every query sees the same in-memory database.
func Open(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	for _, stmt := range schema {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

// InsertUser adds a user and returns its id.
func InsertUser(t *testing.T, db *gorm.DB, email, fullName, role string) int64 {
	t.Helper()
	require.NoError(t, db.Exec(
		"INSERT INTO users (email, full_name, role) VALUES (?, ?, ?)", email, fullName, role,
	).Error)
	return lastID(t, db)
}

// InsertProject adds a project owned by ownerID and returns its id.
func InsertProject(t *testing.T, db *gorm.DB, ownerID int64, title string) int64 {
	t.Helper()
	require.NoError(t, db.Exec(
		"INSERT INTO projects (owner_id, title) VALUES (?, ?)", ownerID, title,
	).Error)
	return lastID(t, db)
}

// InsertReview adds a review with the given scores and returns its id.
func InsertReview(t *testing.T, db *gorm.DB, projectID, reviewerID int64, version string, scores map[string]int) int64 {
	t.Helper()
	require.NoError(t, db.Exec(
		"INSERT INTO reviews (project_id, reviewer_id, schema_version) VALUES (?, ?, ?)",
		projectID, reviewerID, version,
	).Error)
	id := lastID(t, db)
	for key, score := range scores {
		require.NoError(t, db.Exec(
			"INSERT INTO review_scores (review_id, criterion_key, score) VALUES (?, ?, ?)", id, key, score,
		).Error)
	}
	return id
}

func lastID(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var id int64
	require.NoError(t, db.Raw("SELECT last_insert_rowid()").Scan(&id).Error)
	return id
}
