package services

import (
	"testing"

	"promptdeck-backend/internal/database"
	"promptdeck-backend/internal/models"
	"promptdeck-backend/pkg/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func init() {
	logger.Log = zap.NewNop()
}

// setupTestDB points the global DB at a fresh in-memory SQLite database.
// TranslateError is on, as in production, so unique violations surface as
// gorm.ErrDuplicatedKey.
func setupTestDB(t *testing.T) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}

	db.Migrator().DropTable(&models.User{}, &models.PromptTemplate{}, &models.ContextSnippet{})
	if err := db.AutoMigrate(&models.User{}, &models.PromptTemplate{}, &models.ContextSnippet{}); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	database.DB = db
	database.RedisClient = nil
}

func setupTestRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	database.RedisClient = redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	return mr
}

func createTestUser(t *testing.T, username string) models.User {
	t.Helper()

	user := models.User{
		Username: username,
		Password: "irrelevant",
	}
	if err := database.DB.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return user
}

func mustCreateSnippet(t *testing.T, userID uint, name, content string) *models.ContextSnippet {
	t.Helper()

	snippet, err := CreateContextSnippet(userID, name, content)
	if err != nil {
		t.Fatalf("failed to seed snippet %s: %v", name, err)
	}
	return snippet
}
