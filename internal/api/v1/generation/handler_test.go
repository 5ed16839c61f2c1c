package generation_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"promptdeck-backend/config"
	"promptdeck-backend/internal/api/v1/generation"
	"promptdeck-backend/internal/database"
	"promptdeck-backend/internal/llm"
	"promptdeck-backend/internal/models"
	"promptdeck-backend/internal/services"
	"promptdeck-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func init() {
	logger.Log = zap.NewNop()
	gin.SetMode(gin.TestMode)
}

// stubCaller answers every chat call with a fixed string.
type stubCaller struct {
	response string
	err      error
}

func (s *stubCaller) Call(ctx context.Context, prompt string, provider llm.Provider, opts llm.Options) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func (s *stubCaller) GeneratePrompt(ctx context.Context, task string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

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

func setupRouter(user models.User) *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user", user)
		c.Next()
	})
	generation.RegisterRoutes(r.Group(""))
	return r
}

func seedUser(t *testing.T, username string) models.User {
	t.Helper()
	user := models.User{Username: username, Password: "hash"}
	if err := database.DB.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return user
}

func postJSON(r *gin.Engine, path string, payload interface{}) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGenerateEndpoint(t *testing.T) {
	setupTestDB(t)
	user := seedUser(t, "alice")
	services.InitGeneration(&stubCaller{response: "the document"})
	t.Cleanup(func() { services.InitGeneration(nil) })

	r := setupRouter(user)
	w := postJSON(r, "/generate", generation.GenerateRequest{
		RawPrompt: "write something",
		Provider:  "openai",
		UserID:    user.ID,
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data services.GenerationResult `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "the document", resp.Data.Content)
	assert.Equal(t, "openai", resp.Data.Metadata["provider"])
}

func TestGenerateEndpointRejectsMismatchedOwner(t *testing.T) {
	setupTestDB(t)
	user := seedUser(t, "alice")
	services.InitGeneration(&stubCaller{response: "x"})
	t.Cleanup(func() { services.InitGeneration(nil) })

	r := setupRouter(user)
	w := postJSON(r, "/generate", generation.GenerateRequest{
		RawPrompt: "write something",
		Provider:  "openai",
		UserID:    user.ID + 1,
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGenerateEndpointRejectsUnknownProvider(t *testing.T) {
	setupTestDB(t)
	user := seedUser(t, "alice")
	r := setupRouter(user)

	w := postJSON(r, "/generate", map[string]interface{}{
		"raw_prompt": "x",
		"provider":   "mistral",
		"user_id":    user.ID,
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGenerateEndpointMissingSnippet(t *testing.T) {
	setupTestDB(t)
	user := seedUser(t, "alice")
	services.InitGeneration(&stubCaller{response: "x"})
	t.Cleanup(func() { services.InitGeneration(nil) })

	r := setupRouter(user)
	w := postJSON(r, "/generate", generation.GenerateRequest{
		RawPrompt: "use @missing",
		Provider:  "openai",
		UserID:    user.ID,
	})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp struct {
		Message string `json:"message"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	assert.Contains(t, resp.Message, "@missing")
}

func TestOptimizeEndpoint(t *testing.T) {
	setupTestDB(t)
	user := seedUser(t, "alice")
	services.InitGeneration(&stubCaller{response: "optimized prompt"})
	t.Cleanup(func() { services.InitGeneration(nil) })

	r := setupRouter(user)
	w := postJSON(r, "/prompts/optimize", generation.OptimizeRequest{
		RawPrompt: "raw prompt",
		Provider:  "anthropic",
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data generation.OptimizeResponse `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "optimized prompt", resp.Data.OptimizedPrompt)
}

func TestPrepareEndpoint(t *testing.T) {
	setupTestDB(t)
	user := seedUser(t, "alice")
	services.InitGeneration(&stubCaller{response: "same answer"})
	t.Cleanup(func() { services.InitGeneration(nil) })

	r := setupRouter(user)
	w := postJSON(r, "/prompts/prepare", generation.OptimizeRequest{
		RawPrompt: "raw prompt",
		Provider:  "openai",
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data services.PreparedPrompt `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "same answer", resp.Data.OptimizedPrompt)
	assert.Equal(t, "same answer", resp.Data.Title)
}

func TestProvidersEndpoint(t *testing.T) {
	setupTestDB(t)
	user := seedUser(t, "alice")

	registry, err := llm.NewRegistry(context.Background(), &config.Config{
		OpenAIAPIKey:    "ok",
		AnthropicAPIKey: "ak",
	})
	assert.NoError(t, err)
	generation.SetRegistry(registry)
	t.Cleanup(func() { generation.SetRegistry(nil) })

	r := setupRouter(user)
	req := httptest.NewRequest(http.MethodGet, "/providers", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data generation.ProvidersResponse `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"openai", "anthropic"}, resp.Data.Providers)
}
