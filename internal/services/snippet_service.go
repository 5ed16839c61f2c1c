package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"promptdeck-backend/internal/apperrors"
	"promptdeck-backend/internal/database"
	"promptdeck-backend/internal/models"

	"gorm.io/gorm"
)

const (
	snippetSuggestCachePrefix = "snippets:suggest:"
	snippetSuggestCacheTTL    = 5 * time.Minute
	snippetSuggestLimit       = 20
)

// CreateContextSnippet stores a new snippet. Duplicate names for the same
// owner are rejected by the composite unique index, not a pre-check, so
// concurrent creates cannot race past validation.
func CreateContextSnippet(userID uint, name, content string) (*models.ContextSnippet, error) {
	if !models.ValidSnippetName(name) {
		return nil, apperrors.Validationf("snippet name must match @[\\w-]+, got %q", name)
	}

	snippet := &models.ContextSnippet{
		UserID:  userID,
		Name:    name,
		Content: content,
	}

	if err := database.DB.Create(snippet).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.Conflictf("a snippet named %s already exists", name)
		}
		return nil, apperrors.Wrap(err, "failed to create snippet")
	}

	invalidateSnippetSuggestions(userID)
	return snippet, nil
}

// GetContextSnippet fetches a snippet scoped to its owner.
func GetContextSnippet(id, userID uint) (*models.ContextSnippet, error) {
	var snippet models.ContextSnippet
	err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&snippet).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFoundf("snippet not found")
		}
		return nil, apperrors.Wrap(err, "failed to fetch snippet")
	}
	return &snippet, nil
}

// GetContextSnippetByName fetches an owned snippet by its @name.
func GetContextSnippetByName(userID uint, name string) (*models.ContextSnippet, error) {
	var snippet models.ContextSnippet
	err := database.DB.Where("user_id = ? AND name = ?", userID, name).First(&snippet).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFoundf("snippet %s not found", name)
		}
		return nil, apperrors.Wrap(err, "failed to fetch snippet")
	}
	return &snippet, nil
}

// GetContextSnippetsByNames loads all named snippets owned by userID in a
// single query, keyed by name. Missing names are simply absent from the map.
func GetContextSnippetsByNames(userID uint, names []string) (map[string]models.ContextSnippet, error) {
	byName := make(map[string]models.ContextSnippet, len(names))
	if len(names) == 0 {
		return byName, nil
	}

	var snippets []models.ContextSnippet
	err := database.DB.Where("user_id = ? AND name IN ?", userID, names).Find(&snippets).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to fetch snippets")
	}

	for _, s := range snippets {
		byName[s.Name] = s
	}
	return byName, nil
}

// UpdateContextSnippet updates name and/or content of an owned snippet.
func UpdateContextSnippet(id, userID uint, name, content *string) (*models.ContextSnippet, error) {
	snippet, err := GetContextSnippet(id, userID)
	if err != nil {
		return nil, err
	}

	if name != nil {
		if !models.ValidSnippetName(*name) {
			return nil, apperrors.Validationf("snippet name must match @[\\w-]+, got %q", *name)
		}
		snippet.Name = *name
	}
	if content != nil {
		snippet.Content = *content
	}

	if err := database.DB.Save(snippet).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.Conflictf("a snippet named %s already exists", snippet.Name)
		}
		return nil, apperrors.Wrap(err, "failed to update snippet")
	}

	invalidateSnippetSuggestions(userID)
	return snippet, nil
}

// DeleteContextSnippet hard-deletes an owned snippet.
func DeleteContextSnippet(id, userID uint) error {
	result := database.DB.Where("id = ? AND user_id = ?", id, userID).Delete(&models.ContextSnippet{})
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "failed to delete snippet")
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFoundf("snippet not found")
	}

	invalidateSnippetSuggestions(userID)
	return nil
}

// ListContextSnippets returns the caller's snippets ordered by name.
func ListContextSnippets(userID uint, page, limit int) ([]models.ContextSnippet, int64, error) {
	var snippets []models.ContextSnippet
	var total int64

	db := database.DB.Model(&models.ContextSnippet{}).Where("user_id = ?", userID)

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "failed to count snippets")
	}

	offset := (page - 1) * limit
	if err := db.Order("name asc").Offset(offset).Limit(limit).Find(&snippets).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "failed to list snippets")
	}

	return snippets, total, nil
}

// SuggestContextSnippets serves editor autocomplete: a prefix lookup over
// the caller's snippet names, cached briefly in Redis since the editor
// fires it on every mention keystroke.
func SuggestContextSnippets(userID uint, prefix string) ([]models.ContextSnippet, error) {
	cacheKey := fmt.Sprintf("%s%d:%s", snippetSuggestCachePrefix, userID, prefix)
	if database.RedisClient != nil {
		val, err := database.RedisClient.Get(database.Ctx, cacheKey).Result()
		if err == nil {
			var cached []models.ContextSnippet
			if err := json.Unmarshal([]byte(val), &cached); err == nil {
				return cached, nil
			}
		}
	}

	var snippets []models.ContextSnippet
	db := database.DB.Where("user_id = ?", userID)
	if prefix != "" {
		db = db.Where("name LIKE ?", prefix+"%")
	}
	if err := db.Order("name asc").Limit(snippetSuggestLimit).Find(&snippets).Error; err != nil {
		return nil, apperrors.Wrap(err, "failed to suggest snippets")
	}

	if database.RedisClient != nil {
		if data, err := json.Marshal(snippets); err == nil {
			database.RedisClient.Set(database.Ctx, cacheKey, data, snippetSuggestCacheTTL)
		}
	}

	return snippets, nil
}

func invalidateSnippetSuggestions(userID uint) {
	if database.RedisClient == nil {
		return
	}
	pattern := fmt.Sprintf("%s%d:*", snippetSuggestCachePrefix, userID)
	keys, err := database.RedisClient.Keys(database.Ctx, pattern).Result()
	if err != nil || len(keys) == 0 {
		return
	}
	database.RedisClient.Del(database.Ctx, keys...)
}
