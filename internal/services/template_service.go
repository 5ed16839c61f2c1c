package services

import (
	"errors"

	"promptdeck-backend/internal/apperrors"
	"promptdeck-backend/internal/database"
	"promptdeck-backend/internal/models"

	"gorm.io/gorm"
)

// TemplateUpdate carries the mutable fields of a prompt template. Nil
// pointers leave the current value untouched. RawPrompt is deliberately
// absent: it is immutable after creation.
type TemplateUpdate struct {
	Title           *string
	OptimizedPrompt *string
	ModelID         *string
}

// CreatePromptTemplate stores a new template owned by userID.
func CreatePromptTemplate(userID uint, title, rawPrompt, optimizedPrompt, modelID string) (*models.PromptTemplate, error) {
	template := &models.PromptTemplate{
		UserID:          userID,
		Title:           title,
		RawPrompt:       rawPrompt,
		OptimizedPrompt: optimizedPrompt,
		ModelID:         modelID,
	}

	if err := database.DB.Create(template).Error; err != nil {
		return nil, apperrors.Wrap(err, "failed to create template")
	}

	return template, nil
}

// GetPromptTemplate fetches a template scoped to its owner. Templates of
// other users are indistinguishable from absent ones.
func GetPromptTemplate(id, userID uint) (*models.PromptTemplate, error) {
	var template models.PromptTemplate
	err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&template).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFoundf("template not found")
		}
		return nil, apperrors.Wrap(err, "failed to fetch template")
	}
	return &template, nil
}

// UpdatePromptTemplate applies a partial update to an owned template.
func UpdatePromptTemplate(id, userID uint, update TemplateUpdate) (*models.PromptTemplate, error) {
	template, err := GetPromptTemplate(id, userID)
	if err != nil {
		return nil, err
	}

	if update.Title != nil {
		template.Title = *update.Title
	}
	if update.OptimizedPrompt != nil {
		template.OptimizedPrompt = *update.OptimizedPrompt
	}
	if update.ModelID != nil {
		template.ModelID = *update.ModelID
	}

	if err := database.DB.Save(template).Error; err != nil {
		return nil, apperrors.Wrap(err, "failed to update template")
	}

	return template, nil
}

// DeletePromptTemplate hard-deletes an owned template.
func DeletePromptTemplate(id, userID uint) error {
	result := database.DB.Where("id = ? AND user_id = ?", id, userID).Delete(&models.PromptTemplate{})
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "failed to delete template")
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFoundf("template not found")
	}
	return nil
}

// ListPromptTemplates returns the caller's templates, newest first, with
// optional title search.
func ListPromptTemplates(userID uint, page, limit int, search string) ([]models.PromptTemplate, int64, error) {
	var templates []models.PromptTemplate
	var total int64

	db := database.DB.Model(&models.PromptTemplate{}).Where("user_id = ?", userID)

	if search != "" {
		db = db.Where("title LIKE ?", "%"+search+"%")
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "failed to count templates")
	}

	offset := (page - 1) * limit
	if err := db.Order("updated_at desc").Offset(offset).Limit(limit).Find(&templates).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "failed to list templates")
	}

	return templates, total, nil
}
