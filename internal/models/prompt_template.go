package models

import "time"

// PromptTemplate is a user-owned prompt template. OptimizedPrompt is the
// text actually used for generation and may contain {{placeholder}} and
// @snippet markers; RawPrompt preserves the original input and is
// immutable after creation.
type PromptTemplate struct {
	ID              uint      `gorm:"primarykey" json:"id"`
	UserID          uint      `gorm:"index;not null" json:"user_id"`
	Title           string    `gorm:"not null" json:"title"`
	RawPrompt       string    `gorm:"type:text" json:"raw_prompt"`
	OptimizedPrompt string    `gorm:"type:text;not null" json:"optimized_prompt"`
	ModelID         string    `json:"model_id"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
