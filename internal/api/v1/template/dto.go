package template

import "promptdeck-backend/internal/models"

type CreateTemplateRequest struct {
	Title           string `json:"title" binding:"required,max=200"`
	RawPrompt       string `json:"raw_prompt"`
	OptimizedPrompt string `json:"optimized_prompt" binding:"required"`
	ModelID         string `json:"model_id"`
}

// UpdateTemplateRequest carries a partial update. raw_prompt is absent on
// purpose: it is immutable after creation. Pointers distinguish "not sent"
// from "set to empty".
type UpdateTemplateRequest struct {
	Title           *string `json:"title"`
	OptimizedPrompt *string `json:"optimized_prompt"`
	ModelID         *string `json:"model_id"`
}

type TemplateListResponse struct {
	Total int64                   `json:"total"`
	Items []models.PromptTemplate `json:"items"`
}
