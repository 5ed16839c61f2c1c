package snippet

import "promptdeck-backend/internal/models"

type CreateSnippetRequest struct {
	Name    string `json:"name" binding:"required,max=100"`
	Content string `json:"content" binding:"required"`
}

type UpdateSnippetRequest struct {
	Name    *string `json:"name"`
	Content *string `json:"content"`
}

type SnippetListResponse struct {
	Total int64                   `json:"total"`
	Items []models.ContextSnippet `json:"items"`
}
