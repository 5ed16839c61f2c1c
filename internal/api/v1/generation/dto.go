package generation

type GenerateRequest struct {
	PromptTemplateID *uint             `json:"prompt_template_id"`
	RawPrompt        string            `json:"raw_prompt"`
	Inputs           map[string]string `json:"inputs"`
	Provider         string            `json:"provider" binding:"required,oneof=openai anthropic gemini"`
	Model            string            `json:"model"`
	UserID           uint              `json:"user_id" binding:"required"`
	CorrelationIDs   map[string]string `json:"correlation_ids"`
}

type OptimizeRequest struct {
	RawPrompt string `json:"raw_prompt" binding:"required"`
	Provider  string `json:"provider" binding:"required,oneof=openai anthropic gemini"`
	Model     string `json:"model"`
}

type OptimizeResponse struct {
	OptimizedPrompt string `json:"optimized_prompt"`
}

type TitleResponse struct {
	Title string `json:"title"`
}

type ProvidersResponse struct {
	Providers []string `json:"providers"`
}
