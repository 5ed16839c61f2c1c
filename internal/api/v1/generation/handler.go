package generation

import (
	"net/http"

	"promptdeck-backend/internal/llm"
	"promptdeck-backend/internal/models"
	"promptdeck-backend/internal/services"
	"promptdeck-backend/internal/utils"

	"github.com/gin-gonic/gin"
)

var registry *llm.Registry

// SetRegistry wires the provider registry used by the providers endpoint.
func SetRegistry(r *llm.Registry) {
	registry = r
}

// Generate godoc
// @Summary Generate a document
// @Description Run the generation pipeline: resolve a template or raw prompt, expand snippets and placeholders, call the selected LLM
// @Tags generation
// @Accept json
// @Produce json
// @Param request body GenerateRequest true "Generate Request"
// @Security ApiKeyAuth
// @Success 200 {object} utils.Response{data=services.GenerationResult}
// @Failure 400 {object} utils.Response
// @Failure 401 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Failure 422 {object} utils.Response
// @Failure 502 {object} utils.Response
// @Failure 503 {object} utils.Response
// @Router /generate [post]
func Generate(c *gin.Context) {
	userVal, exists := c.Get("user")
	if !exists {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse(http.StatusUnauthorized, "Unauthorized"))
		return
	}
	user := userVal.(models.User)

	var req GenerateRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	result, err := services.GenerateDocument(c.Request.Context(), user.ID, services.GenerationRequest{
		PromptTemplateID: req.PromptTemplateID,
		RawPrompt:        req.RawPrompt,
		Inputs:           req.Inputs,
		Provider:         llm.Provider(req.Provider),
		Model:            req.Model,
		UserID:           req.UserID,
		CorrelationIDs:   req.CorrelationIDs,
	})
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Success", result))
}

// Optimize godoc
// @Summary Optimize a raw prompt
// @Description Rewrite a raw prompt into an optimized one, trying the experimental prompt generation API first
// @Tags generation
// @Accept json
// @Produce json
// @Param request body OptimizeRequest true "Optimize Request"
// @Security ApiKeyAuth
// @Success 200 {object} utils.Response{data=OptimizeResponse}
// @Failure 400 {object} utils.Response
// @Failure 401 {object} utils.Response
// @Failure 502 {object} utils.Response
// @Failure 503 {object} utils.Response
// @Router /prompts/optimize [post]
func Optimize(c *gin.Context) {
	if _, exists := c.Get("user"); !exists {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse(http.StatusUnauthorized, "Unauthorized"))
		return
	}

	var req OptimizeRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	optimized, err := services.OptimizePrompt(c.Request.Context(), req.RawPrompt, llm.Provider(req.Provider), req.Model)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Success", OptimizeResponse{OptimizedPrompt: optimized}))
}

// Title godoc
// @Summary Generate a title for a raw prompt
// @Tags generation
// @Accept json
// @Produce json
// @Param request body OptimizeRequest true "Title Request"
// @Security ApiKeyAuth
// @Success 200 {object} utils.Response{data=TitleResponse}
// @Failure 400 {object} utils.Response
// @Failure 401 {object} utils.Response
// @Failure 502 {object} utils.Response
// @Failure 503 {object} utils.Response
// @Router /prompts/title [post]
func Title(c *gin.Context) {
	if _, exists := c.Get("user"); !exists {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse(http.StatusUnauthorized, "Unauthorized"))
		return
	}

	var req OptimizeRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	title, err := services.GenerateTitle(c.Request.Context(), req.RawPrompt, llm.Provider(req.Provider), req.Model)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Success", TitleResponse{Title: title}))
}

// Prepare godoc
// @Summary Optimize a prompt and generate its title
// @Description Run optimization and title generation concurrently; both settle before the response is decided
// @Tags generation
// @Accept json
// @Produce json
// @Param request body OptimizeRequest true "Prepare Request"
// @Security ApiKeyAuth
// @Success 200 {object} utils.Response{data=services.PreparedPrompt}
// @Failure 400 {object} utils.Response
// @Failure 401 {object} utils.Response
// @Failure 502 {object} utils.Response
// @Failure 503 {object} utils.Response
// @Router /prompts/prepare [post]
func Prepare(c *gin.Context) {
	if _, exists := c.Get("user"); !exists {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse(http.StatusUnauthorized, "Unauthorized"))
		return
	}

	var req OptimizeRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	prepared, err := services.PreparePrompt(c.Request.Context(), req.RawPrompt, llm.Provider(req.Provider), req.Model)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Success", prepared))
}

// Providers godoc
// @Summary List configured LLM providers
// @Tags generation
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} utils.Response{data=ProvidersResponse}
// @Failure 401 {object} utils.Response
// @Router /providers [get]
func Providers(c *gin.Context) {
	if _, exists := c.Get("user"); !exists {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse(http.StatusUnauthorized, "Unauthorized"))
		return
	}

	var names []string
	if registry != nil {
		for _, p := range registry.Configured() {
			names = append(names, string(p))
		}
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Success", ProvidersResponse{Providers: names}))
}
