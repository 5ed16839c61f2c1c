package template

import (
	"net/http"
	"strconv"

	"promptdeck-backend/internal/models"
	"promptdeck-backend/internal/services"
	"promptdeck-backend/internal/utils"

	"github.com/gin-gonic/gin"
)

// CreateTemplate godoc
// @Summary Create a prompt template
// @Description Create a new prompt template owned by the authenticated user
// @Tags templates
// @Accept json
// @Produce json
// @Param request body CreateTemplateRequest true "Create Template Request"
// @Security ApiKeyAuth
// @Success 200 {object} utils.Response{data=models.PromptTemplate}
// @Failure 400 {object} utils.Response
// @Failure 401 {object} utils.Response
// @Failure 500 {object} utils.Response
// @Router /templates [post]
func CreateTemplate(c *gin.Context) {
	userVal, exists := c.Get("user")
	if !exists {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse(http.StatusUnauthorized, "Unauthorized"))
		return
	}
	user := userVal.(models.User)

	var req CreateTemplateRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	template, err := services.CreatePromptTemplate(user.ID, req.Title, req.RawPrompt, req.OptimizedPrompt, req.ModelID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Template created successfully", template))
}

// GetTemplate godoc
// @Summary Get a prompt template
// @Description Get one of the authenticated user's templates by ID
// @Tags templates
// @Produce json
// @Param id path int true "Template ID"
// @Security ApiKeyAuth
// @Success 200 {object} utils.Response{data=models.PromptTemplate}
// @Failure 400 {object} utils.Response
// @Failure 401 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Router /templates/{id} [get]
func GetTemplate(c *gin.Context) {
	userVal, exists := c.Get("user")
	if !exists {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse(http.StatusUnauthorized, "Unauthorized"))
		return
	}
	user := userVal.(models.User)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, "Invalid ID"))
		return
	}

	template, err := services.GetPromptTemplate(uint(id), user.ID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Success", template))
}

// UpdateTemplate godoc
// @Summary Update a prompt template
// @Description Partially update title, optimized prompt or model of an owned template
// @Tags templates
// @Accept json
// @Produce json
// @Param id path int true "Template ID"
// @Param request body UpdateTemplateRequest true "Update Template Request"
// @Security ApiKeyAuth
// @Success 200 {object} utils.Response{data=models.PromptTemplate}
// @Failure 400 {object} utils.Response
// @Failure 401 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Failure 500 {object} utils.Response
// @Router /templates/{id} [put]
func UpdateTemplate(c *gin.Context) {
	userVal, exists := c.Get("user")
	if !exists {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse(http.StatusUnauthorized, "Unauthorized"))
		return
	}
	user := userVal.(models.User)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, "Invalid ID"))
		return
	}

	var req UpdateTemplateRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	template, err := services.UpdatePromptTemplate(uint(id), user.ID, services.TemplateUpdate{
		Title:           req.Title,
		OptimizedPrompt: req.OptimizedPrompt,
		ModelID:         req.ModelID,
	})
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Template updated successfully", template))
}

// DeleteTemplate godoc
// @Summary Delete a prompt template
// @Description Delete an owned template
// @Tags templates
// @Produce json
// @Param id path int true "Template ID"
// @Security ApiKeyAuth
// @Success 200 {object} utils.Response
// @Failure 400 {object} utils.Response
// @Failure 401 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Router /templates/{id} [delete]
func DeleteTemplate(c *gin.Context) {
	userVal, exists := c.Get("user")
	if !exists {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse(http.StatusUnauthorized, "Unauthorized"))
		return
	}
	user := userVal.(models.User)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, "Invalid ID"))
		return
	}

	if err := services.DeletePromptTemplate(uint(id), user.ID); err != nil {
		utils.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Template deleted successfully", nil))
}

// ListTemplates godoc
// @Summary List prompt templates
// @Description Get a paginated list of the authenticated user's templates
// @Tags templates
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(10)
// @Param search query string false "Search by title"
// @Security ApiKeyAuth
// @Success 200 {object} utils.Response{data=TemplateListResponse}
// @Failure 401 {object} utils.Response
// @Failure 500 {object} utils.Response
// @Router /templates [get]
func ListTemplates(c *gin.Context) {
	userVal, exists := c.Get("user")
	if !exists {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse(http.StatusUnauthorized, "Unauthorized"))
		return
	}
	user := userVal.(models.User)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	search := c.Query("search")

	templates, total, err := services.ListPromptTemplates(user.ID, page, limit, search)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Success", TemplateListResponse{
		Total: total,
		Items: templates,
	}))
}
