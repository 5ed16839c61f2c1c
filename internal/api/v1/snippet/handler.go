package snippet

import (
	"net/http"
	"strconv"

	"promptdeck-backend/internal/models"
	"promptdeck-backend/internal/services"
	"promptdeck-backend/internal/utils"

	"github.com/gin-gonic/gin"
)

// CreateSnippet godoc
// @Summary Create a context snippet
// @Description Create a named reusable text fragment for the authenticated user
// @Tags snippets
// @Accept json
// @Produce json
// @Param request body CreateSnippetRequest true "Create Snippet Request"
// @Security ApiKeyAuth
// @Success 200 {object} utils.Response{data=models.ContextSnippet}
// @Failure 400 {object} utils.Response
// @Failure 401 {object} utils.Response
// @Failure 409 {object} utils.Response
// @Router /snippets [post]
func CreateSnippet(c *gin.Context) {
	userVal, exists := c.Get("user")
	if !exists {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse(http.StatusUnauthorized, "Unauthorized"))
		return
	}
	user := userVal.(models.User)

	var req CreateSnippetRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	snippet, err := services.CreateContextSnippet(user.ID, req.Name, req.Content)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Snippet created successfully", snippet))
}

// GetSnippet godoc
// @Summary Get a context snippet
// @Description Get one of the authenticated user's snippets by ID
// @Tags snippets
// @Produce json
// @Param id path int true "Snippet ID"
// @Security ApiKeyAuth
// @Success 200 {object} utils.Response{data=models.ContextSnippet}
// @Failure 400 {object} utils.Response
// @Failure 401 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Router /snippets/{id} [get]
func GetSnippet(c *gin.Context) {
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

	snippet, err := services.GetContextSnippet(uint(id), user.ID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Success", snippet))
}

// UpdateSnippet godoc
// @Summary Update a context snippet
// @Description Update name and/or content of an owned snippet
// @Tags snippets
// @Accept json
// @Produce json
// @Param id path int true "Snippet ID"
// @Param request body UpdateSnippetRequest true "Update Snippet Request"
// @Security ApiKeyAuth
// @Success 200 {object} utils.Response{data=models.ContextSnippet}
// @Failure 400 {object} utils.Response
// @Failure 401 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Failure 409 {object} utils.Response
// @Router /snippets/{id} [put]
func UpdateSnippet(c *gin.Context) {
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

	var req UpdateSnippetRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	snippet, err := services.UpdateContextSnippet(uint(id), user.ID, req.Name, req.Content)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Snippet updated successfully", snippet))
}

// DeleteSnippet godoc
// @Summary Delete a context snippet
// @Description Delete an owned snippet
// @Tags snippets
// @Produce json
// @Param id path int true "Snippet ID"
// @Security ApiKeyAuth
// @Success 200 {object} utils.Response
// @Failure 400 {object} utils.Response
// @Failure 401 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Router /snippets/{id} [delete]
func DeleteSnippet(c *gin.Context) {
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

	if err := services.DeleteContextSnippet(uint(id), user.ID); err != nil {
		utils.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Snippet deleted successfully", nil))
}

// ListSnippets godoc
// @Summary List context snippets
// @Description Get a paginated list of the authenticated user's snippets
// @Tags snippets
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(10)
// @Security ApiKeyAuth
// @Success 200 {object} utils.Response{data=SnippetListResponse}
// @Failure 401 {object} utils.Response
// @Router /snippets [get]
func ListSnippets(c *gin.Context) {
	userVal, exists := c.Get("user")
	if !exists {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse(http.StatusUnauthorized, "Unauthorized"))
		return
	}
	user := userVal.(models.User)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	snippets, total, err := services.ListContextSnippets(user.ID, page, limit)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Success", SnippetListResponse{
		Total: total,
		Items: snippets,
	}))
}

// SuggestSnippets godoc
// @Summary Suggest snippets for autocomplete
// @Description Prefix lookup over the authenticated user's snippet names, used by the editor's @mention autocomplete
// @Tags snippets
// @Produce json
// @Param q query string false "Name prefix, e.g. @sty"
// @Security ApiKeyAuth
// @Success 200 {object} utils.Response{data=[]models.ContextSnippet}
// @Failure 401 {object} utils.Response
// @Router /snippets/suggest [get]
func SuggestSnippets(c *gin.Context) {
	userVal, exists := c.Get("user")
	if !exists {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse(http.StatusUnauthorized, "Unauthorized"))
		return
	}
	user := userVal.(models.User)

	snippets, err := services.SuggestContextSnippets(user.ID, c.Query("q"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Success", snippets))
}
