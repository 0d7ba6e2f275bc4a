package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fintrack/internal/models"
	"fintrack/internal/services"
)

// CategoryHandler handles category-related requests.
type CategoryHandler struct {
	categoryService services.CategoryServicer
	auditService    services.AuditServicer
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(categoryService services.CategoryServicer, auditService services.AuditServicer) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService, auditService: auditService}
}

// CategoryRequest is the payload for creating or fully replacing a category.
// IsExpense defaults to true when omitted.
type CategoryRequest struct {
	Name      string `json:"name" binding:"required,max=50"`
	IsExpense *bool  `json:"isExpense"`
}

func (r *CategoryRequest) input() services.CategoryInput {
	isExpense := true
	if r.IsExpense != nil {
		isExpense = *r.IsExpense
	}
	return services.CategoryInput{Name: r.Name, IsExpense: isExpense}
}

// CategoryResponse represents a category in the response
type CategoryResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	IsExpense bool   `json:"isExpense"`
}

func newCategoryResponse(c *models.Category) CategoryResponse {
	return CategoryResponse{ID: c.ID, Name: c.Name, IsExpense: c.IsExpense}
}

// ListCategories returns every category of the authenticated user.
// @Summary     List categories
// @Tags        categories
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array}  CategoryResponse
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /categories [get]
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	categories, err := h.categoryService.ListCategories(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	resp := make([]CategoryResponse, 0, len(categories))
	for i := range categories {
		resp = append(resp, newCategoryResponse(&categories[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// GetCategory returns a single category.
// @Summary     Get category
// @Tags        categories
// @Produce     json
// @Security    BearerAuth
// @Param       id  path     string true "Category ID"
// @Success     200 {object} CategoryResponse
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Router      /categories/{id} [get]
func (h *CategoryHandler) GetCategory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	categoryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	category, err := h.categoryService.GetCategory(c.Request.Context(), userID, categoryID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, newCategoryResponse(category))
}

// CreateCategory creates a new category.
// @Summary     Create category
// @Tags        categories
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CategoryRequest true "Category details"
// @Success     201 {object} CategoryResponse "Category created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /categories [post]
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithBindError(c, err)
		return
	}

	in := req.input()
	category, err := h.categoryService.CreateCategory(c.Request.Context(), userID, in)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), userID, services.AuditCreateCategory, "category", category.ID, c.ClientIP(),
		map[string]interface{}{"name": in.Name, "isExpense": in.IsExpense})

	c.JSON(http.StatusCreated, newCategoryResponse(category))
}

// UpdateCategory replaces a category's name and kind.
// @Summary     Update category
// @Tags        categories
// @Accept      json
// @Security    BearerAuth
// @Param       id      path string          true "Category ID"
// @Param       request body CategoryRequest true "Category details"
// @Success     204
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Router      /categories/{id} [put]
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	categoryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithBindError(c, err)
		return
	}

	in := req.input()
	if err := h.categoryService.UpdateCategory(c.Request.Context(), userID, categoryID, in); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), userID, services.AuditUpdateCategory, "category", categoryID, c.ClientIP(),
		map[string]interface{}{"name": in.Name, "isExpense": in.IsExpense})

	c.Status(http.StatusNoContent)
}

// DeleteCategory deletes a category that no transaction uses.
// @Summary     Delete category
// @Tags        categories
// @Security    BearerAuth
// @Param       id path string true "Category ID"
// @Success     204
// @Failure     400 {object} ErrorResponse "Invalid ID or category still in use"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Router      /categories/{id} [delete]
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	categoryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.categoryService.DeleteCategory(c.Request.Context(), userID, categoryID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), userID, services.AuditDeleteCategory, "category", categoryID, c.ClientIP(), nil)
	c.Status(http.StatusNoContent)
}
