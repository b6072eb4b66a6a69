package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"newsbug/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

type CategoryStore interface {
	Create(ctx context.Context, category *model.Category) error
	GetAll(ctx context.Context) ([]model.Category, error)
	GetByID(ctx context.Context, id string) (*model.Category, error)
	Update(ctx context.Context, id string, category *model.Category) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// SourceRemover deletes the sources that belong to a category.
type SourceRemover interface {
	DeleteByCategory(ctx context.Context, categoryID string) (int64, error)
}

type ArticleCounter interface {
	CountByCategory(ctx context.Context, categoryID string) (int64, error)
}

type CategoryHandler struct {
	repository CategoryStore
	sources    SourceRemover
	articles   ArticleCounter
}

func NewCategoryHandler(repository CategoryStore, sources SourceRemover, articles ArticleCounter) *CategoryHandler {
	return &CategoryHandler{repository: repository, sources: sources, articles: articles}
}

func (h *CategoryHandler) GetCategories(c *gin.Context) {
	categories, err := h.repository.GetAll(c.Request.Context())
	if err != nil {
		slog.Error("error fetching categories", "error", err)
		respondError(c, http.StatusInternalServerError, "Error fetching categories")
		return
	}

	res := make([]CategoryResponse, 0, len(categories))
	for _, category := range categories {
		res = append(res, toCategoryResponse(category))
	}

	respond(c, http.StatusOK, res)
}

func (h *CategoryHandler) GetCategory(c *gin.Context) {
	id, valid := validID(c, "category")
	if !valid {
		return
	}

	category, err := h.repository.GetByID(c.Request.Context(), id)
	if err != nil {
		slog.Error("error fetching category", "error", err, "category_id", id)
		respondError(c, http.StatusInternalServerError, "Error fetching category")
		return
	}

	if category == nil {
		respondError(c, http.StatusNotFound, "Category not found")
		return
	}

	count, err := h.articles.CountByCategory(c.Request.Context(), id)
	if err != nil {
		slog.Error("error counting articles", "error", err, "category_id", id)
		respondError(c, http.StatusInternalServerError, "Error fetching category")
		return
	}

	res := toCategoryResponse(*category)
	res.ArticleCount = &count
	respond(c, http.StatusOK, res)
}

func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	req, valid := bindCategory(c)
	if !valid {
		return
	}

	category := model.Category{
		Title:       req.Title,
		Keywords:    req.Keywords,
		Description: req.Description,
	}

	if err := h.repository.Create(c.Request.Context(), &category); err != nil {
		slog.Error("error creating category", "error", err, "title", req.Title)
		respondError(c, http.StatusInternalServerError, "Error creating category")
		return
	}

	slog.Info("category created", "category_id", category.ID.Hex(), "keywords", len(category.Keywords))
	respond(c, http.StatusCreated, CreatedResponse{InsertedID: category.ID.Hex()})
}

func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	id, valid := validID(c, "category")
	if !valid {
		return
	}

	req, valid := bindCategory(c)
	if !valid {
		return
	}

	found, err := h.repository.Update(c.Request.Context(), id, &model.Category{
		Title:       req.Title,
		Keywords:    req.Keywords,
		Description: req.Description,
	})
	if err != nil {
		slog.Error("error updating category", "error", err, "category_id", id)
		respondError(c, http.StatusInternalServerError, "Error updating category")
		return
	}

	if !found {
		respondError(c, http.StatusNotFound, "Category not found")
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Message: "Category updated"})
}

func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	id, valid := validID(c, "category")
	if !valid {
		return
	}

	found, err := h.repository.Delete(c.Request.Context(), id)
	if err != nil {
		slog.Error("error deleting category", "error", err, "category_id", id)
		respondError(c, http.StatusInternalServerError, "Error deleting category")
		return
	}

	if !found {
		respondError(c, http.StatusNotFound, "Category not found")
		return
	}

	removed, err := h.sources.DeleteByCategory(c.Request.Context(), id)
	if err != nil {
		slog.Error("error deleting category sources", "error", err, "category_id", id)
		respondError(c, http.StatusInternalServerError, "Error deleting category sources")
		return
	}

	slog.Info("category deleted", "category_id", id, "sources_removed", removed)
	c.JSON(http.StatusOK, Response{
		Success: true,
		Message: "Category deleted",
		Data:    gin.H{"deletedSources": removed},
	})
}

func bindCategory(c *gin.Context) (CategoryRequest, bool) {
	var in categoryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		slog.Warn("invalid category payload", "error", err)
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return CategoryRequest{}, false
	}

	req := CategoryRequest{
		Title:       strings.TrimSpace(in.Title),
		Keywords:    normalizeKeywords(in.Keywords),
		Description: strings.TrimSpace(in.Description),
	}

	if err := binding.Validator.ValidateStruct(&req); err != nil {
		respondValidation(c, fieldErrors(err, &req))
		return CategoryRequest{}, false
	}

	return req, true
}

// normalizeKeywords trims entries and drops blanks and case-insensitive duplicates.
func normalizeKeywords(keywords []string) []string {
	seen := make(map[string]bool, len(keywords))
	out := make([]string, 0, len(keywords))
	for _, k := range keywords {
		k = strings.TrimSpace(k)
		if k == "" || seen[strings.ToLower(k)] {
			continue
		}
		seen[strings.ToLower(k)] = true
		out = append(out, k)
	}
	return out
}

func toCategoryResponse(category model.Category) CategoryResponse {
	res := CategoryResponse{
		ID:          category.ID.Hex(),
		Title:       category.Title,
		Description: category.Description,
		Keywords:    category.Keywords,
	}
	if res.Keywords == nil {
		res.Keywords = []string{}
	}
	if !category.CreatedAt.IsZero() {
		res.CreatedAt = formatTime(category.CreatedAt)
		res.UpdatedAt = formatTime(category.UpdatedAt)
	}
	return res
}
