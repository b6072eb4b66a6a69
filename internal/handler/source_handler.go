package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"newsbug/internal/model"
	"newsbug/pkg/cron"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const customCronType = "custom"

const nextRunPreview = 5

type SourceStore interface {
	Create(ctx context.Context, source *model.Source) error
	GetByCategory(ctx context.Context, categoryID string) ([]model.Source, error)
	GetByID(ctx context.Context, id string) (*model.Source, error)
	Update(ctx context.Context, id string, update model.SourceUpdate) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
	RequestRun(ctx context.Context, id string) (bool, error)
}

type CategoryLookup interface {
	GetByID(ctx context.Context, id string) (*model.Category, error)
}

type SourceHandler struct {
	repository SourceStore
	categories CategoryLookup
}

func NewSourceHandler(repository SourceStore, categories CategoryLookup) *SourceHandler {
	return &SourceHandler{repository: repository, categories: categories}
}

func (h *SourceHandler) GetSources(c *gin.Context) {
	categoryID, valid := validID(c, "category")
	if !valid {
		return
	}

	sources, err := h.repository.GetByCategory(c.Request.Context(), categoryID)
	if err != nil {
		slog.Error("error getting sources", "error", err, "category_id", categoryID)
		respondError(c, http.StatusInternalServerError, "Error getting sources")
		return
	}

	res := make([]SourceResponse, 0, len(sources))
	for _, s := range sources {
		res = append(res, toSourceResponse(s))
	}

	respond(c, http.StatusOK, res)
}

func (h *SourceHandler) GetSource(c *gin.Context) {
	source, found := h.loadSource(c)
	if !found {
		return
	}

	respond(c, http.StatusOK, toSourceResponse(*source))
}

func (h *SourceHandler) CreateSource(c *gin.Context) {
	in, err := readSourceInput(c)
	if err != nil {
		slog.Warn("invalid source payload", "error", err)
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	req := in.request()
	if err := binding.Validator.ValidateStruct(&req); err != nil {
		respondValidation(c, fieldErrors(err, &req))
		return
	}

	if !primitive.IsValidObjectID(req.CategoryID) {
		respondValidation(c, map[string][]string{"categoryId": {"Category not found"}})
		return
	}

	category, err := h.categories.GetByID(c.Request.Context(), req.CategoryID)
	if err != nil {
		slog.Error("error fetching category", "error", err, "category_id", req.CategoryID)
		respondError(c, http.StatusInternalServerError, "Error creating source")
		return
	}

	if category == nil {
		respondValidation(c, map[string][]string{"categoryId": {"Category not found"}})
		return
	}

	source := model.Source{
		Title:        req.Title,
		URL:          req.URL,
		CategoryID:   req.CategoryID,
		CronSchedule: req.CronSchedule,
		IsActive:     req.IsActive,
	}

	if err := h.repository.Create(c.Request.Context(), &source); err != nil {
		slog.Error("error creating source", "error", err, "url", req.URL)
		respondError(c, http.StatusInternalServerError, "Error creating source")
		return
	}

	slog.Info("source created", "source_id", source.ID.Hex(), "category_id", source.CategoryID, "cron", source.CronSchedule)
	c.JSON(http.StatusCreated, Response{
		Success: true,
		Message: "Source created successfully!",
		Data:    CreatedResponse{InsertedID: source.ID.Hex()},
	})
}

func (h *SourceHandler) UpdateSource(c *gin.Context) {
	id, valid := validID(c, "source")
	if !valid {
		return
	}

	var req UpdateSourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if errs := fieldErrors(err, &req); errs != nil {
			respondValidation(c, errs)
			return
		}
		slog.Warn("invalid source update payload", "error", err)
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	update := model.SourceUpdate{
		Title:        trimmed(req.Title),
		URL:          trimmed(req.URL),
		CronSchedule: trimmed(req.CronSchedule),
		IsActive:     req.IsActive,
	}

	if update.Title != nil && *update.Title == "" {
		respondValidation(c, map[string][]string{"title": {"Title is required"}})
		return
	}

	if update.Title == nil && update.URL == nil && update.CronSchedule == nil && update.IsActive == nil {
		respondError(c, http.StatusBadRequest, "No fields to update")
		return
	}

	found, err := h.repository.Update(c.Request.Context(), id, update)
	if err != nil {
		slog.Error("error updating source", "error", err, "source_id", id)
		respondError(c, http.StatusInternalServerError, "Error updating source")
		return
	}

	if !found {
		respondError(c, http.StatusNotFound, "Source not found")
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Message: "Source updated"})
}

func (h *SourceHandler) DeleteSource(c *gin.Context) {
	id, valid := validID(c, "source")
	if !valid {
		return
	}

	found, err := h.repository.Delete(c.Request.Context(), id)
	if err != nil {
		slog.Error("error deleting source", "error", err, "source_id", id)
		respondError(c, http.StatusInternalServerError, "Error deleting source")
		return
	}

	if !found {
		respondError(c, http.StatusNotFound, "Source not found")
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Message: "Source deleted"})
}

// RunSource makes the source due immediately; the poller picks it up on its next cycle.
func (h *SourceHandler) RunSource(c *gin.Context) {
	id, valid := validID(c, "source")
	if !valid {
		return
	}

	found, err := h.repository.RequestRun(c.Request.Context(), id)
	if err != nil {
		slog.Error("error scheduling source run", "error", err, "source_id", id)
		respondError(c, http.StatusInternalServerError, "Error scheduling run")
		return
	}

	if !found {
		respondError(c, http.StatusNotFound, "Source not found")
		return
	}

	c.JSON(http.StatusAccepted, Response{Success: true, Message: "Run scheduled"})
}

// GetExecutions returns the execution history, newest first.
func (h *SourceHandler) GetExecutions(c *gin.Context) {
	source, found := h.loadSource(c)
	if !found {
		return
	}

	history := source.ExecutionHistory
	res := make([]ExecutionResponse, 0, len(history))
	for i := len(history) - 1; i >= 0; i-- {
		e := history[i]
		res = append(res, ExecutionResponse{
			ID:          e.ID,
			StartedAt:   formatTime(e.StartedAt),
			CompletedAt: formatTimePtr(e.CompletedAt),
			Status:      e.Status,
			Error:       e.Error,
			Duration:    e.Duration,
			Metadata:    e.Metadata,
		})
	}

	respond(c, http.StatusOK, res)
}

func (h *SourceHandler) ValidateCron(c *gin.Context) {
	var req CronValidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	res := CronValidateResponse{Valid: cron.Validate(req.Expression), NextRuns: []string{}}
	if res.Valid {
		runs, err := cron.NextN(req.Expression, time.Now(), nextRunPreview)
		if err != nil {
			slog.Warn("error computing next runs", "expression", req.Expression, "error", err)
		}
		for _, r := range runs {
			res.NextRuns = append(res.NextRuns, formatTime(r))
		}
	}

	respond(c, http.StatusOK, res)
}

func (h *SourceHandler) loadSource(c *gin.Context) (*model.Source, bool) {
	id, valid := validID(c, "source")
	if !valid {
		return nil, false
	}

	source, err := h.repository.GetByID(c.Request.Context(), id)
	if err != nil {
		slog.Error("error fetching source", "error", err, "source_id", id)
		respondError(c, http.StatusInternalServerError, "Error fetching source")
		return nil, false
	}

	if source == nil {
		respondError(c, http.StatusNotFound, "Source not found")
		return nil, false
	}

	return source, true
}

// readSourceInput accepts a JSON body or the dashboard's form post, where
// isActive arrives as the string "true".
func readSourceInput(c *gin.Context) (sourceInput, error) {
	if c.ContentType() == binding.MIMEJSON {
		var in sourceInput
		err := c.ShouldBindJSON(&in)
		return in, err
	}

	return sourceInput{
		CategoryID:         c.PostForm("categoryId"),
		Title:              c.PostForm("title"),
		URL:                c.PostForm("url"),
		CronSchedule:       c.PostForm("cronSchedule"),
		CronScheduleType:   c.PostForm("cronScheduleType"),
		CustomCronSchedule: c.PostForm("customCronSchedule"),
		IsActive:           c.PostForm("isActive") == "true",
	}, nil
}

func (in sourceInput) request() CreateSourceRequest {
	schedule := in.CronSchedule
	if in.CronScheduleType == customCronType {
		schedule = in.CustomCronSchedule
	}

	return CreateSourceRequest{
		CategoryID:   strings.TrimSpace(in.CategoryID),
		Title:        strings.TrimSpace(in.Title),
		URL:          strings.TrimSpace(in.URL),
		CronSchedule: strings.TrimSpace(schedule),
		IsActive:     in.IsActive,
	}
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

func toSourceResponse(s model.Source) SourceResponse {
	return SourceResponse{
		ID:           s.ID.Hex(),
		Title:        s.Title,
		URL:          s.URL,
		CategoryID:   s.CategoryID,
		CronSchedule: s.CronSchedule,
		IsActive:     s.IsActive,
		Status:       string(s.Status),
		LastRunAt:    formatTimePtr(s.LastRunAt),
		NextRunAt:    formatTimePtr(s.NextRunAt),
		LastError:    s.LastError,
		CurrentRetry: s.CurrentRetry,
		CreatedAt:    formatTime(s.CreatedAt),
		UpdatedAt:    formatTime(s.UpdatedAt),
	}
}
