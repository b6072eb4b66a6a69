package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var nowFunc = time.Now

func respond(c *gin.Context, status int, data any) {
	c.JSON(status, Response{Success: true, Data: data})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, Response{Success: false, Error: message})
}

func respondValidation(c *gin.Context, errs map[string][]string) {
	c.JSON(http.StatusBadRequest, Response{Success: false, Message: "Validation failed", Errors: errs})
}

func validID(c *gin.Context, kind string) (string, bool) {
	id := c.Param("id")
	if !primitive.IsValidObjectID(id) {
		slog.Warn("invalid id", "kind", kind, "id", id)
		respondError(c, http.StatusBadRequest, "Invalid "+kind+" id")
		return "", false
	}
	return id, true
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}

// getQueryIntPtr returns nil when the parameter is absent or malformed.
func getQueryIntPtr(name string, c *gin.Context) *int {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}

	parsed, err := strconv.Atoi(raw)
	if err != nil {
		slog.Warn("invalid query parameter, ignoring", "param", name, "value", raw, "error", err)
		return nil
	}

	return &parsed
}

// getQueryTime accepts RFC3339 timestamps or plain dates.
func getQueryTime(name string, c *gin.Context) *time.Time {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil
	}

	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t
		}
	}

	slog.Warn("invalid query parameter, ignoring", "param", name, "value", raw)
	return nil
}
