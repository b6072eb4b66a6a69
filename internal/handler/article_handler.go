package handler

import (
	"context"
	"log/slog"
	"net/http"

	"newsbug/internal/keyword"
	"newsbug/internal/model"

	"github.com/gin-gonic/gin"
)

type ArticleStore interface {
	GetCompletedByCategory(ctx context.Context, categoryID string) ([]model.Article, error)
	GetKeywords(ctx context.Context, categoryID string) ([]model.KeywordDetails, error)
}

type ArticleHandler struct {
	repository ArticleStore
}

func NewArticleHandler(repository ArticleStore) *ArticleHandler {
	return &ArticleHandler{repository: repository}
}

func (h *ArticleHandler) GetArticles(c *gin.Context) {
	categoryID, valid := validID(c, "category")
	if !valid {
		return
	}

	articles, err := h.repository.GetCompletedByCategory(c.Request.Context(), categoryID)
	if err != nil {
		slog.Error("error fetching articles", "error", err, "category_id", categoryID)
		respondError(c, http.StatusInternalServerError, "Error fetching articles")
		return
	}

	res := make([]ArticleResponse, 0, len(articles))
	for _, a := range articles {
		keywords := make([]KeywordResponse, 0, len(a.Keywords))
		for _, k := range a.Keywords {
			keywords = append(keywords, KeywordResponse{
				Keyword:   k.Keyword,
				Location:  k.Location,
				CaseCount: k.CaseCount,
				Latitude:  k.Latitude,
				Longitude: k.Longitude,
			})
		}

		res = append(res, ArticleResponse{
			ID:             a.ID.Hex(),
			Title:          a.Title,
			Content:        a.Content,
			Summary:        a.Summary,
			SourceID:       a.SourceID,
			CategoryID:     a.CategoryID,
			URL:            a.URL,
			PublishedDate:  formatTimePtr(a.PublishDate),
			Keywords:       keywords,
			IsArticleValid: a.IsArticleValid,
			CreatedAt:      formatTime(a.CreatedAt),
			UpdatedAt:      formatTime(a.UpdatedAt),
		})
	}

	respond(c, http.StatusOK, res)
}

// GetKeywords returns the category's keyword rows narrowed by the table
// filters. caseRange is computed over the unfiltered rows.
func (h *ArticleHandler) GetKeywords(c *gin.Context) {
	rows, valid := h.loadKeywords(c)
	if !valid {
		return
	}

	filtered := keyword.Apply(rows, keywordFilter(c))
	lo, hi := keyword.CaseCountRange(rows)

	res := KeywordsResponse{
		Keywords:  make([]KeywordDetailsResponse, 0, len(filtered)),
		Total:     len(rows),
		Count:     len(filtered),
		CaseRange: CaseRange{Min: lo, Max: hi},
	}

	for _, k := range filtered {
		res.Keywords = append(res.Keywords, KeywordDetailsResponse{
			ID:        k.ID,
			Keyword:   k.Keyword,
			CaseCount: k.CaseCount,
			Location:  k.Location,
			Latitude:  k.Latitude,
			Longitude: k.Longitude,
			ArticleID: k.ArticleID,
			SourceID:  k.SourceID,
			Date:      formatTime(k.Date),
		})
	}

	respond(c, http.StatusOK, res)
}

func (h *ArticleHandler) GetKeywordMap(c *gin.Context) {
	rows, valid := h.loadKeywords(c)
	if !valid {
		return
	}

	filtered := keyword.Apply(rows, keywordFilter(c))
	lat, lng := keyword.Center(filtered)

	respond(c, http.StatusOK, MapResponse{
		Center:     LatLng{Latitude: lat, Longitude: lng},
		TotalCases: keyword.TotalCases(filtered),
		GeoJSON:    keyword.ToFeatureCollection(filtered),
	})
}

func (h *ArticleHandler) loadKeywords(c *gin.Context) ([]model.KeywordDetails, bool) {
	categoryID, valid := validID(c, "category")
	if !valid {
		return nil, false
	}

	rows, err := h.repository.GetKeywords(c.Request.Context(), categoryID)
	if err != nil {
		slog.Error("error fetching keywords", "error", err, "category_id", categoryID)
		respondError(c, http.StatusInternalServerError, "Error fetching keywords")
		return nil, false
	}

	return rows, true
}

// keywordFilter reads keyword, min_cases, max_cases, from and to. A days
// preset replaces from and to.
func keywordFilter(c *gin.Context) keyword.Filter {
	f := keyword.Filter{
		Keyword:  c.Query("keyword"),
		MinCases: getQueryIntPtr("min_cases", c),
		MaxCases: getQueryIntPtr("max_cases", c),
		From:     getQueryTime("from", c),
		To:       getQueryTime("to", c),
	}

	if days := getQueryIntPtr("days", c); days != nil && *days >= 0 {
		from, to := keyword.PresetRange(*days, nowFunc())
		f.From, f.To = &from, &to
	}

	return f
}
