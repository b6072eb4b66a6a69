package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"newsbug/internal/model"
	"newsbug/pkg/geocode"
	"newsbug/pkg/llm"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AnalysisStore interface {
	GetBatchForAnalysis(ctx context.Context, limit int) ([]model.Article, error)
	SaveAnalysis(ctx context.Context, analyses []model.ArticleAnalysis) error
}

type KeywordLookup interface {
	GetKeywords(ctx context.Context, categoryID string) ([]string, error)
}

type LocationEnricher interface {
	Enrich(ctx context.Context, locations []string) map[string]geocode.Point
}

type AnalyzeRunner struct {
	articles  AnalysisStore
	keywords  KeywordLookup
	analyzer  llm.Analyzer
	geocoder  LocationEnricher
	batchSize int
}

func NewAnalyzeRunner(articles AnalysisStore, keywords KeywordLookup, analyzer llm.Analyzer, geocoder LocationEnricher, batchSize int) *AnalyzeRunner {
	if batchSize <= 0 {
		batchSize = 10
	}
	return &AnalyzeRunner{
		articles:  articles,
		keywords:  keywords,
		analyzer:  analyzer,
		geocoder:  geocoder,
		batchSize: batchSize,
	}
}

// RunOnce analyses one batch of extracted articles from a single source and
// marks them completed. It returns the number of articles processed; zero
// means nothing was pending.
func (r *AnalyzeRunner) RunOnce(ctx context.Context) (int, error) {
	batch, err := r.articles.GetBatchForAnalysis(ctx, r.batchSize)
	if err != nil {
		return 0, fmt.Errorf("get analysis batch: %w", err)
	}

	if len(batch) == 0 {
		return 0, nil
	}

	keywords := r.categoryKeywords(ctx, batch[0])

	inputs := make([]llm.AnalysisInput, 0, len(batch))
	for _, a := range batch {
		inputs = append(inputs, llm.AnalysisInput{
			ArticleID: a.ID.Hex(),
			Content:   strings.TrimSpace(a.Title + "\n\n" + a.Content),
		})
	}

	var results []llm.AnalysisResult
	if len(keywords) == 0 {
		slog.Warn("no keywords for category, marking batch invalid", "category_id", batch[0].CategoryID)
		results = llm.InvalidResults(inputs)
	} else {
		results, err = r.analyzer.Analyze(ctx, keywords, inputs)
		if errors.Is(err, llm.ErrMalformedResponse) {
			slog.Error("unparseable analysis, marking batch invalid", "analyzer", r.analyzer.Name(), "error", err)
			results = llm.InvalidResults(inputs)
		} else if err != nil {
			return 0, fmt.Errorf("analyze batch: %w", err)
		}
	}

	analyses := r.toAnalyses(ctx, results)
	if err := r.articles.SaveAnalysis(ctx, analyses); err != nil {
		return 0, fmt.Errorf("save analysis: %w", err)
	}

	slog.Info("analysis batch saved", "source_id", batch[0].SourceID, "articles", len(analyses), "analyzer", r.analyzer.Name())
	return len(analyses), nil
}

// categoryKeywords prefers the category's current keywords and falls back to
// the ones captured when the article was scraped.
func (r *AnalyzeRunner) categoryKeywords(ctx context.Context, article model.Article) []string {
	keywords, err := r.keywords.GetKeywords(ctx, article.CategoryID)
	if err != nil {
		slog.Warn("error fetching category keywords", "category_id", article.CategoryID, "error", err)
	}

	if len(keywords) == 0 {
		return article.Metadata.CategoryKeywords
	}
	return keywords
}

func (r *AnalyzeRunner) toAnalyses(ctx context.Context, results []llm.AnalysisResult) []model.ArticleAnalysis {
	var locations []string
	for _, res := range results {
		for _, m := range res.Mentions {
			locations = append(locations, m.Location)
		}
	}

	points := r.geocoder.Enrich(ctx, locations)

	analyses := make([]model.ArticleAnalysis, 0, len(results))
	for _, res := range results {
		id, err := primitive.ObjectIDFromHex(res.ArticleID)
		if err != nil {
			slog.Error("invalid article id in analysis", "article_id", res.ArticleID, "error", err)
			continue
		}

		keywords := make([]model.Keyword, 0, len(res.Mentions))
		for _, m := range res.Mentions {
			p := points[m.Location]
			keywords = append(keywords, model.Keyword{
				Keyword:   m.Keyword,
				Location:  m.Location,
				CaseCount: m.CaseCount,
				Latitude:  p.Latitude,
				Longitude: p.Longitude,
			})
		}

		analyses = append(analyses, model.ArticleAnalysis{
			ArticleID:      id,
			IsArticleValid: res.IsValidArticle,
			Keywords:       keywords,
		})
	}

	return analyses
}
