package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"newsbug/internal/model"
	"newsbug/pkg/scrape"
)

var ErrSourceNotFound = errors.New("source not found")

type SourceStore interface {
	ExecutionRecorder
	GetByID(ctx context.Context, id string) (*model.Source, error)
}

type CategoryStore interface {
	GetByID(ctx context.Context, id string) (*model.Category, error)
}

type ArticleWriter interface {
	ExistsByURL(ctx context.Context, url string) (bool, error)
	Insert(ctx context.Context, article *model.Article) (bool, error)
}

type Crawler interface {
	Crawl(ctx context.Context, startURL string, seen scrape.SeenFunc) ([]scrape.Article, error)
}

type ScrapeRunner struct {
	sources    SourceStore
	categories CategoryStore
	articles   ArticleWriter
	crawler    Crawler
	now        func() time.Time
}

func NewScrapeRunner(sources SourceStore, categories CategoryStore, articles ArticleWriter, crawler Crawler) *ScrapeRunner {
	return &ScrapeRunner{
		sources:    sources,
		categories: categories,
		articles:   articles,
		crawler:    crawler,
		now:        time.Now,
	}
}

// Run crawls the job's source, stores the new articles and records the
// execution on the source. The returned error is non-nil only when the
// outcome could not be recorded.
func (r *ScrapeRunner) Run(ctx context.Context, job model.ScrapeJob) error {
	source, err := r.sources.GetByID(ctx, job.SourceID)
	if err != nil {
		return fmt.Errorf("load source %s: %w", job.SourceID, err)
	}

	if source == nil {
		return fmt.Errorf("%w: %s", ErrSourceNotFound, job.SourceID)
	}

	exec := model.JobExecution{
		ID:        job.JobID,
		StartedAt: r.now().UTC(),
		Status:    model.ExecutionRunning,
	}

	slog.Info("scraping source", "source_id", job.SourceID, "job_id", job.JobID, "url", source.URL)

	inserted, found, err := r.scrape(ctx, source)

	// the outcome is written even when shutdown cancelled the crawl
	recordCtx := context.WithoutCancel(ctx)
	if err != nil {
		return recordFailure(recordCtx, r.sources, source, exec, err, r.now().UTC())
	}

	exec.Metadata = map[string]any{
		"articles":      inserted,
		"articlesFound": found,
	}

	slog.Info("source scraped", "source_id", job.SourceID, "job_id", job.JobID, "articles", inserted, "found", found)
	return recordSuccess(recordCtx, r.sources, source, exec, r.now().UTC())
}

func (r *ScrapeRunner) scrape(ctx context.Context, source *model.Source) (int, int, error) {
	category, err := r.categories.GetByID(ctx, source.CategoryID)
	if err != nil {
		return 0, 0, fmt.Errorf("load category: %w", err)
	}

	if category == nil {
		return 0, 0, fmt.Errorf("category %s not found", source.CategoryID)
	}

	pages, err := r.crawler.Crawl(ctx, source.URL, r.articles.ExistsByURL)
	if err != nil {
		return 0, 0, err
	}

	inserted := 0
	for _, page := range pages {
		article := toArticle(page, source, category)

		created, err := r.articles.Insert(ctx, &article)
		if err != nil {
			slog.Error("error saving article", "source_id", article.SourceID, "url", page.URL, "error", err)
			continue
		}

		if !created {
			slog.Info("duplicate article skipped", "source_id", article.SourceID, "url", page.URL)
			continue
		}

		inserted++
	}

	return inserted, len(pages), nil
}

func toArticle(page scrape.Article, source *model.Source, category *model.Category) model.Article {
	return model.Article{
		Title:       page.Title,
		Content:     page.Text,
		Summary:     page.Summary,
		SourceID:    source.ID.Hex(),
		CategoryID:  source.CategoryID,
		URL:         page.URL,
		PublishDate: page.PublishDate,
		Keywords:    []model.Keyword{},
		Status:      model.ArticleDataExtracted,
		Metadata: model.ArticleMetadata{
			Authors:          nonNil(page.Authors),
			TopImage:         page.TopImage,
			PageKeywords:     page.Keywords,
			CategoryKeywords: nonNil(category.Keywords),
			MatchedKeywords:  scrape.MatchKeywords(strings.Join([]string{page.Title, page.Text}, "\n"), category.Keywords),
		},
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
