package scrape

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

type CrawlerConfig struct {
	MaxPages   int
	MaxDepth   int
	MaxWorkers int
	RateLimit  float64 // requests per second
	Timeout    time.Duration
	SizeCap    int64
}

// SeenFunc reports whether an article for url is already stored.
type SeenFunc func(ctx context.Context, url string) (bool, error)

type Crawler struct {
	config  CrawlerConfig
	client  *Client
	limiter *rate.Limiter
}

func NewCrawler(config CrawlerConfig) *Crawler {
	if config.MaxPages <= 0 {
		config.MaxPages = 20
	}
	if config.MaxDepth <= 0 {
		config.MaxDepth = 2
	}
	if config.MaxWorkers <= 0 {
		config.MaxWorkers = 5
	}
	if config.RateLimit <= 0 {
		config.RateLimit = 5
	}
	if config.Timeout == 0 {
		config.Timeout = 15 * time.Second
	}
	if config.SizeCap == 0 {
		config.SizeCap = 5 * 1024 * 1024
	}

	return &Crawler{
		config:  config,
		client:  NewClient(config.Timeout, config.SizeCap),
		limiter: rate.NewLimiter(rate.Limit(config.RateLimit), config.MaxWorkers),
	}
}

type queued struct {
	url   string
	depth int
}

type pageResult struct {
	article *Article
	links   []string
	err     error
}

// Crawl walks the start URL's domain breadth-first, one depth level at a time
// in batches of MaxWorkers pages, until MaxPages new articles were extracted.
// Failing to fetch the start URL is an error; later page failures are logged
// and skipped.
func (c *Crawler) Crawl(ctx context.Context, startURL string, seen SeenFunc) ([]Article, error) {
	start, err := url.Parse(startURL)
	if err != nil || start.Host == "" {
		return nil, fmt.Errorf("invalid start url %q", startURL)
	}
	domain := start.Hostname()

	visited := map[string]bool{}
	queue := []queued{{url: startURL, depth: 0}}
	var articles []Article

	for len(queue) > 0 && len(articles) < c.config.MaxPages {
		if err := ctx.Err(); err != nil {
			return articles, err
		}

		depth := queue[0].depth
		var batch []queued
		var stored []bool

		for len(queue) > 0 && queue[0].depth == depth && len(batch) < c.config.MaxWorkers {
			next := queue[0]
			queue = queue[1:]

			if visited[next.url] {
				continue
			}
			visited[next.url] = true

			exists := false
			if seen != nil {
				exists, err = seen(ctx, next.url)
				if err != nil {
					return articles, fmt.Errorf("check %s: %w", next.url, err)
				}
			}

			// a stored page is only worth fetching for its links
			if exists && next.depth >= c.config.MaxDepth {
				continue
			}

			batch = append(batch, next)
			stored = append(stored, exists)
		}

		if len(batch) == 0 {
			continue
		}

		results := c.fetchBatch(ctx, batch, domain)

		for i, res := range results {
			page := batch[i]

			if res.err != nil {
				if page.url == startURL {
					return nil, res.err
				}
				slog.Warn("skipping page", "url", page.url, "error", res.err)
				continue
			}

			if res.article != nil && !stored[i] && len(articles) < c.config.MaxPages {
				articles = append(articles, *res.article)
			}

			if page.depth < c.config.MaxDepth {
				for _, link := range res.links {
					if !visited[link] {
						queue = append(queue, queued{url: link, depth: page.depth + 1})
					}
				}
			}
		}
	}

	return articles, nil
}

func (c *Crawler) fetchBatch(ctx context.Context, batch []queued, domain string) []pageResult {
	results := make([]pageResult, len(batch))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.config.MaxWorkers)

	for i, page := range batch {
		g.Go(func() error {
			results[i] = c.fetchPage(gctx, page.url, domain)
			return nil
		})
	}
	g.Wait()

	return results
}

func (c *Crawler) fetchPage(ctx context.Context, pageURL, domain string) pageResult {
	if err := c.limiter.Wait(ctx); err != nil {
		return pageResult{err: err}
	}

	doc, finalURL, err := c.client.FetchDocument(ctx, pageURL)
	if err != nil {
		return pageResult{err: err}
	}

	links := DomainLinks(doc, finalURL, domain)
	article := ExtractArticle(doc, pageURL)
	if !article.IsArticle() {
		return pageResult{links: links}
	}

	return pageResult{article: &article, links: links}
}
