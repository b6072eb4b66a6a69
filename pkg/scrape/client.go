// Package scrape fetches source pages, follows same-domain links and extracts
// article text and metadata.
package scrape

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"
)

const userAgent = "newsbug-scraper/1.0"

type Client struct {
	httpClient *http.Client
	sizeCap    int64
}

func NewClient(timeout time.Duration, sizeCap int64) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		sizeCap:    sizeCap,
	}
}

// FetchDocument downloads an HTML page, decodes it to UTF-8 and parses it.
// The returned URL is the final URL after redirects.
func (c *Client) FetchDocument(ctx context.Context, rawURL string) (*goquery.Document, string, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, "", fmt.Errorf("invalid url %q", rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 400 {
		return nil, "", fmt.Errorf("fetch %s: http status %d", rawURL, resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if mediaType, _, _ := mime.ParseMediaType(contentType); mediaType != "" &&
		!strings.Contains(mediaType, "html") {
		return nil, "", fmt.Errorf("fetch %s: non-html content %q", rawURL, mediaType)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.sizeCap))
	if err != nil {
		return nil, "", fmt.Errorf("read %s: %w", rawURL, err)
	}

	enc, _, _ := charset.DetermineEncoding(data, contentType)
	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		if !utf8.Valid(data) {
			return nil, "", fmt.Errorf("decode %s: %w", rawURL, err)
		}
		decoded = data
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(decoded))
	if err != nil {
		return nil, "", fmt.Errorf("parse %s: %w", rawURL, err)
	}

	return doc, resp.Request.URL.String(), nil
}
