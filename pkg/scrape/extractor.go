package scrape

import (
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const minArticleChars = 200

type Article struct {
	URL         string
	Title       string
	Text        string
	Summary     string
	TopImage    string
	Authors     []string
	Keywords    []string
	PublishDate *time.Time
}

// IsArticle reports whether enough text was extracted to treat the page as an
// article rather than an index or landing page.
func (a Article) IsArticle() bool {
	return a.Title != "" && len(a.Text) >= minArticleChars
}

var whitespaceRe = regexp.MustCompile(`[ \t\r\f\v]+`)

var contentSelectors = []string{
	"[itemprop=articleBody]",
	"article",
	".article-body",
	".article-content",
	".entry-content",
	".post-content",
	"main",
	"#content",
}

var dateSelectors = []struct {
	selector string
	attr     string
}{
	{`meta[property="article:published_time"]`, "content"},
	{`meta[name="article:published_time"]`, "content"},
	{`meta[itemprop="datePublished"]`, "content"},
	{`meta[name="pubdate"]`, "content"},
	{`meta[name="publishdate"]`, "content"},
	{`meta[name="date"]`, "content"},
	{`time[datetime]`, "datetime"},
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC1123,
	time.RFC1123Z,
}

// ExtractArticle pulls the title, body text and metadata out of a parsed page.
// It strips boilerplate elements from doc, so collect links first.
func ExtractArticle(doc *goquery.Document, pageURL string) Article {
	doc.Find("script,noscript,style,nav,footer,header,aside,form,iframe").Remove()

	article := Article{
		URL:         pageURL,
		Title:       extractTitle(doc),
		Text:        extractText(doc),
		Summary:     firstAttr(doc, `meta[name="description"]`, `meta[property="og:description"]`),
		Authors:     extractAuthors(doc),
		Keywords:    extractKeywords(doc),
		PublishDate: extractPublishDate(doc),
	}

	if img := firstAttr(doc, `meta[property="og:image"]`, `meta[name="twitter:image"]`); img != "" {
		article.TopImage = resolve(pageURL, img)
	}

	return article
}

func extractTitle(doc *goquery.Document) string {
	if t := firstAttr(doc, `meta[property="og:title"]`, `meta[name="twitter:title"]`); t != "" {
		return t
	}
	if h1 := cleanText(doc.Find("h1").First().Text()); h1 != "" {
		return h1
	}
	return cleanText(doc.Find("title").First().Text())
}

func extractText(doc *goquery.Document) string {
	for _, selector := range contentSelectors {
		if sel := doc.Find(selector).First(); sel.Length() > 0 {
			if text := paragraphs(sel); text != "" {
				return text
			}
		}
	}
	return paragraphs(doc.Find("body"))
}

func paragraphs(sel *goquery.Selection) string {
	var parts []string
	sel.Find("p").Each(func(_ int, p *goquery.Selection) {
		if text := cleanText(p.Text()); text != "" {
			parts = append(parts, text)
		}
	})
	return strings.Join(parts, "\n\n")
}

func extractAuthors(doc *goquery.Document) []string {
	seen := map[string]bool{}
	authors := []string{}

	add := func(name string) {
		name = cleanText(name)
		if name == "" || seen[strings.ToLower(name)] {
			return
		}
		seen[strings.ToLower(name)] = true
		authors = append(authors, name)
	}

	doc.Find(`meta[name="author"], meta[property="article:author"]`).Each(func(_ int, s *goquery.Selection) {
		add(s.AttrOr("content", ""))
	})
	doc.Find(`[rel="author"], [itemprop="author"]`).Each(func(_ int, s *goquery.Selection) {
		add(s.Text())
	})

	return authors
}

func extractKeywords(doc *goquery.Document) []string {
	var keywords []string
	raw := doc.Find(`meta[name="keywords"]`).AttrOr("content", "")
	for _, k := range strings.Split(raw, ",") {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			keywords = append(keywords, k)
		}
	}
	return keywords
}

func extractPublishDate(doc *goquery.Document) *time.Time {
	for _, ds := range dateSelectors {
		value := strings.TrimSpace(doc.Find(ds.selector).First().AttrOr(ds.attr, ""))
		if value == "" {
			continue
		}
		if t, ok := parseDate(value); ok {
			return &t
		}
	}
	return nil
}

func parseDate(value string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

func firstAttr(doc *goquery.Document, selectors ...string) string {
	for _, selector := range selectors {
		if v := cleanText(doc.Find(selector).First().AttrOr("content", "")); v != "" {
			return v
		}
	}
	return ""
}

func cleanText(s string) string {
	lines := strings.Split(s, "\n")
	out := lines[:0]
	for _, line := range lines {
		if line = strings.TrimSpace(whitespaceRe.ReplaceAllString(line, " ")); line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, " ")
}

func resolve(base, ref string) string {
	b, err := url.Parse(base)
	if err != nil {
		return ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}
