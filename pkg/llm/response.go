package llm

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

func cleanJSONResponse(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	// Some model responses include extra prose around JSON.
	start := strings.IndexAny(content, "[{")
	if start < 0 {
		return content
	}
	closer := "}"
	if content[start] == '[' {
		closer = "]"
	}
	end := strings.LastIndex(content, closer)
	if end > start {
		content = content[start : end+1]
	}
	return content
}

// ErrMalformedResponse marks a model answer that could not be parsed.
var ErrMalformedResponse = errors.New("malformed analysis response")

type rawAnalysis struct {
	ArticleCount   *int         `json:"article_count"`
	IsValidArticle bool         `json:"is_valid_article"`
	Data           []rawMention `json:"data"`
}

type rawMention struct {
	Keyword   *string         `json:"keyword"`
	Location  *string         `json:"location"`
	CaseCount json.RawMessage `json:"case_count"`
}

// parseAnalysisResponse maps each analysis back to its article through
// article_count. Articles the model skipped come back invalid with no mentions.
func parseAnalysisResponse(content string, articles []AnalysisInput) ([]AnalysisResult, error) {
	var parsed []rawAnalysis
	if err := json.Unmarshal([]byte(cleanJSONResponse(content)), &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v, content: %s", ErrMalformedResponse, err, content)
	}

	answered := make(map[int]bool, len(parsed))
	results := make([]AnalysisResult, 0, len(articles))

	for _, item := range parsed {
		if item.ArticleCount == nil || *item.ArticleCount < 0 || *item.ArticleCount >= len(articles) {
			slog.Warn("invalid article_count in response", "article_count", item.ArticleCount)
			continue
		}

		idx := *item.ArticleCount
		if answered[idx] {
			continue
		}
		answered[idx] = true

		mentions := []Mention{}
		for _, m := range item.Data {
			if m.Keyword == nil || m.Location == nil || len(m.CaseCount) == 0 {
				continue
			}
			mentions = append(mentions, Mention{
				Keyword:   strings.TrimSpace(*m.Keyword),
				Location:  strings.TrimSpace(*m.Location),
				CaseCount: coerceCaseCount(m.CaseCount),
			})
		}

		results = append(results, AnalysisResult{
			ArticleID:      articles[idx].ArticleID,
			IsValidArticle: item.IsValidArticle,
			Mentions:       mentions,
		})
	}

	for i, a := range articles {
		if !answered[i] {
			slog.Warn("no response received for article", "article_id", a.ArticleID)
			results = append(results, AnalysisResult{ArticleID: a.ArticleID, Mentions: []Mention{}})
		}
	}

	return results, nil
}

// coerceCaseCount accepts numbers and integer strings. Fractions are truncated;
// null or anything else counts as one case.
func coerceCaseCount(raw json.RawMessage) int {
	if string(bytes.TrimSpace(raw)) == "null" {
		return 1
	}

	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return int(n)
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if v, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return v
		}
	}

	return 1
}
