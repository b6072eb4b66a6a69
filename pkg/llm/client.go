package llm

import (
	"context"
	"fmt"
)

type AnalysisInput struct {
	ArticleID string
	Content   string
}

type Mention struct {
	Keyword   string
	Location  string
	CaseCount int
}

type AnalysisResult struct {
	ArticleID      string
	IsValidArticle bool
	Mentions       []Mention
}

// Analyzer extracts keyword mentions with their location and case count from
// a batch of articles.
type Analyzer interface {
	Analyze(ctx context.Context, keywords []string, articles []AnalysisInput) ([]AnalysisResult, error)
	Name() string
}

func NewAnalyzer(provider, openAIKey, anthropicKey string) (Analyzer, error) {
	switch provider {
	case "", "openai":
		if openAIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required for the openai provider")
		}
		return NewOpenAIClient(openAIKey), nil
	case "anthropic":
		if anthropicKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY is required for the anthropic provider")
		}
		return NewAnthropicClient(anthropicKey), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", provider)
	}
}

// InvalidResults marks every article invalid with no mentions.
func InvalidResults(articles []AnalysisInput) []AnalysisResult {
	results := make([]AnalysisResult, 0, len(articles))
	for _, a := range articles {
		results = append(results, AnalysisResult{ArticleID: a.ArticleID, Mentions: []Mention{}})
	}
	return results
}
