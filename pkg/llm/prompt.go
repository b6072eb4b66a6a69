package llm

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const maxContentChars = 8000

const systemPrompt = `You are an epidemiological news analyst. You read news articles and report
new cases or outbreaks of the diseases you are asked about. Respond with JSON only.`

// truncate cuts s to at most max bytes without splitting a rune.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max] + "..."
}

func buildAnalysisPrompt(keywords []string, articles []AnalysisInput) string {
	var sb strings.Builder
	for i, a := range articles {
		sb.WriteString(fmt.Sprintf("\n\n----------Article Count: %d----------\n", i))
		sb.WriteString(truncate(strings.TrimSpace(a.Content), maxContentChars))
		sb.WriteString("\n\n")
	}

	return fmt.Sprintf(`Analyze the following news articles to detect if they report new cases of diseases from this list: %s.

Articles:
%s

Instructions:
1. For each article, determine if it's a valid news article (not an advertisement or irrelevant content)
2. Identify any mentions of active cases or outbreaks of the listed diseases
3. Extract the following for each disease mention:
   - Disease name (keyword)
   - Location of the outbreak (use 'unknown' if not specified)
   - Number of cases (use exact number when stated, assume 1 for unspecified cases)
4. Return the count of the article and the extracted data for each disease mention.

Format requirements:
- Return a JSON array where each object represents an article analysis
- Each object must include:
  - article_count: integer (the Article Count shown above)
  - is_valid_article: boolean
  - data: array of disease mentions (empty array if none found)
- Each disease mention in data must include:
  - keyword: string (the disease name)
  - location: string (the outbreak location, 'unknown' if not mentioned)
  - case_count: integer (number of cases)
- Include an analysis for every article, even if no diseases are mentioned
- If the article is invalid, still include it with an empty data array`, strings.Join(keywords, ", "), sb.String())
}
