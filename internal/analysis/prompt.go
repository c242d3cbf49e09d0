package analysis

import (
	"fmt"
	"strings"
)

const systemPrompt = `You are an expert research analyst conducting multi-round deep research.

Rules:
1. Use ONLY information from the provided search results
2. Reference sources as [S1], [S2], etc.
3. Build on the previous round's analysis instead of repeating it
4. If information is insufficient or contradictory, say so honestly
5. Structure: key findings, evidence, open questions`

// NextQueryStartTag/NextQueryEndTag размечают предложение следующего
// запроса в тексте анализа - единственный механизм управления циклом
const (
	NextQueryStartTag = "<next_query>"
	NextQueryEndTag   = "</next_query>"
)

// BuildPrompt собирает user-промпт одного раунда: вопрос, прошлый анализ,
// история запросов и текущие результаты поиска
func BuildPrompt(req Request) string {
	var sb strings.Builder

	sb.WriteString("Research question: ")
	sb.WriteString(req.Question)
	sb.WriteString("\n\n")

	fmt.Fprintf(&sb, "This is round %d of %d.\n\n", req.Round, req.TotalRounds)

	if req.PreviousAnalysis != "" {
		sb.WriteString("Previous round analysis:\n")
		sb.WriteString(req.PreviousAnalysis)
		sb.WriteString("\n\n")
	}

	if len(req.History) > 0 {
		sb.WriteString("Search queries used so far:\n")
		for _, rec := range req.History {
			fmt.Fprintf(&sb, "%d. %s\n", rec.Round, rec.Query)
		}
		sb.WriteString("\n")
	}

	sb.WriteString("Search results for this round:\n\n")
	for i, item := range req.SearchResult.Items {
		fmt.Fprintf(&sb, "[S%d] %s\nURL: %s\n%s\n\n", i+1, item.Title, item.URL, item.Content)
	}

	if req.Round < req.TotalRounds {
		fmt.Fprintf(&sb,
			"After your analysis, suggest ONE follow-up search query for the next round that would fill the biggest remaining gap. Wrap it exactly as %squery text%s.\n",
			NextQueryStartTag, NextQueryEndTag,
		)
	}

	return sb.String()
}
