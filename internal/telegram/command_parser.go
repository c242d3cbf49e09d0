package telegram

import (
	"strconv"
	"strings"

	"github.com/kitbuilder587/deepresearch-bot/internal/domain"
)

// /research вопрос            -> глубина по умолчанию
// /research 5 вопрос          -> глубина 5
// /deep вопрос                -> максимальная глубина
// обычный текст               -> глубина по умолчанию
func ParseResearchCommand(text string, defaultDepth int) (question string, depth int) {
	text = strings.TrimSpace(text)
	depth = defaultDepth

	if text == "" {
		return "", depth
	}

	if !strings.HasPrefix(text, "/") {
		return normalizeSpaces(text), depth
	}

	parts := strings.SplitN(text, " ", 2)
	command := strings.ToLower(parts[0])

	var rest string
	if len(parts) > 1 {
		rest = normalizeSpaces(parts[1])
	}

	switch command {
	case "/deep":
		return rest, domain.MaxDepth
	case "/research":
		// первый токен может быть глубиной: "/research 5 вопрос"
		fields := strings.Fields(rest)
		if len(fields) > 1 {
			if d, err := strconv.Atoi(fields[0]); err == nil {
				return strings.Join(fields[1:], " "), domain.ClampDepth(d)
			}
		}
		return rest, depth
	default:
		return normalizeSpaces(text), depth
	}
}

func normalizeSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
