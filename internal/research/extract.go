package research

import (
	"strings"

	"github.com/kitbuilder587/deepresearch-bot/internal/analysis"
)

// ExtractNextQuery вытаскивает из текста анализа предложение следующего
// запроса, обернутое в теги next_query. Чистая функция: без тега или
// с пустым содержимым возвращается fallback.
//
// Fallback - это всегда ПЕРВОНАЧАЛЬНЫЙ запрос, а не запрос текущего
// раунда: так цикл не зацикливается на раунде, который не смог
// предложить продолжение. Да, это означает повтор исходного поиска -
// поведение сохранено сознательно и закреплено тестом.
func ExtractNextQuery(text, fallback string) string {
	start := strings.Index(text, analysis.NextQueryStartTag)
	if start == -1 {
		return fallback
	}
	rest := text[start+len(analysis.NextQueryStartTag):]

	end := strings.Index(rest, analysis.NextQueryEndTag)
	if end == -1 {
		return fallback
	}

	query := strings.TrimSpace(rest[:end])
	if query == "" {
		return fallback
	}
	return query
}
