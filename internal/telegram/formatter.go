package telegram

import (
	"fmt"
	"html"
	"strings"

	"github.com/kitbuilder587/deepresearch-bot/internal/domain"
)

// телеграм режет сообщения на 4096 символах, оставляем запас на разметку
const maxMessageLength = 3900

// FormatReport собирает HTML-сообщение с итогом исследования
func FormatReport(rep *domain.ResearchReport) string {
	var sb strings.Builder

	text := rep.Analysis
	if len(text) > maxMessageLength {
		text = text[:maxMessageLength] + "..."
	}
	sb.WriteString(html.EscapeString(text))

	if len(rep.SearchHistory) > 0 {
		sb.WriteString("\n\n━━━━━━━━━━━━━━━━━━━━━\n")
		sb.WriteString("<b>История поиска:</b>\n")
		for _, rec := range rep.SearchHistory {
			fmt.Fprintf(&sb, "%d. %s\n", rec.Round, html.EscapeString(rec.Query))
		}
	}

	return sb.String()
}

// FormatProgress - строка статуса для редактируемого сообщения
func FormatProgress(stage string, round, total int) string {
	switch stage {
	case "searching":
		return fmt.Sprintf("🔍 Раунд %d из %d: ищу...", round, total)
	case "searched":
		return fmt.Sprintf("🧠 Раунд %d из %d: анализирую...", round, total)
	case "done":
		return "✅ Готово, собираю отчет..."
	case "failed":
		return "❌ Исследование прервано из-за ошибки"
	default:
		return fmt.Sprintf("Раунд %d из %d...", round, total)
	}
}

func FormatError(errMsg string) string {
	return "❌ Не получилось завершить исследование:\n<code>" + html.EscapeString(errMsg) + "</code>"
}
