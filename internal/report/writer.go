// Package report пишет итог исследования в файл с меткой времени.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kitbuilder587/deepresearch-bot/internal/domain"
)

// Write сохраняет отчет в каталог dir и возвращает путь к файлу.
// Имя файла содержит метку времени, так что повторные запуски
// ничего не перезаписывают.
func Write(dir, question string, rep *domain.ResearchReport) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}

	name := fmt.Sprintf("research_%s.md", time.Now().Format("20060102_150405"))
	path := filepath.Join(dir, name)

	if err := os.WriteFile(path, []byte(Render(question, rep)), 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}

// Render собирает markdown-текст отчета
func Render(question string, rep *domain.ResearchReport) string {
	var sb strings.Builder

	sb.WriteString("# Deep Research Report\n\n")
	fmt.Fprintf(&sb, "**Question:** %s\n\n", question)
	fmt.Fprintf(&sb, "**Generated:** %s\n\n", time.Now().UTC().Format(time.RFC3339))

	sb.WriteString(rep.Analysis)
	sb.WriteString("\n\n")

	sb.WriteString("## Search history\n\n")
	for _, rec := range rep.SearchHistory {
		fmt.Fprintf(&sb, "%d. %s\n", rec.Round, rec.Query)
	}

	return sb.String()
}
