package domain

import (
	"strings"
	"time"
)

const (
	// MinDepth/MaxDepth ограничивают количество раундов одного исследования
	MinDepth = 2
	MaxDepth = 10

	DefaultDepth = 3

	MaxQueryLength = 1000
)

type SearchMode string

const (
	ModeStandard SearchMode = "standard"
	ModeDeep     SearchMode = "deep"
)

func (m SearchMode) IsValid() bool {
	switch m {
	case ModeStandard, ModeDeep:
		return true
	}
	return false
}

func (m SearchMode) String() string { return string(m) }

// SearchItem - один нормализованный результат поиска
type SearchItem struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Content string `json:"content"`
}

// SearchResult - результат одного поискового вызова. Ошибка передается
// через поле Error, а не через error: клиент никогда не паникует
// и не возвращает ошибку через границу контракта.
type SearchResult struct {
	Items     []SearchItem `json:"items"`
	Query     string       `json:"query"`
	Timestamp string       `json:"timestamp"`
	Error     string       `json:"error,omitempty"`
	Mode      SearchMode   `json:"mode"`
}

func (r *SearchResult) Failed() bool { return r.Error != "" }

// AnalysisResult - ответ LLM на один раунд
type AnalysisResult struct {
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
	Error     string `json:"error,omitempty"`
}

func (r *AnalysisResult) Failed() bool { return r.Error != "" }

// RoundRecord - запись истории: какой запрос искали в каком раунде.
// Append-only, записи не мутируются.
type RoundRecord struct {
	Round int    `json:"round"`
	Query string `json:"query"`
}

// RoundAnalysis - анализ одного раунда для итогового отчета
type RoundAnalysis struct {
	Round     int    `json:"round"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
}

// ResearchReport - итог всего исследования
type ResearchReport struct {
	Analysis      string        `json:"analysis"`
	SearchHistory []RoundRecord `json:"search_history"`
	Error         string        `json:"error,omitempty"`
}

func (r *ResearchReport) Failed() bool { return r.Error != "" }

type ResearchRequest struct {
	Query string
	Depth int
}

func (r *ResearchRequest) Validate() error {
	if strings.TrimSpace(r.Query) == "" {
		return ErrEmptyQuery
	}
	if len(r.Query) > MaxQueryLength {
		return ErrQueryTooLong
	}
	return nil
}

func (r *ResearchRequest) Sanitize() {
	r.Query = strings.TrimSpace(r.Query)
	r.Depth = ClampDepth(r.Depth)
}

// ClampDepth приводит запрошенную глубину к допустимому диапазону
func ClampDepth(depth int) int {
	if depth < MinDepth {
		return MinDepth
	}
	if depth > MaxDepth {
		return MaxDepth
	}
	return depth
}

// Now - единый формат временных меток во всех результатах
func Now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
