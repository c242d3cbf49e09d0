package search

import (
	"context"

	"github.com/kitbuilder587/deepresearch-bot/internal/domain"
)

// Client - провайдер веб-поиска. Ошибки не пересекают границу контракта:
// при любом сбое возвращается результат с заполненным полем Error,
// чтобы оркестратор мог сам решить, прерывать ли исследование.
type Client interface {
	Search(ctx context.Context, query string, mode domain.SearchMode) *domain.SearchResult
}

// ModeParams - настройки запроса для одного режима поиска
type ModeParams struct {
	NumResults    int // сколько результатов просим у провайдера
	MaxCharacters int // длина сниппета
	MaxItems      int // до скольких результатов обрезаем ответ
}

// DefaultModeParams - тюнинг по умолчанию: deep-режим просит больше
// результатов с длинными сниппетами
func DefaultModeParams(mode domain.SearchMode) ModeParams {
	if mode == domain.ModeDeep {
		return ModeParams{NumResults: 10, MaxCharacters: 3000, MaxItems: 10}
	}
	return ModeParams{NumResults: 5, MaxCharacters: 1000, MaxItems: 5}
}
