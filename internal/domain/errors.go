package domain

import "errors"

var (
	ErrEmptyQuery   = errors.New("empty query")
	ErrQueryTooLong = errors.New("query too long")
)

var (
	ErrSearchFailed   = errors.New("search request failed")
	ErrAnalysisFailed = errors.New("analysis request failed")
	ErrBadFormat      = errors.New("unexpected response format")
)

var (
	ErrInternal    = errors.New("internal error")
	ErrRateLimited = errors.New("rate limit exceeded")
)
