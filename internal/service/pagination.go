package service

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type ListParams struct {
	Page     int
	PageSize int
	Search   string
}

func (p *ListParams) normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	p.Search = strings.TrimSpace(p.Search)
}

// Page is one page of a listing plus the total row count.
type Page[T any] struct {
	Items    []T
	Total    int64
	Page     int
	PageSize int
}

func (p Page[T]) TotalPages() int {
	if p.PageSize == 0 {
		return 0
	}
	return int((p.Total + int64(p.PageSize) - 1) / int64(p.PageSize))
}

// paginate counts the rows matched by q, then loads the requested page.
// Preloads apply only to the page query.
func paginate[T any](q *gorm.DB, p ListParams, order string, preloads ...string) (Page[T], error) {
	p.normalize()
	base := q.Session(&gorm.Session{})

	page := Page[T]{Page: p.Page, PageSize: p.PageSize}
	if err := base.Count(&page.Total).Error; err != nil {
		return page, fmt.Errorf("failed to count rows: %w", err)
	}

	find := base.Order(order).Offset((p.Page - 1) * p.PageSize).Limit(p.PageSize)
	for _, rel := range preloads {
		find = find.Preload(rel)
	}
	page.Items = make([]T, 0, p.PageSize)
	if err := find.Find(&page.Items).Error; err != nil {
		return page, fmt.Errorf("failed to list rows: %w", err)
	}
	return page, nil
}

// searchLike adds a case-insensitive substring match over the given columns.
func searchLike(q *gorm.DB, term string, columns ...string) *gorm.DB {
	if term == "" || len(columns) == 0 {
		return q
	}
	pattern := "%" + strings.ToLower(term) + "%"
	conds := make([]string, len(columns))
	args := make([]any, len(columns))
	for i, col := range columns {
		conds[i] = "LOWER(" + col + ") LIKE ?"
		args[i] = pattern
	}
	return q.Where(strings.Join(conds, " OR "), args...)
}
