// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pagination

import (
	"context"
	"errors"
)

// ErrInvalidPage is returned by [Read] when page < 1 or size <= 0.
var ErrInvalidPage = errors.New("pagination: page must be >= 1 and size > 0")

// Order selects the sort key of a child collection.
//
// Key is a store-defined name (e.g. "number", "created"); stores whitelist it
// and always break ties on the primary key so page boundaries are reproducible.
type Order struct {
	Key  string
	Desc bool
}

// Source is the store capability backing [Read].
type Source[T any] interface {
	// Count returns the number of children under parentID.
	Count(ctx context.Context, parentID int64) (int, error)

	// List returns at most limit children starting at offset, sorted by order.
	List(ctx context.Context, parentID int64, offset, limit int, order Order) ([]T, error)
}

// Page is one page of a child collection.
//
// Items is never nil and never longer than PageSize. An out-of-range Page has
// no Items; callers decide whether that is a 404.
type Page[T any] struct {
	Items      []T `json:"items"`
	TotalCount int `json:"total_count"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalPages int `json:"total_pages"`
}

// Meta converts the page into the response envelope metadata.
func (p Page[T]) Meta() Meta {
	return Meta{Page: p.Page, Limit: p.PageSize, Total: p.TotalCount, TotalPages: p.TotalPages}
}

// Read returns page pageNumber (1-based) of parentID's children.
//
// # Flow
//
//  1. One count query.
//  2. offset = (pageNumber - 1) * pageSize.
//  3. One bounded range query, skipped when the offset is past the end.
//
// The page number is not clamped. Store errors are returned unchanged.
func Read[T any](ctx context.Context, source Source[T], parentID int64, pageNumber, pageSize int, order Order) (Page[T], error) {
	if pageNumber < 1 || pageSize <= 0 {
		return Page[T]{}, ErrInvalidPage
	}

	total, err := source.Count(ctx, parentID)
	if err != nil {
		return Page[T]{}, err
	}

	page := Page[T]{
		Items:      []T{},
		TotalCount: total,
		Page:       pageNumber,
		PageSize:   pageSize,
		TotalPages: TotalPages(total, pageSize),
	}

	// Compared in page units so a huge page number cannot overflow the offset.
	if total == 0 || pageNumber-1 > (total-1)/pageSize {
		return page, nil
	}
	offset := (pageNumber - 1) * pageSize

	items, err := source.List(ctx, parentID, offset, pageSize, order)
	if err != nil {
		return Page[T]{}, err
	}

	// Guard against a store that ignores the limit.
	if len(items) > pageSize {
		items = items[:pageSize]
	}
	if items != nil {
		page.Items = items
	}

	return page, nil
}
