package client

import (
	"context"
	"net/url"
	"strconv"
)

// ListParams are the cursor-pagination parameters shared by the list
// endpoints.
type ListParams struct {
	// Limit is the page size (1-1000). Zero uses the server default.
	Limit int
	// AfterID returns the page following the object with this ID.
	AfterID string
	// BeforeID returns the page preceding the object with this ID.
	BeforeID string
}

func (p ListParams) query() url.Values {
	q := url.Values{}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.AfterID != "" {
		q.Set("after_id", p.AfterID)
	}
	if p.BeforeID != "" {
		q.Set("before_id", p.BeforeID)
	}
	return q
}

// Page is one page of a cursor-paginated list.
type Page[T any] struct {
	Data    []T    `json:"data"`
	HasMore bool   `json:"has_more"`
	FirstID string `json:"first_id"`
	LastID  string `json:"last_id"`

	fetch func(ctx context.Context, afterID string) (*Page[T], error)
}

// NextPage fetches the page after this one, or returns nil when the list
// is exhausted.
func (p *Page[T]) NextPage(ctx context.Context) (*Page[T], error) {
	if !p.HasMore || p.LastID == "" || p.fetch == nil {
		return nil, nil
	}
	return p.fetch(ctx, p.LastID)
}

// listPage fetches one page and wires up cursor continuation.
func listPage[T any](ctx context.Context, c *Client, path string, params ListParams) (*Page[T], error) {
	var page Page[T]
	if err := c.doJSON(ctx, "GET", path, params.query(), nil, &page); err != nil {
		return nil, err
	}
	page.fetch = func(ctx context.Context, afterID string) (*Page[T], error) {
		next := params
		next.AfterID = afterID
		next.BeforeID = ""
		return listPage[T](ctx, c, path, next)
	}
	return &page, nil
}
