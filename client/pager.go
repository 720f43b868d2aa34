package client

import (
	"context"
	"fmt"
	"net/url"
)

// ProductPage is one page of catalog results.
type ProductPage struct {
	Products []Product `json:"products"`
	Total    int64     `json:"total"`
	Page     int       `json:"page"`
	Pages    int       `json:"pages"`
}

// ProductFilter narrows a catalog listing. Zero-value fields are omitted.
type ProductFilter struct {
	Category string
	Village  string
	Search   string
}

// Pager fetches successive catalog pages. A returned page shorter than the
// requested limit disables further fetching; a full page only means more
// pages MAY exist, so the page after a final exact-multiple page comes back
// empty and the pager stops then.
type Pager struct {
	client *Client
	filter ProductFilter
	limit  int
	next   int
	done   bool
}

// NewPager starts paging at page 1. Non-positive limits fall back to the
// browsing default of 12.
func (c *Client) NewPager(filter ProductFilter, limit int) *Pager {
	if limit <= 0 {
		limit = 12
	}
	return &Pager{client: c, filter: filter, limit: limit, next: 1}
}

// HasMore reports whether another Next call may return results.
func (p *Pager) HasMore() bool {
	return !p.done
}

// Next fetches the next page. After the listing is exhausted it returns an
// empty page and nil error.
func (p *Pager) Next(ctx context.Context) (ProductPage, error) {
	if p.done {
		return ProductPage{Page: p.next}, nil
	}

	query := url.Values{}
	query.Set("page", fmt.Sprint(p.next))
	query.Set("limit", fmt.Sprint(p.limit))
	if p.filter.Category != "" {
		query.Set("category", p.filter.Category)
	}
	if p.filter.Village != "" {
		query.Set("village", p.filter.Village)
	}
	if p.filter.Search != "" {
		query.Set("search", p.filter.Search)
	}

	var page ProductPage
	if err := p.client.get(ctx, "/api/products?"+query.Encode(), &page); err != nil {
		return ProductPage{}, err
	}

	if len(page.Products) < p.limit {
		p.done = true
	}
	p.next++
	return page, nil
}
