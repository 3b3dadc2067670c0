package mc

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/mcextract/mcextract/internal/model"
)

// DefaultPageSize is the page size used when a PageQuery leaves it unset.
const DefaultPageSize = 200

// Page is the envelope the REST listing endpoints wrap collections in.
// A response without an items field decodes to an empty page.
type Page[T any] struct {
	Items     []T `json:"items"`
	Page      int `json:"page"`
	PageCount int `json:"pageCount"`
}

// PageQuery carries the listing parameters: page size, ordering, and
// field projection.
type PageQuery struct {
	PageSize int
	OrderBy  string
	Fields   []string
}

func (q PageQuery) encode(page int) url.Values {
	size := q.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	v := url.Values{}
	v.Set("$page", strconv.Itoa(page))
	v.Set("$pageSize", strconv.Itoa(size))
	if q.OrderBy != "" {
		v.Set("$orderBy", q.OrderBy)
	}
	if len(q.Fields) > 0 {
		v.Set("$fields", strings.Join(q.Fields, ","))
	}
	return v
}

// FetchAllPages walks a REST listing endpoint page by page, starting at
// page 1, and accumulates every item in server order. Pages are fetched
// strictly sequentially: the next page is not requested until the current
// response reports a page number still below the page count.
//
// Any page failure aborts the walk with no partial results.
func FetchAllPages[T any](ctx context.Context, c *Client, token model.Token, path string, q PageQuery) ([]T, error) {
	var all []T
	for page := 1; ; page++ {
		var resp Page[T]
		pagedPath := path + "?" + q.encode(page).Encode()
		if err := c.get(ctx, token, pagedPath, &resp); err != nil {
			return nil, fmt.Errorf("fetch page %d of %s: %w", page, path, err)
		}
		c.metrics.IncPageFetched()
		all = append(all, resp.Items...)

		if resp.Page >= resp.PageCount {
			return all, nil
		}
	}
}
