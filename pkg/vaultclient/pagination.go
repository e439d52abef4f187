package vaultclient

import (
	"context"
	"encoding/json"
	"fmt"
)

// PageOptions control FetchAllPages.
type PageOptions struct {
	PageSize int
	// FetchAll follows next_page_token until exhausted. Without it only
	// the first page is returned.
	FetchAll bool
	// MaxResults caps both the page size and the number of results. Zero
	// means unlimited.
	MaxResults int
}

// DefaultPageOptions fetches every page, 50 items at a time.
func DefaultPageOptions() PageOptions {
	return PageOptions{PageSize: 50, FetchAll: true}
}

// FetchAllPages walks a cursor-paginated list endpoint and returns the
// items found under key in each page.
func (c *Client) FetchAllPages(ctx context.Context, method, endpoint string, params map[string]any, key string, opts PageOptions) ([]json.RawMessage, error) {
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageOptions().PageSize
	}
	if opts.MaxResults > 0 && opts.MaxResults < pageSize {
		pageSize = opts.MaxResults
	}

	query := make(map[string]any, len(params)+2)
	for k, v := range params {
		query[k] = v
	}
	query["page_size"] = pageSize

	var results []json.RawMessage
	for {
		var page map[string]json.RawMessage
		if err := c.Do(ctx, method, endpoint, query, nil, &page); err != nil {
			return nil, err
		}

		if raw, ok := page[key]; ok && string(raw) != "null" {
			var items []json.RawMessage
			if err := json.Unmarshal(raw, &items); err != nil {
				return nil, fmt.Errorf("vaultclient: %s key %q is not a list: %w", endpoint, key, err)
			}
			results = append(results, items...)
		}

		if opts.MaxResults > 0 && len(results) >= opts.MaxResults {
			return results[:opts.MaxResults], nil
		}

		var next string
		if raw, ok := page["next_page_token"]; ok {
			_ = json.Unmarshal(raw, &next)
		}
		if next == "" || !opts.FetchAll {
			return results, nil
		}
		query["page_token"] = next
	}
}

// FetchAll is FetchAllPages decoding each item into T.
func FetchAll[T any](ctx context.Context, c *Client, method, endpoint string, params map[string]any, key string, opts PageOptions) ([]T, error) {
	raws, err := c.FetchAllPages(ctx, method, endpoint, params, key, opts)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(raws))
	for _, raw := range raws {
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("vaultclient: decode %s item: %w", endpoint, err)
		}
		out = append(out, v)
	}
	return out, nil
}
