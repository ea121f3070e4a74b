package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// Search runs the live search for query.
func (c *Client) Search(ctx context.Context, query string) (SearchResponse, error) {
	q := url.Values{}
	q.Set("q", query)
	var out SearchResponse
	err := c.do(ctx, http.MethodGet, "/api/search", q, nil, &out)
	return out, err
}

// AdvancedQuery carries the filter, sort, and pagination parameters of an
// advanced search. Zero values are left out of the request.
type AdvancedQuery struct {
	Query     string
	AgeMin    int
	AgeMax    int
	Courses   []string
	SortBy    string // name, student_id, age, created_at
	SortOrder string // asc or desc
	Limit     int
	Offset    int
}

func (aq AdvancedQuery) values() url.Values {
	q := url.Values{}
	if aq.Query != "" {
		q.Set("q", aq.Query)
	}
	if aq.AgeMin > 0 {
		q.Set("age_min", strconv.Itoa(aq.AgeMin))
	}
	if aq.AgeMax > 0 {
		q.Set("age_max", strconv.Itoa(aq.AgeMax))
	}
	for _, course := range aq.Courses {
		q.Add("courses", course)
	}
	if aq.SortBy != "" {
		q.Set("sort_by", aq.SortBy)
	}
	if aq.SortOrder != "" {
		q.Set("sort_order", aq.SortOrder)
	}
	if aq.Limit > 0 {
		q.Set("limit", strconv.Itoa(aq.Limit))
	}
	if aq.Offset > 0 {
		q.Set("offset", strconv.Itoa(aq.Offset))
	}
	return q
}

// AdvancedSearch runs a filtered, sorted, paginated search.
func (c *Client) AdvancedSearch(ctx context.Context, query AdvancedQuery) (SearchResponse, error) {
	var out SearchResponse
	err := c.do(ctx, http.MethodGet, "/api/search/advanced", query.values(), nil, &out)
	return out, err
}

// SearchHistory fetches the stored recent searches.
func (c *Client) SearchHistory(ctx context.Context) (HistoryResponse, error) {
	var out HistoryResponse
	err := c.do(ctx, http.MethodGet, "/api/search/history", nil, nil, &out)
	return out, err
}

// RecordSearch stores a query in the search history.
func (c *Client) RecordSearch(ctx context.Context, query string) error {
	body := map[string]string{"query": query}
	return c.do(ctx, http.MethodPost, "/api/search/history", nil, body, nil)
}

// ClearSearchHistory removes all stored searches.
func (c *Client) ClearSearchHistory(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/api/search/history", nil, nil, nil)
}

// ExportSearch exports every record matching query as CSV.
func (c *Client) ExportSearch(ctx context.Context, query string) (ExportResponse, error) {
	q := url.Values{}
	q.Set("format", "csv")
	q.Set("q", query)
	var out ExportResponse
	err := c.do(ctx, http.MethodGet, "/api/search/export", q, nil, &out)
	return out, err
}

type bulkRequest struct {
	Action     string `json:"action"`
	StudentIDs []int  `json:"student_ids"`
}

// BulkDelete deletes the records with the given numeric ids.
func (c *Client) BulkDelete(ctx context.Context, ids []int) (BulkResponse, error) {
	var out BulkResponse
	err := c.do(ctx, http.MethodPost, "/api/search/bulk-actions", nil, bulkRequest{Action: "delete", StudentIDs: ids}, &out)
	return out, err
}

// BulkExport exports the records with the given numeric ids as CSV.
func (c *Client) BulkExport(ctx context.Context, ids []int) (BulkResponse, error) {
	var out BulkResponse
	err := c.do(ctx, http.MethodPost, "/api/search/bulk-actions", nil, bulkRequest{Action: "export", StudentIDs: ids}, &out)
	return out, err
}
