package api

import (
	"context"
	"fmt"
	"net/url"
)

// GetStatistics fetches the statistics table for one exchange-qualified ticker (e.g. "aapl:us").
func (c *Client) GetStatistics(ctx context.Context, id string) (*StatisticsResponse, error) {
	query := url.Values{}
	query.Set("id", id)
	query.Set("template", c.template)

	var resp StatisticsResponse
	if err := c.get(ctx, "/stock/get-statistics", query, &resp); err != nil {
		return nil, fmt.Errorf("get statistics %s: %w", id, err)
	}

	return &resp, nil
}
