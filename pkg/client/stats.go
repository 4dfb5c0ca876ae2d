package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

func (c *Client) DashboardStats(ctx context.Context) (*Dashboard, error) {
	var d Dashboard
	if _, err := c.do(ctx, http.MethodGet, "/api/stats/dashboard", nil, nil, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (c *Client) RecentActivity(ctx context.Context) (*Activity, error) {
	var a Activity
	if _, err := c.do(ctx, http.MethodGet, "/api/stats/activity", nil, nil, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// ProductivityStats returns the dense completion series for the trailing
// days window. days <= 0 uses the server default of 30.
func (c *Client) ProductivityStats(ctx context.Context, days int) (*Productivity, error) {
	q := url.Values{}
	if days > 0 {
		q.Set("days", strconv.Itoa(days))
	}
	var p Productivity
	if _, err := c.do(ctx, http.MethodGet, "/api/stats/productivity", q, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// TrailingAverage smooths a productivity series with a trailing moving
// average over window days. Early points average over the shorter prefix.
func TrailingAverage(series []DayCount, window int) []float64 {
	if window <= 0 {
		window = 7
	}
	out := make([]float64, len(series))
	sum := 0
	for i := range series {
		sum += series[i].Count
		if i >= window {
			sum -= series[i-window].Count
		}
		n := i + 1
		if n > window {
			n = window
		}
		out[i] = float64(sum) / float64(n)
	}
	return out
}
