package client

import (
	"context"
	"net/http"
)

func (c *Client) ListTags(ctx context.Context) ([]Tag, error) {
	var tags []Tag
	if _, err := c.do(ctx, http.MethodGet, "/api/tags", nil, nil, &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

func (c *Client) GetTag(ctx context.Context, id string) (*Tag, error) {
	var t Tag
	if _, err := c.do(ctx, http.MethodGet, "/api/tags/"+id, nil, nil, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *Client) CreateTag(ctx context.Context, name string, color *string) (*Tag, error) {
	body := map[string]interface{}{"name": name}
	if color != nil {
		body["color"] = *color
	}
	var t Tag
	if _, err := c.do(ctx, http.MethodPost, "/api/tags", nil, body, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

type UpdateTagRequest struct {
	Name  *string `json:"name,omitempty"`
	Color *string `json:"color,omitempty"`
}

func (c *Client) UpdateTag(ctx context.Context, id string, req UpdateTagRequest) (*Tag, error) {
	var t Tag
	if _, err := c.do(ctx, http.MethodPut, "/api/tags/"+id, nil, req, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *Client) DeleteTag(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/tags/"+id, nil, nil, nil)
	return err
}
