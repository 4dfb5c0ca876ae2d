package client

import (
	"context"
	"net/http"
	"net/url"
)

type ListProjectsOptions struct {
	Status string
	Search string
	Page   Page
}

func (c *Client) ListProjects(ctx context.Context, opts ListProjectsOptions) ([]Project, *Meta, error) {
	q := url.Values{}
	if opts.Status != "" {
		q.Set("status", opts.Status)
	}
	if opts.Search != "" {
		q.Set("search", opts.Search)
	}
	opts.Page.apply(q)

	var projects []Project
	meta, err := c.do(ctx, http.MethodGet, "/api/projects", q, nil, &projects)
	if err != nil {
		return nil, nil, err
	}
	return projects, meta, nil
}

// GetProject returns a project with its tasks.
func (c *Client) GetProject(ctx context.Context, id string) (*Project, error) {
	var p Project
	if _, err := c.do(ctx, http.MethodGet, "/api/projects/"+id, nil, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

type CreateProjectRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Color       *string `json:"color,omitempty"`
	Icon        *string `json:"icon,omitempty"`
}

func (c *Client) CreateProject(ctx context.Context, req CreateProjectRequest) (*Project, error) {
	var p Project
	if _, err := c.do(ctx, http.MethodPost, "/api/projects", nil, req, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

type UpdateProjectRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Color       *string `json:"color,omitempty"`
	Icon        *string `json:"icon,omitempty"`
	Status      *string `json:"status,omitempty"`
}

func (c *Client) UpdateProject(ctx context.Context, id string, req UpdateProjectRequest) (*Project, error) {
	var p Project
	if _, err := c.do(ctx, http.MethodPut, "/api/projects/"+id, nil, req, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// DeleteProject removes a project and, through cascade, its tasks.
func (c *Client) DeleteProject(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/projects/"+id, nil, nil, nil)
	return err
}

func (c *Client) ProjectStats(ctx context.Context, id string) (*ProjectStats, error) {
	var stats ProjectStats
	if _, err := c.do(ctx, http.MethodGet, "/api/projects/"+id+"/stats", nil, nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
