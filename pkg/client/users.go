package client

import (
	"context"
	"net/http"
	"net/url"
)

type ListUsersOptions struct {
	Search string
	Page   Page
}

func (c *Client) ListUsers(ctx context.Context, opts ListUsersOptions) ([]User, *Meta, error) {
	q := url.Values{}
	if opts.Search != "" {
		q.Set("search", opts.Search)
	}
	opts.Page.apply(q)

	var users []User
	meta, err := c.do(ctx, http.MethodGet, "/api/users", q, nil, &users)
	if err != nil {
		return nil, nil, err
	}
	return users, meta, nil
}

// SearchUsers finds assignee candidates. Queries shorter than two
// characters return an empty list.
func (c *Client) SearchUsers(ctx context.Context, query string) ([]UserRef, error) {
	q := url.Values{"q": {query}}
	var refs []UserRef
	if _, err := c.do(ctx, http.MethodGet, "/api/users/search", q, nil, &refs); err != nil {
		return nil, err
	}
	return refs, nil
}

func (c *Client) GetUser(ctx context.Context, id string) (*User, error) {
	var u User
	if _, err := c.do(ctx, http.MethodGet, "/api/users/"+id, nil, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}
