package backend

import (
	"context"
	"net/http"
	"net/url"
)

type UserPage struct {
	Users      []User `json:"users"`
	Page       int    `json:"page"`
	TotalPages int    `json:"totalPages"`
}

type ProfileUpdate struct {
	Name    string   `json:"name,omitempty"`
	Phone   string   `json:"phone,omitempty"`
	Address *Address `json:"address,omitempty"`
}

// ListUsers is superadmin-only; search matches name or email.
func (c *Client) ListUsers(ctx context.Context, token string, page, limit int, search string) (*UserPage, error) {
	q := pageQuery(page, limit)
	if search != "" {
		q.Set("search", search)
	}
	var out UserPage
	if err := c.doJSON(ctx, http.MethodGet, "/users", token, q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteUser(ctx context.Context, token, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/users/"+url.PathEscape(id), token, nil, nil, nil)
}

func (c *Client) Profile(ctx context.Context, token string) (*User, error) {
	var out User
	if err := c.doJSON(ctx, http.MethodGet, "/users/profile", token, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateProfile(ctx context.Context, token string, in ProfileUpdate) (*User, error) {
	var out User
	if err := c.doJSON(ctx, http.MethodPut, "/users/profile", token, nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
