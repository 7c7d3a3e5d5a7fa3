package backend

import (
	"context"
	"net/http"
	"net/url"
)

type Admin struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type AdminInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
	Role     string `json:"role"`
}

type AdminPage struct {
	Admins     []Admin `json:"admins"`
	Page       int     `json:"page"`
	TotalPages int     `json:"totalPages"`
}

// ListAdmins is superadmin-only; role is an optional filter.
func (c *Client) ListAdmins(ctx context.Context, token string, page, limit int, role string) (*AdminPage, error) {
	q := pageQuery(page, limit)
	if role != "" {
		q.Set("role", role)
	}
	var out AdminPage
	if err := c.doJSON(ctx, http.MethodGet, "/admins", token, q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateAdmin(ctx context.Context, token string, in AdminInput) (*Admin, error) {
	var out Admin
	if err := c.doJSON(ctx, http.MethodPost, "/admins", token, nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateAdmin(ctx context.Context, token, id string, in AdminInput) (*Admin, error) {
	var out Admin
	if err := c.doJSON(ctx, http.MethodPut, "/admins/"+url.PathEscape(id), token, nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteAdmin(ctx context.Context, token, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/admins/"+url.PathEscape(id), token, nil, nil, nil)
}
