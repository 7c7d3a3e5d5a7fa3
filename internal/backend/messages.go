package backend

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

type Message struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject,omitempty"`
	Body      string    `json:"message"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

type MessageInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject,omitempty"`
	Body    string `json:"message"`
}

type MessagePage struct {
	Messages   []Message `json:"messages"`
	Page       int       `json:"page"`
	TotalPages int       `json:"totalPages"`
}

func (c *Client) CreateMessage(ctx context.Context, in MessageInput) (*Message, error) {
	var out Message
	if err := c.doJSON(ctx, http.MethodPost, "/messages", "", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AllMessages lists support messages (admin); status filters by
// open/resolved.
func (c *Client) AllMessages(ctx context.Context, token string, page, limit int, status string) (*MessagePage, error) {
	q := pageQuery(page, limit)
	if status != "" {
		q.Set("status", status)
	}
	var out MessagePage
	if err := c.doJSON(ctx, http.MethodGet, "/messages", token, q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UserMessages(ctx context.Context, email string, page, limit int) (*MessagePage, error) {
	var out MessagePage
	path := "/messages/" + url.PathEscape(email)
	if err := c.doJSON(ctx, http.MethodGet, path, "", pageQuery(page, limit), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ResolveMessage(ctx context.Context, token, id string) (*Message, error) {
	var out Message
	path := "/messages/resolve/" + url.PathEscape(id)
	if err := c.doJSON(ctx, http.MethodPatch, path, token, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
