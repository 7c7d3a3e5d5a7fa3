package backend

import (
	"context"
	"net/http"
	"net/url"
)

type Promocode struct {
	ID           string  `json:"_id"`
	Code         string  `json:"code"`
	Percentage   float64 `json:"percentage,omitempty"`
	Amount       float64 `json:"amount,omitempty"`
	CategoryID   string  `json:"categoryId,omitempty"`
	CollectionID string  `json:"collectionId,omitempty"`
	ProductID    string  `json:"productId,omitempty"`
	MaxUses      int     `json:"maxUses,omitempty"`
	Uses         int     `json:"uses,omitempty"`
	Active       bool    `json:"active"`
}

type PromocodeRef struct {
	Code string `json:"code"`
}

type PreviewItem struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	Color        string  `json:"color"`
	Size         string  `json:"size"`
	Quantity     int     `json:"quantity"`
	CategoryID   string  `json:"categoryId,omitempty"`
	CollectionID string  `json:"collectionId,omitempty"`
}

// PreviewRequest is the cart snapshot a code is validated against.
type PreviewRequest struct {
	Items      []PreviewItem `json:"items"`
	TotalPrice float64       `json:"totalPrice"`
	Promocode  PromocodeRef  `json:"promocode"`
}

// PreviewResult is server-computed and authoritative; the discount is never
// recomputed client-side.
type PreviewResult struct {
	Valid          bool       `json:"valid"`
	DiscountAmount float64    `json:"discountAmount"`
	Promocode      *Promocode `json:"promocode,omitempty"`
	Error          string     `json:"error,omitempty"`
}

func (c *Client) ListPromocodes(ctx context.Context, token string) ([]Promocode, error) {
	var out []Promocode
	if err := c.doJSON(ctx, http.MethodGet, "/promocodes", token, nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreatePromocode(ctx context.Context, token string, in Promocode) (*Promocode, error) {
	var out Promocode
	if err := c.doJSON(ctx, http.MethodPost, "/promocodes", token, nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdatePromocode(ctx context.Context, token, id string, in Promocode) (*Promocode, error) {
	var out Promocode
	if err := c.doJSON(ctx, http.MethodPut, "/promocodes/"+url.PathEscape(id), token, nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeletePromocode(ctx context.Context, token, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/promocodes/"+url.PathEscape(id), token, nil, nil, nil)
}

// PreviewPromocode validates a code against a cart snapshot without recording
// a use.
func (c *Client) PreviewPromocode(ctx context.Context, req PreviewRequest) (*PreviewResult, error) {
	var out PreviewResult
	if err := c.doJSON(ctx, http.MethodPost, "/promocodes/preview", "", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
