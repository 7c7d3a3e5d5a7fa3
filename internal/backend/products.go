package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

type SizeStock struct {
	Size     string `json:"size"`
	Quantity int    `json:"quantity"`
}

type ProductColor struct {
	Name  string      `json:"name"`
	Image string      `json:"image,omitempty"`
	Sizes []SizeStock `json:"sizes"`
}

type Product struct {
	ID             string         `json:"_id"`
	Name           string         `json:"name"`
	Description    string         `json:"description"`
	Price          float64        `json:"price"`
	SalePercentage float64        `json:"salePercentage"`
	SalePrice      float64        `json:"salePrice,omitempty"`
	Image          string         `json:"image"`
	Colors         []ProductColor `json:"colors"`
	CategoryID     string         `json:"categoryId,omitempty"`
	CollectionID   string         `json:"collectionId,omitempty"`
	Archived       bool           `json:"archived"`
}

type ProductPage struct {
	Products   []Product `json:"products"`
	Page       int       `json:"page"`
	TotalPages int       `json:"totalPages"`
}

// ProductForm is the multipart payload for product create/update. Colors
// travel as a JSON-encoded field; images as file parts.
type ProductForm struct {
	Name           string
	Description    string
	Price          float64
	SalePercentage float64
	Category       string
	Collection     string
	Colors         []ProductColor
	Image          *Upload
	ColorImages    []Upload
}

func (f ProductForm) fields() (url.Values, error) {
	colors, err := json.Marshal(f.Colors)
	if err != nil {
		return nil, fmt.Errorf("marshal colors failed: %w", err)
	}
	v := url.Values{}
	v.Set("name", f.Name)
	v.Set("description", f.Description)
	v.Set("price", fmt.Sprint(f.Price))
	v.Set("salePercentage", fmt.Sprint(f.SalePercentage))
	v.Set("category", f.Category)
	v.Set("collection", f.Collection)
	v.Set("colors", string(colors))
	return v, nil
}

func (f ProductForm) uploads() []Upload {
	var ups []Upload
	if f.Image != nil {
		up := *f.Image
		up.Field = "image"
		ups = append(ups, up)
	}
	for i, ci := range f.ColorImages {
		ci.Field = fmt.Sprintf("colorImages_%d", i)
		ups = append(ups, ci)
	}
	return ups
}

// ListProducts pages through the catalog; category and collection are
// optional filters.
func (c *Client) ListProducts(ctx context.Context, page, limit int, category, collection string) (*ProductPage, error) {
	q := pageQuery(page, limit)
	if category != "" {
		q.Set("category", category)
	}
	if collection != "" {
		q.Set("collection", collection)
	}
	var out ProductPage
	if err := c.doJSON(ctx, http.MethodGet, "/products", "", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ProductsByCategory(ctx context.Context, category string, page, limit int) (*ProductPage, error) {
	var out ProductPage
	path := "/products/category/" + url.PathEscape(category)
	if err := c.doJSON(ctx, http.MethodGet, path, "", pageQuery(page, limit), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ProductsByCollection(ctx context.Context, collection string, page, limit int) (*ProductPage, error) {
	var out ProductPage
	path := "/products/collection/" + url.PathEscape(collection)
	if err := c.doJSON(ctx, http.MethodGet, path, "", pageQuery(page, limit), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetProduct(ctx context.Context, id string) (*Product, error) {
	var out Product
	if err := c.doJSON(ctx, http.MethodGet, "/products/"+url.PathEscape(id), "", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ActiveProducts(ctx context.Context) ([]Product, error) {
	var out []Product
	if err := c.doJSON(ctx, http.MethodGet, "/products/active", "", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ArchivedProducts(ctx context.Context) ([]Product, error) {
	var out []Product
	if err := c.doJSON(ctx, http.MethodGet, "/products/archived", "", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AddProduct(ctx context.Context, token string, form ProductForm) (*Product, error) {
	fields, err := form.fields()
	if err != nil {
		return nil, err
	}
	var out Product
	if err := c.doMultipart(ctx, http.MethodPost, "/products", token, fields, form.uploads(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) EditProduct(ctx context.Context, token, id string, form ProductForm) (*Product, error) {
	fields, err := form.fields()
	if err != nil {
		return nil, err
	}
	var out Product
	path := "/products/" + url.PathEscape(id)
	if err := c.doMultipart(ctx, http.MethodPut, path, token, fields, form.uploads(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteProduct(ctx context.Context, token, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/products/"+url.PathEscape(id), token, nil, nil, nil)
}

// SetProductArchived toggles the archive flag through the dedicated
// archive/unarchive endpoints.
func (c *Client) SetProductArchived(ctx context.Context, token, id string, archived bool) (*Product, error) {
	path := "/products/archive/" + url.PathEscape(id)
	if !archived {
		path = "/products/unarchive/" + url.PathEscape(id)
	}
	var out Product
	if err := c.doJSON(ctx, http.MethodPut, path, token, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
