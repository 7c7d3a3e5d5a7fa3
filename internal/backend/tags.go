package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// Tag is a category or collection label; Kind distinguishes the two. A tag
// may carry its own sale percentage and image.
type Tag struct {
	ID          string  `json:"_id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Kind        string  `json:"tag"`
	Sale        float64 `json:"sale,omitempty"`
	Image       string  `json:"image,omitempty"`
}

const (
	TagKindCategory   = "category"
	TagKindCollection = "collection"
)

type TagForm struct {
	Name        string
	Description string
	Kind        string
	Sale        float64
	Image       *Upload
}

func (f TagForm) fields(includeName bool) url.Values {
	v := url.Values{}
	if includeName {
		v.Set("name", f.Name)
	}
	v.Set("description", f.Description)
	v.Set("tag", f.Kind)
	v.Set("sale", fmt.Sprint(f.Sale))
	return v
}

func (f TagForm) uploads() []Upload {
	if f.Image == nil {
		return nil
	}
	up := *f.Image
	up.Field = "image"
	return []Upload{up}
}

func (c *Client) CreateTag(ctx context.Context, token string, form TagForm) (*Tag, error) {
	var out Tag
	if err := c.doMultipart(ctx, http.MethodPost, "/tags", token, form.fields(true), form.uploads(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) TagByID(ctx context.Context, id string) (*Tag, error) {
	var out Tag
	if err := c.doJSON(ctx, http.MethodGet, "/tags/id/"+url.PathEscape(id), "", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) TagByName(ctx context.Context, name string) (*Tag, error) {
	var out Tag
	if err := c.doJSON(ctx, http.MethodGet, "/tags/name/"+url.PathEscape(name), "", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateTag edits the tag addressed by its current name; the form may set a
// new sale percentage or replace the image.
func (c *Client) UpdateTag(ctx context.Context, token, oldName string, form TagForm) (*Tag, error) {
	var out Tag
	path := "/tags/name/" + url.PathEscape(oldName)
	if err := c.doMultipart(ctx, http.MethodPut, path, token, form.fields(false), form.uploads(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteTag(ctx context.Context, token, name string) error {
	return c.doJSON(ctx, http.MethodDelete, "/tags/name/"+url.PathEscape(name), token, nil, nil, nil)
}

func (c *Client) Categories(ctx context.Context) ([]Tag, error) {
	var out []Tag
	if err := c.doJSON(ctx, http.MethodGet, "/tags/categories", "", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Collections(ctx context.Context) ([]Tag, error) {
	var out []Tag
	if err := c.doJSON(ctx, http.MethodGet, "/tags/collections", "", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
