package backend

import (
	"context"
	"net/http"
	"net/url"
)

// City is a shipping destination with a flat delivery price and its list of
// areas, in the order the backend stores them.
type City struct {
	ID    string   `json:"_id"`
	Name  string   `json:"name"`
	Price float64  `json:"price"`
	Areas []string `json:"areas"`
}

type CityInput struct {
	Name  string   `json:"name"`
	Price float64  `json:"price"`
	Areas []string `json:"areas"`
}

type citiesEnvelope struct {
	Data []City `json:"data"`
}

type areasEnvelope struct {
	Data []string `json:"data"`
}

// ListCities returns every shipping city. The endpoint wraps its payload in
// {"data": [...]}.
func (c *Client) ListCities(ctx context.Context) ([]City, error) {
	var out citiesEnvelope
	if err := c.doJSON(ctx, http.MethodGet, "/cities", "", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (c *Client) CityAreas(ctx context.Context, cityID string) ([]string, error) {
	var out areasEnvelope
	path := "/cities/" + url.PathEscape(cityID) + "/areas"
	if err := c.doJSON(ctx, http.MethodGet, path, "", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (c *Client) CreateCity(ctx context.Context, token string, in CityInput) (*City, error) {
	var out City
	if err := c.doJSON(ctx, http.MethodPost, "/cities", token, nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateCity(ctx context.Context, token, id string, in CityInput) (*City, error) {
	var out City
	if err := c.doJSON(ctx, http.MethodPut, "/cities/"+url.PathEscape(id), token, nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteCity(ctx context.Context, token, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/cities/"+url.PathEscape(id), token, nil, nil, nil)
}
