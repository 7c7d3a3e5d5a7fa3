package backend

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

type OrderItem struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	Image        string  `json:"image,omitempty"`
	Color        string  `json:"color"`
	Size         string  `json:"size"`
	Quantity     int     `json:"quantity"`
	CategoryID   string  `json:"categoryId,omitempty"`
	CollectionID string  `json:"collectionId,omitempty"`
}

type ShippingAddress struct {
	Name          string `json:"name"`
	CityID        string `json:"cityId"`
	City          string `json:"city"`
	Area          string `json:"area"`
	Street        string `json:"street"`
	Landmarks     string `json:"landmarks,omitempty"`
	Building      string `json:"building,omitempty"`
	ResidenceType string `json:"residenceType"`
	Floor         string `json:"floor,omitempty"`
	Apartment     string `json:"apartment,omitempty"`
	CompanyName   string `json:"companyName,omitempty"`
	Phone         string `json:"phone"`
}

type Orderer struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	UserID      string `json:"userId,omitempty"`
	UserMongoID string `json:"userMongoId,omitempty"`
}

// OrderDraft is the create-order payload. TotalPrice is the client-computed
// subtotal + shipping - discount; the backend revalidates it.
type OrderDraft struct {
	Items            []OrderItem     `json:"items"`
	TotalPrice       float64         `json:"totalPrice"`
	Promocode        *PromocodeRef   `json:"promocode,omitempty"`
	ShippingAddress  ShippingAddress `json:"shippingAddress"`
	Orderer          Orderer         `json:"orderer"`
	PaymentMethod    string          `json:"paymentMethod"`
	InstapayUsername string          `json:"instapayUsername,omitempty"`
}

type Order struct {
	ID              string          `json:"_id"`
	OrderNumber     int             `json:"orderNumber"`
	Items           []OrderItem     `json:"items"`
	TotalPrice      float64         `json:"totalPrice"`
	Status          string          `json:"status"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	Orderer         Orderer         `json:"orderer"`
	PaymentMethod   string          `json:"paymentMethod"`
	CreatedAt       time.Time       `json:"createdAt"`
}

type OrderResult struct {
	Order *Order `json:"order"`
}

type OrderPage struct {
	Orders     []Order `json:"orders"`
	Page       int     `json:"page"`
	TotalPages int     `json:"totalPages"`
}

// CreateOrder places an order. token may be empty for guest checkout.
func (c *Client) CreateOrder(ctx context.Context, token string, draft OrderDraft) (*OrderResult, error) {
	var out OrderResult
	if err := c.doJSON(ctx, http.MethodPost, "/orders", token, nil, draft, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetOrder(ctx context.Context, token, id string) (*Order, error) {
	var out Order
	if err := c.doJSON(ctx, http.MethodGet, "/orders/"+url.PathEscape(id), token, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) MyOrders(ctx context.Context, token string, page, limit int) (*OrderPage, error) {
	var out OrderPage
	if err := c.doJSON(ctx, http.MethodGet, "/orders/my/orders", token, pageQuery(page, limit), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AllOrders lists every order (admin); status is an optional filter.
func (c *Client) AllOrders(ctx context.Context, token string, page, limit int, status string) (*OrderPage, error) {
	q := pageQuery(page, limit)
	if status != "" {
		q.Set("status", status)
	}
	var out OrderPage
	if err := c.doJSON(ctx, http.MethodGet, "/orders/admin", token, q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateOrderStatus(ctx context.Context, token, id, status string) (*Order, error) {
	body := map[string]string{"status": status}
	var out Order
	path := "/orders/" + url.PathEscape(id) + "/status"
	if err := c.doJSON(ctx, http.MethodPut, path, token, nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
