package backend

import (
	"context"
	"net/http"
)

type Address struct {
	CityID        string `json:"cityId,omitempty"`
	City          string `json:"city,omitempty"`
	Area          string `json:"area,omitempty"`
	Street        string `json:"street,omitempty"`
	Landmarks     string `json:"landmarks,omitempty"`
	Building      string `json:"building,omitempty"`
	ResidenceType string `json:"residenceType,omitempty"`
	Floor         string `json:"floor,omitempty"`
	Apartment     string `json:"apartment,omitempty"`
	CompanyName   string `json:"companyName,omitempty"`
}

type User struct {
	MongoID string   `json:"_id"`
	UserID  string   `json:"userId"`
	Name    string   `json:"name"`
	Email   string   `json:"email"`
	Phone   string   `json:"phone"`
	Role    string   `json:"role"`
	Address *Address `json:"address,omitempty"`
}

type RegisterRequest struct {
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Password string   `json:"password"`
	Phone    string   `json:"phone"`
	Address  *Address `json:"address,omitempty"`
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email"`
	OTP         string `json:"otp"`
	NewPassword string `json:"newPassword"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

type VerifyResult struct {
	Valid bool  `json:"valid"`
	User  *User `json:"user,omitempty"`
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.doJSON(ctx, http.MethodPost, "/auth/register", "", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Login(ctx context.Context, creds Credentials) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.doJSON(ctx, http.MethodPost, "/auth/login", "", nil, creds, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	body := map[string]string{"email": email}
	return c.doJSON(ctx, http.MethodPost, "/auth/forgot-password", "", nil, body, nil)
}

func (c *Client) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	return c.doJSON(ctx, http.MethodPost, "/auth/reset-password", "", nil, req, nil)
}

func (c *Client) ChangePassword(ctx context.Context, token string, req ChangePasswordRequest) error {
	return c.doJSON(ctx, http.MethodPost, "/auth/change-password", token, nil, req, nil)
}

func (c *Client) ResendOTP(ctx context.Context, email string) error {
	body := map[string]string{"email": email}
	return c.doJSON(ctx, http.MethodPost, "/auth/resend-otp", "", nil, body, nil)
}

// VerifyToken reports whether the token is still accepted. A rejection from
// the backend is a negative answer, not an error.
func (c *Client) VerifyToken(ctx context.Context, token string) (*VerifyResult, error) {
	var out VerifyResult
	err := c.doJSON(ctx, http.MethodGet, "/auth/verify", token, nil, nil, &out)
	if err != nil {
		var apiErr *APIError
		if asAPIError(err, &apiErr) {
			return &VerifyResult{Valid: false}, nil
		}
		return nil, err
	}
	return &out, nil
}
