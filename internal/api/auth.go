package api

import (
	"context"

	"github.com/benmeehan/fleetops/internal/models"
)

// Login authenticates with email and password. The auth service double-wraps
// its payload; the result is unwrapped to {token, user, ...}.
func (c *Client) Login(ctx context.Context, email, password string) Envelope[models.LoginResult] {
	return call[models.LoginResult](ctx, c, opLogin, nil, nil, models.LoginRequest{Email: email, Password: password})
}

// SelectCompany exchanges the temporary token for a company-scoped final token.
func (c *Client) SelectCompany(ctx context.Context, companyID string) Envelope[models.SelectCompanyResult] {
	return call[models.SelectCompanyResult](ctx, c, opSelectCompany, nil, nil, models.SelectCompanyRequest{CompanyID: companyID})
}

func (c *Client) RefreshToken(ctx context.Context) Envelope[models.RefreshResult] {
	return call[models.RefreshResult](ctx, c, opRefreshToken, nil, nil, nil)
}

func (c *Client) Logout(ctx context.Context) Envelope[Ack] {
	return call[Ack](ctx, c, opLogout, nil, nil, nil)
}

func (c *Client) ForgotPassword(ctx context.Context, email string) Envelope[Ack] {
	return call[Ack](ctx, c, opForgotPassword, nil, nil, models.ForgotPasswordRequest{Email: email})
}

// GetAuthCompanies lists the companies the logged-in user may select during login.
// It is served by the auth service under the temporary token and is not the
// same operation as GetCompanies.
func (c *Client) GetAuthCompanies(ctx context.Context) Envelope[[]models.Company] {
	return call[[]models.Company](ctx, c, opAuthCompanies, nil, nil, nil)
}
