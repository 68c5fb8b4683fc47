package models

import "encoding/json"

// LoginRequest is the payload of POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResult is the unwrapped login response. Users bound to several companies
// receive a temporary token and must select a company before using the API.
type LoginResult struct {
	Token                    string          `json:"token"`
	User                     json.RawMessage `json:"user,omitempty"`
	Companies                []Company       `json:"companies,omitempty"`
	RequiresCompanySelection bool            `json:"requiresCompanySelection,omitempty"`
}

// SelectCompanyRequest is the payload of POST /api/auth/select-company.
type SelectCompanyRequest struct {
	CompanyID string `json:"companyId"`
}

// SelectCompanyResult carries the final token issued for the chosen company.
type SelectCompanyResult struct {
	Token   string          `json:"token"`
	User    json.RawMessage `json:"user,omitempty"`
	Company json.RawMessage `json:"company,omitempty"`
}

// RefreshResult is the response of POST /api/auth/refresh.
type RefreshResult struct {
	Token string `json:"token"`
}

// ForgotPasswordRequest is the payload of POST /api/auth/forgot-password.
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}
