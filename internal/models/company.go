package models

import "encoding/json"

// Company is a tenant of the platform.
type Company struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	CNPJ    string `json:"cnpj,omitempty"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
	LogoURL string `json:"logo_url,omitempty"`
	Active  bool   `json:"is_active"`
}

// CompanyInput is the body of company create and update calls.
type CompanyInput struct {
	Name    string `json:"name,omitempty"`
	CNPJ    string `json:"cnpj,omitempty"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
	Active  *bool  `json:"is_active,omitempty"`
}

// CompanyStats summarises a company's activity.
type CompanyStats struct {
	TotalDeliveries     int `json:"total_deliveries"`
	PendingDeliveries   int `json:"pending_deliveries"`
	CompletedDeliveries int `json:"completed_deliveries"`
	TotalDrivers        int `json:"total_drivers"`
	ActiveDrivers       int `json:"active_drivers"`
	TotalVehicles       int `json:"total_vehicles"`
}

// CompanySettings is a free-form settings document owned by the backend.
type CompanySettings map[string]json.RawMessage
