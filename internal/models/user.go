package models

import "time"

// User is an operator account (admin, supervisor or driver).
type User struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Role      string     `json:"role"`
	CompanyID string     `json:"company_id,omitempty"`
	Active    bool       `json:"is_active"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// UserInput is the body of user create and update calls.
type UserInput struct {
	Name      string `json:"name,omitempty"`
	Email     string `json:"email,omitempty"`
	Password  string `json:"password,omitempty"`
	Role      string `json:"role,omitempty"`
	CompanyID string `json:"company_id,omitempty"`
	Active    *bool  `json:"is_active,omitempty"`
}
