package models

// Driver is a delivery driver profile.
type Driver struct {
	ID            string `json:"id"`
	UserID        string `json:"user_id,omitempty"`
	Name          string `json:"name"`
	Email         string `json:"email,omitempty"`
	Phone         string `json:"phone,omitempty"`
	CPF           string `json:"cpf,omitempty"`
	LicenseNumber string `json:"license_number,omitempty"`
	VehicleID     string `json:"vehicle_id,omitempty"`
	Status        string `json:"status,omitempty"`
}

// DriverInput is the body of driver create and update calls.
type DriverInput struct {
	Name          string `json:"name,omitempty"`
	Email         string `json:"email,omitempty"`
	Password      string `json:"password,omitempty"`
	Phone         string `json:"phone,omitempty"`
	CPF           string `json:"cpf,omitempty"`
	LicenseNumber string `json:"license_number,omitempty"`
	VehicleID     string `json:"vehicle_id,omitempty"`
	Status        string `json:"status,omitempty"`
}

// Vehicle is a fleet vehicle.
type Vehicle struct {
	ID        string `json:"id"`
	Plate     string `json:"plate"`
	Model     string `json:"model,omitempty"`
	Brand     string `json:"brand,omitempty"`
	Year      int    `json:"year,omitempty"`
	Type      string `json:"type,omitempty"`
	Status    string `json:"status,omitempty"`
	CompanyID string `json:"company_id,omitempty"`
}

// VehicleInput is the body of vehicle create and update calls.
type VehicleInput struct {
	Plate  string `json:"plate,omitempty"`
	Model  string `json:"model,omitempty"`
	Brand  string `json:"brand,omitempty"`
	Year   int    `json:"year,omitempty"`
	Type   string `json:"type,omitempty"`
	Status string `json:"status,omitempty"`
}
