package models

import (
	"encoding/json"
	"time"
)

// Delivery statuses used by the backend.
const (
	DeliveryPending   = "PENDING"
	DeliveryInTransit = "IN_TRANSIT"
	DeliveryDelivered = "DELIVERED"
	DeliveryRefused   = "REFUSED"
	DeliveryCancelled = "CANCELLED"
)

// Delivery is a shipment built from an invoice (NF-e).
type Delivery struct {
	ID            string     `json:"id"`
	NFNumber      string     `json:"nf_number,omitempty"`
	AccessKey     string     `json:"access_key,omitempty"`
	ClientName    string     `json:"client_name,omitempty"`
	ClientCNPJ    string     `json:"client_cnpj,omitempty"`
	ClientAddress string     `json:"client_address,omitempty"`
	DriverID      string     `json:"driver_id,omitempty"`
	VehicleID     string     `json:"vehicle_id,omitempty"`
	Status        string     `json:"status"`
	Value         float64    `json:"merchandise_value,omitempty"`
	HasReceipt    bool       `json:"has_receipt,omitempty"`
	CreatedAt     *time.Time `json:"created_at,omitempty"`
	DeliveredAt   *time.Time `json:"delivered_at,omitempty"`
}

// SefazDeliveryRequest creates a delivery from an invoice access key.
type SefazDeliveryRequest struct {
	AccessKey string `json:"accessKey"`
	DriverID  string `json:"driverId,omitempty"`
	VehicleID string `json:"vehicleId,omitempty"`
}

// DeliveryUpdate is the body of PUT /api/deliveries/:id.
type DeliveryUpdate struct {
	DriverID      string   `json:"driver_id,omitempty"`
	VehicleID     string   `json:"vehicle_id,omitempty"`
	ClientAddress string   `json:"client_address,omitempty"`
	Value         *float64 `json:"merchandise_value,omitempty"`
}

// DeliveryStatusUpdate is the body of PUT /api/deliveries/:id/status.
type DeliveryStatusUpdate struct {
	Status string `json:"status"`
	Notes  string `json:"notes,omitempty"`
}

// Occurrence is a delivery exception (refusal, absent recipient, damage...).
type Occurrence struct {
	ID          string     `json:"id"`
	DeliveryID  string     `json:"delivery_id"`
	DriverID    string     `json:"driver_id,omitempty"`
	Type        string     `json:"type"`
	Description string     `json:"description,omitempty"`
	Latitude    *float64   `json:"latitude,omitempty"`
	Longitude   *float64   `json:"longitude,omitempty"`
	PhotoURL    string     `json:"photo_url,omitempty"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
}

// OccurrenceInput is the body of POST /api/deliveries/:id/occurrence.
type OccurrenceInput struct {
	Type        string   `json:"type"`
	Description string   `json:"description,omitempty"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
}

// Receipt is a proof-of-delivery document and its OCR extraction.
type Receipt struct {
	ID          string          `json:"id"`
	DeliveryID  string          `json:"delivery_id"`
	ImageURL    string          `json:"image_url,omitempty"`
	Status      string          `json:"status,omitempty"`
	OCRData     json.RawMessage `json:"ocr_data,omitempty"`
	Validated   bool            `json:"is_validated"`
	ValidatedAt *time.Time      `json:"validated_at,omitempty"`
	CreatedAt   *time.Time      `json:"created_at,omitempty"`
}

// ReceiptValidation is the body of PUT /api/receipts/:id/validate.
type ReceiptValidation struct {
	Validated bool            `json:"validated"`
	Corrected json.RawMessage `json:"corrected_data,omitempty"`
	Notes     string          `json:"notes,omitempty"`
}

// DeliveryWithReceipt joins a delivery to its receipt for the receipts screen.
type DeliveryWithReceipt struct {
	Delivery
	Receipt *Receipt `json:"receipt,omitempty"`
}
