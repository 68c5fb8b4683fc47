package models

import (
	"bytes"
	"encoding/json"
)

// DashboardKPIs are the headline indicators of the dashboard.
type DashboardKPIs struct {
	TotalDeliveries     int     `json:"total_deliveries"`
	DeliveredToday      int     `json:"delivered_today"`
	PendingDeliveries   int     `json:"pending_deliveries"`
	OpenOccurrences     int     `json:"open_occurrences"`
	ActiveDrivers       int     `json:"active_drivers"`
	SuccessRate         float64 `json:"success_rate"`
	PendingReceipts     int     `json:"pending_receipts"`
	AverageDeliveryTime float64 `json:"average_delivery_time"`
}

// Report is a tabular report as produced by the reports service.
// Some reports are plain arrays; those land in Items with no summary.
type Report struct {
	Summary map[string]json.RawMessage `json:"summary,omitempty"`
	Items   []json.RawMessage          `json:"items,omitempty"`
}

func (r *Report) UnmarshalJSON(data []byte) error {
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '[' {
		return json.Unmarshal(trimmed, &r.Items)
	}
	type plain Report
	return json.Unmarshal(data, (*plain)(r))
}
