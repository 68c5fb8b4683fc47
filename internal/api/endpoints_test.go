package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benmeehan/fleetops/internal/models"
)

func TestEndpoints_MethodTable(t *testing.T) {
	type hit struct{ method, path string }
	var got hit
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = hit{r.Method, r.URL.EscapedPath()}
		writeJSON(w, http.StatusOK, `{"success":true}`)
	}, nil)

	ctx := context.Background()
	tests := []struct {
		name   string
		call   func() error
		method string
		path   string
	}{
		{"Login", func() error { return client.Login(ctx, "a", "b").Err() }, http.MethodPost, "/api/auth/login"},
		{"SelectCompany", func() error { return client.SelectCompany(ctx, "c1").Err() }, http.MethodPost, "/api/auth/select-company"},
		{"RefreshToken", func() error { return client.RefreshToken(ctx).Err() }, http.MethodPost, "/api/auth/refresh"},
		{"Logout", func() error { return client.Logout(ctx).Err() }, http.MethodPost, "/api/auth/logout"},
		{"ForgotPassword", func() error { return client.ForgotPassword(ctx, "a@b.c").Err() }, http.MethodPost, "/api/auth/forgot-password"},
		{"GetAuthCompanies", func() error { return client.GetAuthCompanies(ctx).Err() }, http.MethodGet, "/api/auth/companies"},

		{"GetUsers", func() error { return client.GetUsers(ctx, nil).Err() }, http.MethodGet, "/api/users"},
		{"GetUser", func() error { return client.GetUser(ctx, "u1").Err() }, http.MethodGet, "/api/users/u1"},
		{"CreateUser", func() error { return client.CreateUser(ctx, models.UserInput{}).Err() }, http.MethodPost, "/api/users"},
		{"UpdateUser", func() error { return client.UpdateUser(ctx, "u1", models.UserInput{}).Err() }, http.MethodPut, "/api/users/u1"},
		{"DeleteUser", func() error { return client.DeleteUser(ctx, "u1").Err() }, http.MethodDelete, "/api/users/u1"},

		{"GetDrivers", func() error { return client.GetDrivers(ctx, nil).Err() }, http.MethodGet, "/api/drivers"},
		{"GetDriver", func() error { return client.GetDriver(ctx, "d1").Err() }, http.MethodGet, "/api/drivers/d1"},
		{"CreateDriver", func() error { return client.CreateDriver(ctx, models.DriverInput{}).Err() }, http.MethodPost, "/api/drivers"},
		{"UpdateDriver", func() error { return client.UpdateDriver(ctx, "d1", models.DriverInput{}).Err() }, http.MethodPut, "/api/drivers/d1"},
		{"GetVehicles", func() error { return client.GetVehicles(ctx, nil).Err() }, http.MethodGet, "/api/vehicles"},
		{"GetVehicle", func() error { return client.GetVehicle(ctx, "v1").Err() }, http.MethodGet, "/api/vehicles/v1"},
		{"CreateVehicle", func() error { return client.CreateVehicle(ctx, models.VehicleInput{}).Err() }, http.MethodPost, "/api/vehicles"},
		{"UpdateVehicle", func() error { return client.UpdateVehicle(ctx, "v1", models.VehicleInput{}).Err() }, http.MethodPut, "/api/vehicles/v1"},
		{"DeleteVehicle", func() error { return client.DeleteVehicle(ctx, "v1").Err() }, http.MethodDelete, "/api/vehicles/v1"},

		{"GetCompanies", func() error { return client.GetCompanies(ctx, nil).Err() }, http.MethodGet, "/api/companies"},
		{"GetCompany", func() error { return client.GetCompany(ctx, "c1").Err() }, http.MethodGet, "/api/companies/c1"},
		{"CreateCompany", func() error { return client.CreateCompany(ctx, models.CompanyInput{}).Err() }, http.MethodPost, "/api/companies"},
		{"UpdateCompany", func() error { return client.UpdateCompany(ctx, "c1", models.CompanyInput{}).Err() }, http.MethodPut, "/api/companies/c1"},
		{"GetCompanyStats", func() error { return client.GetCompanyStats(ctx, "c1").Err() }, http.MethodGet, "/api/companies/c1/stats"},
		{"GetCompanySettings", func() error { return client.GetCompanySettings(ctx, "c1").Err() }, http.MethodGet, "/api/companies/c1/settings"},
		{"UpdateCompanySettings", func() error { return client.UpdateCompanySettings(ctx, "c1", models.CompanySettings{}).Err() }, http.MethodPut, "/api/companies/c1/settings"},

		{"CreateDeliveryFromSefaz", func() error { return client.CreateDeliveryFromSefaz(ctx, models.SefazDeliveryRequest{}).Err() }, http.MethodPost, "/api/deliveries/create-from-sefaz"},
		{"GetDeliveries", func() error { return client.GetDeliveries(ctx, nil).Err() }, http.MethodGet, "/api/deliveries"},
		{"GetDelivery", func() error { return client.GetDelivery(ctx, "x1").Err() }, http.MethodGet, "/api/deliveries/x1"},
		{"UpdateDelivery", func() error { return client.UpdateDelivery(ctx, "x1", models.DeliveryUpdate{}).Err() }, http.MethodPut, "/api/deliveries/x1"},
		{"UpdateDeliveryStatus", func() error { return client.UpdateDeliveryStatus(ctx, "x1", models.DeliveryStatusUpdate{}).Err() }, http.MethodPut, "/api/deliveries/x1/status"},
		{"CreateOccurrence", func() error { return client.CreateOccurrence(ctx, "x1", models.OccurrenceInput{}).Err() }, http.MethodPost, "/api/deliveries/x1/occurrence"},
		{"GetDeliveriesWithReceipts", func() error { return client.GetDeliveriesWithReceipts(ctx, nil).Err() }, http.MethodGet, "/api/deliveries/with-receipts"},
		{"GetOccurrences", func() error { return client.GetOccurrences(ctx, nil).Err() }, http.MethodGet, "/api/occurrences"},
		{"GetOccurrence", func() error { return client.GetOccurrence(ctx, "o1").Err() }, http.MethodGet, "/api/occurrences/o1"},

		{"ProcessReceiptOCR", func() error { return client.ProcessReceiptOCR(ctx, "r1").Err() }, http.MethodPost, "/api/receipts/r1/process-ocr"},
		{"ValidateReceipt", func() error { return client.ValidateReceipt(ctx, "r1", models.ReceiptValidation{}).Err() }, http.MethodPut, "/api/receipts/r1/validate"},
		{"GetReceipts", func() error { return client.GetReceipts(ctx, nil).Err() }, http.MethodGet, "/api/receipts"},

		{"SendLocation", func() error { return client.SendLocation(ctx, models.LocationUpdate{}).Err() }, http.MethodPost, "/api/tracking/location"},
		{"GetCurrentLocations", func() error { return client.GetCurrentLocations(ctx).Err() }, http.MethodGet, "/api/tracking/drivers/current-locations"},
		{"GetDriverHistory", func() error { return client.GetDriverHistory(ctx, "d1", nil).Err() }, http.MethodGet, "/api/tracking/drivers/d1/history"},
		{"UpdateDriverStatus", func() error { return client.UpdateDriverStatus(ctx, "d1", "available").Err() }, http.MethodPut, "/api/tracking/drivers/d1/status"},

		{"GetDeliveriesReport", func() error { return client.GetDeliveriesReport(ctx, nil).Err() }, http.MethodGet, "/api/reports/deliveries"},
		{"GetDriverPerformanceReport", func() error { return client.GetDriverPerformanceReport(ctx, nil).Err() }, http.MethodGet, "/api/reports/driver-performance"},
		{"GetClientVolumeReport", func() error { return client.GetClientVolumeReport(ctx, nil).Err() }, http.MethodGet, "/api/reports/client-volume"},
		{"GetOccurrencesReport", func() error { return client.GetOccurrencesReport(ctx, nil).Err() }, http.MethodGet, "/api/reports/occurrences"},
		{"GetReceiptsReport", func() error { return client.GetReceiptsReport(ctx, nil).Err() }, http.MethodGet, "/api/reports/receipts"},
		{"GetDashboardKPIs", func() error { return client.GetDashboardKPIs(ctx, nil).Err() }, http.MethodGet, "/api/dashboard/kpis"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got = hit{}
			require.NoError(t, tt.call())
			assert.Equal(t, tt.method, got.method)
			assert.Equal(t, tt.path, got.path)
		})
	}
}

func TestEndpoints_EveryOperationHasARoute(t *testing.T) {
	for op, ep := range endpoints {
		assert.NotEmpty(t, ep.Method, op)
		assert.True(t, len(ep.Path) > len("/api/"), op)
		_, err := expandPath(ep.Path, Params{"id": "x"})
		assert.NoError(t, err, op)
	}
}
