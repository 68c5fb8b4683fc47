package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// endpoint binds an operation to its verb, path template and envelope depth.
// Depth counts the extra {"data": ...} levels the service wraps around its payload.
type endpoint struct {
	Method string
	Path   string
	Depth  int
}

const (
	opLogin                   = "auth.login"
	opSelectCompany           = "auth.selectCompany"
	opRefreshToken            = "auth.refresh"
	opLogout                  = "auth.logout"
	opForgotPassword          = "auth.forgotPassword"
	opAuthCompanies           = "auth.companies"
	opListUsers               = "users.list"
	opGetUser                 = "users.get"
	opCreateUser              = "users.create"
	opUpdateUser              = "users.update"
	opDeleteUser              = "users.delete"
	opListDrivers             = "drivers.list"
	opGetDriver               = "drivers.get"
	opCreateDriver            = "drivers.create"
	opUpdateDriver            = "drivers.update"
	opListVehicles            = "vehicles.list"
	opGetVehicle              = "vehicles.get"
	opCreateVehicle           = "vehicles.create"
	opUpdateVehicle           = "vehicles.update"
	opDeleteVehicle           = "vehicles.delete"
	opListCompanies           = "companies.list"
	opGetCompany              = "companies.get"
	opCreateCompany           = "companies.create"
	opUpdateCompany           = "companies.update"
	opCompanyStats            = "companies.stats"
	opCompanySettings         = "companies.settings"
	opUpdateCompanySettings   = "companies.updateSettings"
	opUploadCompanyLogo       = "companies.uploadLogo"
	opCreateDeliveryFromSefaz = "deliveries.createFromSefaz"
	opListDeliveries          = "deliveries.list"
	opGetDelivery             = "deliveries.get"
	opUpdateDelivery          = "deliveries.update"
	opUpdateDeliveryStatus    = "deliveries.updateStatus"
	opCreateOccurrence        = "deliveries.createOccurrence"
	opDeliveriesWithReceipts  = "deliveries.withReceipts"
	opUploadReceipt           = "receipts.upload"
	opProcessReceiptOCR       = "receipts.processOCR"
	opProcessDocumentAI       = "receipts.processDocumentAI"
	opValidateReceipt         = "receipts.validate"
	opListReceipts            = "receipts.list"
	opSendLocation            = "tracking.sendLocation"
	opCurrentLocations        = "tracking.currentLocations"
	opDriverHistory           = "tracking.driverHistory"
	opUpdateDriverStatus      = "tracking.updateDriverStatus"
	opListOccurrences         = "occurrences.list"
	opGetOccurrence           = "occurrences.get"
	opDeliveriesReport        = "reports.deliveries"
	opDriverPerformanceReport = "reports.driverPerformance"
	opClientVolumeReport      = "reports.clientVolume"
	opOccurrencesReport       = "reports.occurrences"
	opReceiptsReport          = "reports.receipts"
	opDashboardKPIs           = "dashboard.kpis"
)

var endpoints = map[string]endpoint{
	opLogin:                   {http.MethodPost, "/api/auth/login", 2},
	opSelectCompany:           {http.MethodPost, "/api/auth/select-company", 2},
	opRefreshToken:            {http.MethodPost, "/api/auth/refresh", 0},
	opLogout:                  {http.MethodPost, "/api/auth/logout", 0},
	opForgotPassword:          {http.MethodPost, "/api/auth/forgot-password", 0},
	opAuthCompanies:           {http.MethodGet, "/api/auth/companies", 0},
	opListUsers:               {http.MethodGet, "/api/users", 0},
	opGetUser:                 {http.MethodGet, "/api/users/:id", 0},
	opCreateUser:              {http.MethodPost, "/api/users", 0},
	opUpdateUser:              {http.MethodPut, "/api/users/:id", 0},
	opDeleteUser:              {http.MethodDelete, "/api/users/:id", 0},
	opListDrivers:             {http.MethodGet, "/api/drivers", 0},
	opGetDriver:               {http.MethodGet, "/api/drivers/:id", 0},
	opCreateDriver:            {http.MethodPost, "/api/drivers", 0},
	opUpdateDriver:            {http.MethodPut, "/api/drivers/:id", 0},
	opListVehicles:            {http.MethodGet, "/api/vehicles", 0},
	opGetVehicle:              {http.MethodGet, "/api/vehicles/:id", 0},
	opCreateVehicle:           {http.MethodPost, "/api/vehicles", 0},
	opUpdateVehicle:           {http.MethodPut, "/api/vehicles/:id", 0},
	opDeleteVehicle:           {http.MethodDelete, "/api/vehicles/:id", 0},
	opListCompanies:           {http.MethodGet, "/api/companies", 0},
	opGetCompany:              {http.MethodGet, "/api/companies/:id", 0},
	opCreateCompany:           {http.MethodPost, "/api/companies", 0},
	opUpdateCompany:           {http.MethodPut, "/api/companies/:id", 0},
	opCompanyStats:            {http.MethodGet, "/api/companies/:id/stats", 0},
	opCompanySettings:         {http.MethodGet, "/api/companies/:id/settings", 0},
	opUpdateCompanySettings:   {http.MethodPut, "/api/companies/:id/settings", 0},
	opUploadCompanyLogo:       {http.MethodPost, "/api/companies/:id/logo", 0},
	opCreateDeliveryFromSefaz: {http.MethodPost, "/api/deliveries/create-from-sefaz", 0},
	opListDeliveries:          {http.MethodGet, "/api/deliveries", 0},
	opGetDelivery:             {http.MethodGet, "/api/deliveries/:id", 0},
	opUpdateDelivery:          {http.MethodPut, "/api/deliveries/:id", 0},
	opUpdateDeliveryStatus:    {http.MethodPut, "/api/deliveries/:id/status", 0},
	opCreateOccurrence:        {http.MethodPost, "/api/deliveries/:id/occurrence", 0},
	opDeliveriesWithReceipts:  {http.MethodGet, "/api/deliveries/with-receipts", 0},
	opUploadReceipt:           {http.MethodPost, "/api/receipts/upload", 0},
	opProcessReceiptOCR:       {http.MethodPost, "/api/receipts/:id/process-ocr", 0},
	opProcessDocumentAI:       {http.MethodPost, "/api/receipts/process-documentai", 0},
	opValidateReceipt:         {http.MethodPut, "/api/receipts/:id/validate", 0},
	opListReceipts:            {http.MethodGet, "/api/receipts", 0},
	opSendLocation:            {http.MethodPost, "/api/tracking/location", 0},
	opCurrentLocations:        {http.MethodGet, "/api/tracking/drivers/current-locations", 0},
	opDriverHistory:           {http.MethodGet, "/api/tracking/drivers/:id/history", 0},
	opUpdateDriverStatus:      {http.MethodPut, "/api/tracking/drivers/:id/status", 0},
	opListOccurrences:         {http.MethodGet, "/api/occurrences", 0},
	opGetOccurrence:           {http.MethodGet, "/api/occurrences/:id", 0},
	opDeliveriesReport:        {http.MethodGet, "/api/reports/deliveries", 0},
	opDriverPerformanceReport: {http.MethodGet, "/api/reports/driver-performance", 0},
	opClientVolumeReport:      {http.MethodGet, "/api/reports/client-volume", 0},
	opOccurrencesReport:       {http.MethodGet, "/api/reports/occurrences", 0},
	opReceiptsReport:          {http.MethodGet, "/api/reports/receipts", 0},
	opDashboardKPIs:           {http.MethodGet, "/api/dashboard/kpis", 0},
}

// Params fills ":name" segments of an endpoint path.
type Params map[string]string

func byID(value string) Params {
	return Params{"id": value}
}

// expandPath substitutes path parameters, escaping each value.
func expandPath(template string, params Params) (string, error) {
	segments := strings.Split(template, "/")
	for i, segment := range segments {
		if !strings.HasPrefix(segment, ":") {
			continue
		}
		value, ok := params[segment[1:]]
		if !ok || value == "" {
			return "", fmt.Errorf("missing path parameter %q for %s", segment[1:], template)
		}
		segments[i] = url.PathEscape(value)
	}
	return strings.Join(segments, "/"), nil
}

// call resolves op in the endpoint table, performs the request and decodes the
// payload after unwrapping the endpoint's envelope depth.
func call[T any](ctx context.Context, c *Client, op string, params Params, filters *Filters, body any) Envelope[T] {
	ep, ok := endpoints[op]
	if !ok {
		return Failed[T](fmt.Sprintf("unknown endpoint %q", op))
	}

	path, err := expandPath(ep.Path, params)
	if err != nil {
		return Failed[T](err.Error())
	}

	raw := c.Request(ctx, withQuery(path, filters), RequestOptions{Method: ep.Method, Body: body})
	return decodeEnvelope[T](raw, ep.Depth)
}

// Ack is the payload of calls whose response body carries nothing the caller needs.
type Ack = json.RawMessage
