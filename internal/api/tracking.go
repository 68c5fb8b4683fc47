package api

import (
	"context"

	"github.com/benmeehan/fleetops/internal/models"
)

// SendLocation posts the current position of the authenticated driver.
func (c *Client) SendLocation(ctx context.Context, update models.LocationUpdate) Envelope[Ack] {
	return call[Ack](ctx, c, opSendLocation, nil, nil, update)
}

// GetCurrentLocations returns the latest snapshot of every tracked driver.
func (c *Client) GetCurrentLocations(ctx context.Context) Envelope[[]models.DriverLocation] {
	return call[[]models.DriverLocation](ctx, c, opCurrentLocations, nil, nil, nil)
}

func (c *Client) GetDriverHistory(ctx context.Context, driverID string, filters *Filters) Envelope[[]models.LocationPoint] {
	return call[[]models.LocationPoint](ctx, c, opDriverHistory, byID(driverID), filters, nil)
}

func (c *Client) UpdateDriverStatus(ctx context.Context, driverID, status string) Envelope[Ack] {
	return call[Ack](ctx, c, opUpdateDriverStatus, byID(driverID), nil, models.DriverStatusUpdate{Status: status})
}
