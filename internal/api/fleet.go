package api

import (
	"context"

	"github.com/benmeehan/fleetops/internal/models"
)

func (c *Client) GetDrivers(ctx context.Context, filters *Filters) Envelope[[]models.Driver] {
	return call[[]models.Driver](ctx, c, opListDrivers, nil, filters, nil)
}

func (c *Client) GetDriver(ctx context.Context, driverID string) Envelope[models.Driver] {
	return call[models.Driver](ctx, c, opGetDriver, byID(driverID), nil, nil)
}

func (c *Client) CreateDriver(ctx context.Context, input models.DriverInput) Envelope[models.Driver] {
	return call[models.Driver](ctx, c, opCreateDriver, nil, nil, input)
}

func (c *Client) UpdateDriver(ctx context.Context, driverID string, input models.DriverInput) Envelope[models.Driver] {
	return call[models.Driver](ctx, c, opUpdateDriver, byID(driverID), nil, input)
}

func (c *Client) GetVehicles(ctx context.Context, filters *Filters) Envelope[[]models.Vehicle] {
	return call[[]models.Vehicle](ctx, c, opListVehicles, nil, filters, nil)
}

func (c *Client) GetVehicle(ctx context.Context, vehicleID string) Envelope[models.Vehicle] {
	return call[models.Vehicle](ctx, c, opGetVehicle, byID(vehicleID), nil, nil)
}

func (c *Client) CreateVehicle(ctx context.Context, input models.VehicleInput) Envelope[models.Vehicle] {
	return call[models.Vehicle](ctx, c, opCreateVehicle, nil, nil, input)
}

func (c *Client) UpdateVehicle(ctx context.Context, vehicleID string, input models.VehicleInput) Envelope[models.Vehicle] {
	return call[models.Vehicle](ctx, c, opUpdateVehicle, byID(vehicleID), nil, input)
}

func (c *Client) DeleteVehicle(ctx context.Context, vehicleID string) Envelope[Ack] {
	return call[Ack](ctx, c, opDeleteVehicle, byID(vehicleID), nil, nil)
}
