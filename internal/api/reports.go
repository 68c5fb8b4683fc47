package api

import (
	"context"

	"github.com/benmeehan/fleetops/internal/models"
)

func (c *Client) GetDeliveriesReport(ctx context.Context, filters *Filters) Envelope[models.Report] {
	return call[models.Report](ctx, c, opDeliveriesReport, nil, filters, nil)
}

func (c *Client) GetDriverPerformanceReport(ctx context.Context, filters *Filters) Envelope[models.Report] {
	return call[models.Report](ctx, c, opDriverPerformanceReport, nil, filters, nil)
}

func (c *Client) GetClientVolumeReport(ctx context.Context, filters *Filters) Envelope[models.Report] {
	return call[models.Report](ctx, c, opClientVolumeReport, nil, filters, nil)
}

func (c *Client) GetOccurrencesReport(ctx context.Context, filters *Filters) Envelope[models.Report] {
	return call[models.Report](ctx, c, opOccurrencesReport, nil, filters, nil)
}

func (c *Client) GetReceiptsReport(ctx context.Context, filters *Filters) Envelope[models.Report] {
	return call[models.Report](ctx, c, opReceiptsReport, nil, filters, nil)
}

func (c *Client) GetDashboardKPIs(ctx context.Context, filters *Filters) Envelope[models.DashboardKPIs] {
	return call[models.DashboardKPIs](ctx, c, opDashboardKPIs, nil, filters, nil)
}
