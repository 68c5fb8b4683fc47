package api

import (
	"context"

	"github.com/benmeehan/fleetops/internal/models"
)

// CreateDeliveryFromSefaz imports an invoice by access key and creates its delivery.
func (c *Client) CreateDeliveryFromSefaz(ctx context.Context, req models.SefazDeliveryRequest) Envelope[models.Delivery] {
	return call[models.Delivery](ctx, c, opCreateDeliveryFromSefaz, nil, nil, req)
}

func (c *Client) GetDeliveries(ctx context.Context, filters *Filters) Envelope[[]models.Delivery] {
	return call[[]models.Delivery](ctx, c, opListDeliveries, nil, filters, nil)
}

func (c *Client) GetDelivery(ctx context.Context, deliveryID string) Envelope[models.Delivery] {
	return call[models.Delivery](ctx, c, opGetDelivery, byID(deliveryID), nil, nil)
}

func (c *Client) UpdateDelivery(ctx context.Context, deliveryID string, update models.DeliveryUpdate) Envelope[models.Delivery] {
	return call[models.Delivery](ctx, c, opUpdateDelivery, byID(deliveryID), nil, update)
}

func (c *Client) UpdateDeliveryStatus(ctx context.Context, deliveryID string, update models.DeliveryStatusUpdate) Envelope[models.Delivery] {
	return call[models.Delivery](ctx, c, opUpdateDeliveryStatus, byID(deliveryID), nil, update)
}

// CreateOccurrence registers a delivery exception.
func (c *Client) CreateOccurrence(ctx context.Context, deliveryID string, input models.OccurrenceInput) Envelope[models.Occurrence] {
	return call[models.Occurrence](ctx, c, opCreateOccurrence, byID(deliveryID), nil, input)
}

func (c *Client) GetDeliveriesWithReceipts(ctx context.Context, filters *Filters) Envelope[[]models.DeliveryWithReceipt] {
	return call[[]models.DeliveryWithReceipt](ctx, c, opDeliveriesWithReceipts, nil, filters, nil)
}

func (c *Client) GetOccurrences(ctx context.Context, filters *Filters) Envelope[[]models.Occurrence] {
	return call[[]models.Occurrence](ctx, c, opListOccurrences, nil, filters, nil)
}

func (c *Client) GetOccurrence(ctx context.Context, occurrenceID string) Envelope[models.Occurrence] {
	return call[models.Occurrence](ctx, c, opGetOccurrence, byID(occurrenceID), nil, nil)
}
