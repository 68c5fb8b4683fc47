package api

import (
	"context"
	"fmt"

	"github.com/benmeehan/fleetops/internal/models"
)

// UploadReceipt uploads a proof-of-delivery image for a delivery.
func (c *Client) UploadReceipt(ctx context.Context, deliveryID, imagePath string) Envelope[models.Receipt] {
	form, err := c.fileOps.BuildMultipartForm("file", imagePath, map[string]string{"deliveryId": deliveryID})
	if err != nil {
		return Failed[models.Receipt](fmt.Sprintf("failed to read receipt: %v", err))
	}
	return call[models.Receipt](ctx, c, opUploadReceipt, nil, nil, form)
}

// ProcessReceiptOCR asks the receipts service to run OCR on an uploaded receipt.
func (c *Client) ProcessReceiptOCR(ctx context.Context, receiptID string) Envelope[models.Receipt] {
	return call[models.Receipt](ctx, c, opProcessReceiptOCR, byID(receiptID), nil, nil)
}

// ProcessDocumentAI sends a document straight to the Document AI extractor.
func (c *Client) ProcessDocumentAI(ctx context.Context, documentPath string) Envelope[Ack] {
	form, err := c.fileOps.BuildMultipartForm("file", documentPath, nil)
	if err != nil {
		return Failed[Ack](fmt.Sprintf("failed to read document: %v", err))
	}
	return call[Ack](ctx, c, opProcessDocumentAI, nil, nil, form)
}

func (c *Client) ValidateReceipt(ctx context.Context, receiptID string, validation models.ReceiptValidation) Envelope[models.Receipt] {
	return call[models.Receipt](ctx, c, opValidateReceipt, byID(receiptID), nil, validation)
}

func (c *Client) GetReceipts(ctx context.Context, filters *Filters) Envelope[[]models.Receipt] {
	return call[[]models.Receipt](ctx, c, opListReceipts, nil, filters, nil)
}
