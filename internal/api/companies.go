package api

import (
	"context"
	"fmt"

	"github.com/benmeehan/fleetops/internal/models"
)

// GetCompanies lists companies for administration. See GetAuthCompanies for the login flow.
func (c *Client) GetCompanies(ctx context.Context, filters *Filters) Envelope[[]models.Company] {
	return call[[]models.Company](ctx, c, opListCompanies, nil, filters, nil)
}

func (c *Client) GetCompany(ctx context.Context, companyID string) Envelope[models.Company] {
	return call[models.Company](ctx, c, opGetCompany, byID(companyID), nil, nil)
}

func (c *Client) CreateCompany(ctx context.Context, input models.CompanyInput) Envelope[models.Company] {
	return call[models.Company](ctx, c, opCreateCompany, nil, nil, input)
}

func (c *Client) UpdateCompany(ctx context.Context, companyID string, input models.CompanyInput) Envelope[models.Company] {
	return call[models.Company](ctx, c, opUpdateCompany, byID(companyID), nil, input)
}

func (c *Client) GetCompanyStats(ctx context.Context, companyID string) Envelope[models.CompanyStats] {
	return call[models.CompanyStats](ctx, c, opCompanyStats, byID(companyID), nil, nil)
}

func (c *Client) GetCompanySettings(ctx context.Context, companyID string) Envelope[models.CompanySettings] {
	return call[models.CompanySettings](ctx, c, opCompanySettings, byID(companyID), nil, nil)
}

func (c *Client) UpdateCompanySettings(ctx context.Context, companyID string, settings models.CompanySettings) Envelope[models.CompanySettings] {
	return call[models.CompanySettings](ctx, c, opUpdateCompanySettings, byID(companyID), nil, settings)
}

// UploadCompanyLogo sends the image at logoPath as the "logo" multipart field.
func (c *Client) UploadCompanyLogo(ctx context.Context, companyID, logoPath string) Envelope[models.Company] {
	form, err := c.fileOps.BuildMultipartForm("logo", logoPath, nil)
	if err != nil {
		return Failed[models.Company](fmt.Sprintf("failed to read logo: %v", err))
	}
	return call[models.Company](ctx, c, opUploadCompanyLogo, byID(companyID), nil, form)
}
