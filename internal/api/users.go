package api

import (
	"context"

	"github.com/benmeehan/fleetops/internal/models"
)

func (c *Client) GetUsers(ctx context.Context, filters *Filters) Envelope[[]models.User] {
	return call[[]models.User](ctx, c, opListUsers, nil, filters, nil)
}

func (c *Client) GetUser(ctx context.Context, userID string) Envelope[models.User] {
	return call[models.User](ctx, c, opGetUser, byID(userID), nil, nil)
}

func (c *Client) CreateUser(ctx context.Context, input models.UserInput) Envelope[models.User] {
	return call[models.User](ctx, c, opCreateUser, nil, nil, input)
}

func (c *Client) UpdateUser(ctx context.Context, userID string, input models.UserInput) Envelope[models.User] {
	return call[models.User](ctx, c, opUpdateUser, byID(userID), nil, input)
}

func (c *Client) DeleteUser(ctx context.Context, userID string) Envelope[Ack] {
	return call[Ack](ctx, c, opDeleteUser, byID(userID), nil, nil)
}
