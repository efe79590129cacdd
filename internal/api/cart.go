package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	appErrors "github.com/MaximoGamba/DemoEcommers/internal/errors"
	"github.com/MaximoGamba/DemoEcommers/internal/models"
)

// GetCart fetches the current cart. A missing cart is a valid state, not an
// error: the backend answers 404 until the first item is added, and this
// substitutes an empty cart.
func (c *Client) GetCart(ctx context.Context) (*models.Cart, error) {
	cart, err := call[*models.Cart](ctx, c, requestSpec{
		method:   http.MethodGet,
		path:     "/carrito",
		endpoint: "/carrito",
		identity: true,
	})
	if err != nil {
		if appErrors.IsNotFound(err) {
			return models.NewEmptyCart(), nil
		}

		return nil, err
	}

	if cart == nil {
		return models.NewEmptyCart(), nil
	}

	return cart, nil
}

func (c *Client) AddItem(ctx context.Context, req models.AddItemRequest) (*models.Cart, error) {
	return call[*models.Cart](ctx, c, requestSpec{
		method:   http.MethodPost,
		path:     "/carrito/items",
		endpoint: "/carrito/items",
		body:     req,
		identity: true,
	})
}

func (c *Client) UpdateItemQuantity(ctx context.Context, itemID int64, quantity int) (*models.Cart, error) {
	return call[*models.Cart](ctx, c, requestSpec{
		method:   http.MethodPut,
		path:     fmt.Sprintf("/carrito/items/%d", itemID),
		endpoint: "/carrito/items/{itemId}",
		body:     models.UpdateQuantityRequest{Quantity: quantity},
		identity: true,
	})
}

func (c *Client) RemoveItem(ctx context.Context, itemID int64) (*models.Cart, error) {
	return call[*models.Cart](ctx, c, requestSpec{
		method:   http.MethodDelete,
		path:     fmt.Sprintf("/carrito/items/%d", itemID),
		endpoint: "/carrito/items/{itemId}",
		identity: true,
	})
}

func (c *Client) ClearCart(ctx context.Context) (*models.Cart, error) {
	cart, err := call[*models.Cart](ctx, c, requestSpec{
		method:   http.MethodDelete,
		path:     "/carrito",
		endpoint: "/carrito",
		identity: true,
	})
	if err != nil {
		return nil, err
	}

	if cart == nil {
		return models.NewEmptyCart(), nil
	}

	return cart, nil
}

// TransferCart adopts the anonymous session's cart for the given user after
// login. The session header stays the anonymous one; the user header is the
// new owner.
func (c *Client) TransferCart(ctx context.Context, userID int64) (*models.Cart, error) {
	return call[*models.Cart](ctx, c, requestSpec{
		method:   http.MethodPost,
		path:     "/carrito/transferir",
		endpoint: "/carrito/transferir",
		headers: map[string]string{
			"X-Session-Id": c.identity.SessionID(),
			"X-User-Id":    strconv.FormatInt(userID, 10),
		},
	})
}
