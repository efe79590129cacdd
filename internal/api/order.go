package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/MaximoGamba/DemoEcommers/internal/models"
)

// CreateOrder submits the checkout draft. The backend snapshots the session's
// cart into the order and computes the authoritative totals.
func (c *Client) CreateOrder(ctx context.Context, req *models.CreateOrderRequest) (*models.Order, error) {
	return call[*models.Order](ctx, c, requestSpec{
		method:   http.MethodPost,
		path:     "/pedidos",
		endpoint: "/pedidos",
		body:     req,
		identity: true,
	})
}

func (c *Client) GetOrder(ctx context.Context, orderID int64) (*models.Order, error) {
	return call[*models.Order](ctx, c, requestSpec{
		method:   http.MethodGet,
		path:     fmt.Sprintf("/pedidos/%d", orderID),
		endpoint: "/pedidos/{id}",
		identity: true,
	})
}

func (c *Client) GetOrderByNumber(ctx context.Context, orderNumber string) (*models.Order, error) {
	return call[*models.Order](ctx, c, requestSpec{
		method:   http.MethodGet,
		path:     "/pedidos/numero/" + orderNumber,
		endpoint: "/pedidos/numero/{numero}",
		identity: true,
	})
}

func (c *Client) ListOrders(ctx context.Context) ([]models.Order, error) {
	return call[[]models.Order](ctx, c, requestSpec{
		method:   http.MethodGet,
		path:     "/pedidos/lista",
		endpoint: "/pedidos/lista",
		identity: true,
	})
}

// CancelOrder requests the cancel transition; the backend refuses it for
// orders past CONFIRMADO.
func (c *Client) CancelOrder(ctx context.Context, orderID int64) (*models.Order, error) {
	return call[*models.Order](ctx, c, requestSpec{
		method:   http.MethodPut,
		path:     fmt.Sprintf("/pedidos/%d/cancelar", orderID),
		endpoint: "/pedidos/{id}/cancelar",
		identity: true,
	})
}
