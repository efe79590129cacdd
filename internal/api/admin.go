package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/MaximoGamba/DemoEcommers/internal/models"
)

// Back-office surface. Every route requires an authenticated admin token;
// the backend enforces the role, this client just forwards identity.

type AdminOrderFilter struct {
	Status models.OrderStatus
	Page   int
	Size   int
}

func (f AdminOrderFilter) query() url.Values {
	query := url.Values{}

	if f.Status != "" {
		query.Set("estado", string(f.Status))
	}

	if f.Page > 0 {
		query.Set("page", strconv.Itoa(f.Page))
	}

	if f.Size > 0 {
		query.Set("size", strconv.Itoa(f.Size))
	}

	return query
}

func (c *Client) AdminListOrders(ctx context.Context, filter AdminOrderFilter) ([]models.Order, error) {
	return call[[]models.Order](ctx, c, requestSpec{
		method:   http.MethodGet,
		path:     "/admin/pedidos",
		endpoint: "/admin/pedidos",
		query:    filter.query(),
		identity: true,
	})
}

func (c *Client) AdminPendingOrders(ctx context.Context) ([]models.Order, error) {
	return call[[]models.Order](ctx, c, requestSpec{
		method:   http.MethodGet,
		path:     "/admin/pedidos/pendientes",
		endpoint: "/admin/pedidos/pendientes",
		identity: true,
	})
}

func (c *Client) AdminRecentOrders(ctx context.Context) ([]models.Order, error) {
	return call[[]models.Order](ctx, c, requestSpec{
		method:   http.MethodGet,
		path:     "/admin/pedidos/recientes",
		endpoint: "/admin/pedidos/recientes",
		identity: true,
	})
}

func (c *Client) AdminGetOrder(ctx context.Context, orderID int64) (*models.Order, error) {
	return call[*models.Order](ctx, c, requestSpec{
		method:   http.MethodGet,
		path:     fmt.Sprintf("/admin/pedidos/%d", orderID),
		endpoint: "/admin/pedidos/{id}",
		identity: true,
	})
}

func (c *Client) AdminOrderStats(ctx context.Context) (*models.OrderStats, error) {
	return call[*models.OrderStats](ctx, c, requestSpec{
		method:   http.MethodGet,
		path:     "/admin/pedidos/estadisticas",
		endpoint: "/admin/pedidos/estadisticas",
		identity: true,
	})
}

// AdminUpdateOrderStatus requests an arbitrary lifecycle transition. The
// named transition helpers below are the preferred calls.
func (c *Client) AdminUpdateOrderStatus(ctx context.Context, orderID int64, status models.OrderStatus) (*models.Order, error) {
	return call[*models.Order](ctx, c, requestSpec{
		method:   http.MethodPut,
		path:     fmt.Sprintf("/admin/pedidos/%d/estado", orderID),
		endpoint: "/admin/pedidos/{id}/estado",
		body:     map[string]string{"nuevoEstado": string(status)},
		identity: true,
	})
}

func (c *Client) adminOrderTransition(ctx context.Context, orderID int64, action string) (*models.Order, error) {
	return call[*models.Order](ctx, c, requestSpec{
		method:   http.MethodPut,
		path:     fmt.Sprintf("/admin/pedidos/%d/%s", orderID, action),
		endpoint: "/admin/pedidos/{id}/" + action,
		identity: true,
	})
}

func (c *Client) AdminConfirmOrder(ctx context.Context, orderID int64) (*models.Order, error) {
	return c.adminOrderTransition(ctx, orderID, "confirmar")
}

func (c *Client) AdminMarkOrderPaid(ctx context.Context, orderID int64) (*models.Order, error) {
	return c.adminOrderTransition(ctx, orderID, "marcar-pagado")
}

func (c *Client) AdminPrepareOrder(ctx context.Context, orderID int64) (*models.Order, error) {
	return c.adminOrderTransition(ctx, orderID, "preparar")
}

func (c *Client) AdminShipOrder(ctx context.Context, orderID int64) (*models.Order, error) {
	return c.adminOrderTransition(ctx, orderID, "enviar")
}

func (c *Client) AdminDeliverOrder(ctx context.Context, orderID int64) (*models.Order, error) {
	return c.adminOrderTransition(ctx, orderID, "entregar")
}

func (c *Client) AdminCancelOrder(ctx context.Context, orderID int64) (*models.Order, error) {
	return c.adminOrderTransition(ctx, orderID, "cancelar")
}

func (c *Client) AdminListProducts(ctx context.Context) ([]models.Product, error) {
	return call[[]models.Product](ctx, c, requestSpec{
		method:   http.MethodGet,
		path:     "/admin/productos",
		endpoint: "/admin/productos",
		identity: true,
	})
}

func (c *Client) AdminCreateProduct(ctx context.Context, req models.AdminProductRequest) (*models.Product, error) {
	return call[*models.Product](ctx, c, requestSpec{
		method:   http.MethodPost,
		path:     "/admin/productos",
		endpoint: "/admin/productos",
		body:     req,
		identity: true,
	})
}

func (c *Client) AdminUpdateProduct(ctx context.Context, productID int64, req models.AdminProductRequest) (*models.Product, error) {
	return call[*models.Product](ctx, c, requestSpec{
		method:   http.MethodPut,
		path:     fmt.Sprintf("/admin/productos/%d", productID),
		endpoint: "/admin/productos/{id}",
		body:     req,
		identity: true,
	})
}

func (c *Client) AdminDeleteProduct(ctx context.Context, productID int64) error {
	_, err := call[struct{}](ctx, c, requestSpec{
		method:   http.MethodDelete,
		path:     fmt.Sprintf("/admin/productos/%d", productID),
		endpoint: "/admin/productos/{id}",
		identity: true,
	})

	return err
}

func (c *Client) AdminListVariants(ctx context.Context, productID int64) ([]models.ProductVariant, error) {
	return call[[]models.ProductVariant](ctx, c, requestSpec{
		method:   http.MethodGet,
		path:     fmt.Sprintf("/admin/productos/%d/variantes", productID),
		endpoint: "/admin/productos/{id}/variantes",
		identity: true,
	})
}

func (c *Client) AdminCreateVariant(ctx context.Context, productID int64, req models.AdminVariantRequest) (*models.ProductVariant, error) {
	return call[*models.ProductVariant](ctx, c, requestSpec{
		method:   http.MethodPost,
		path:     fmt.Sprintf("/admin/productos/%d/variantes", productID),
		endpoint: "/admin/productos/{id}/variantes",
		body:     req,
		identity: true,
	})
}

func (c *Client) AdminUpdateVariant(ctx context.Context, variantID int64, req models.AdminVariantRequest) (*models.ProductVariant, error) {
	return call[*models.ProductVariant](ctx, c, requestSpec{
		method:   http.MethodPut,
		path:     fmt.Sprintf("/admin/variantes/%d", variantID),
		endpoint: "/admin/variantes/{id}",
		body:     req,
		identity: true,
	})
}

func (c *Client) AdminSalesSummary(ctx context.Context) (*models.SalesSummary, error) {
	return call[*models.SalesSummary](ctx, c, requestSpec{
		method:   http.MethodGet,
		path:     "/admin/metricas/resumen",
		endpoint: "/admin/metricas/resumen",
		identity: true,
	})
}

func (c *Client) AdminTopProducts(ctx context.Context, limit int) ([]models.TopProduct, error) {
	query := url.Values{}
	if limit > 0 {
		query.Set("limite", strconv.Itoa(limit))
	}

	return call[[]models.TopProduct](ctx, c, requestSpec{
		method:   http.MethodGet,
		path:     "/admin/metricas/productos-mas-vendidos",
		endpoint: "/admin/metricas/productos-mas-vendidos",
		query:    query,
		identity: true,
	})
}
