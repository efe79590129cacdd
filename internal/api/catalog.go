package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/MaximoGamba/DemoEcommers/internal/models"
)

type ListProductsParams struct {
	Page       int
	Size       int
	CategoryID int64
	Search     string
}

func (p ListProductsParams) query() url.Values {
	query := url.Values{}

	if p.Page > 0 {
		query.Set("page", strconv.Itoa(p.Page))
	}

	if p.Size > 0 {
		query.Set("size", strconv.Itoa(p.Size))
	}

	if p.CategoryID > 0 {
		query.Set("categoriaId", strconv.FormatInt(p.CategoryID, 10))
	}

	if p.Search != "" {
		query.Set("busqueda", p.Search)
	}

	return query
}

func (c *Client) ListProducts(ctx context.Context, params ListProductsParams) (*models.ProductPage, error) {
	return call[*models.ProductPage](ctx, c, requestSpec{
		method:   http.MethodGet,
		path:     "/productos",
		endpoint: "/productos",
		query:    params.query(),
	})
}

func (c *Client) GetProduct(ctx context.Context, productID int64) (*models.Product, error) {
	return call[*models.Product](ctx, c, requestSpec{
		method:   http.MethodGet,
		path:     fmt.Sprintf("/productos/%d", productID),
		endpoint: "/productos/{id}",
	})
}

func (c *Client) FeaturedProducts(ctx context.Context) ([]models.Product, error) {
	return call[[]models.Product](ctx, c, requestSpec{
		method:   http.MethodGet,
		path:     "/productos/destacados",
		endpoint: "/productos/destacados",
	})
}

func (c *Client) OfferProducts(ctx context.Context) ([]models.Product, error) {
	return call[[]models.Product](ctx, c, requestSpec{
		method:   http.MethodGet,
		path:     "/productos/ofertas",
		endpoint: "/productos/ofertas",
	})
}

func (c *Client) ProductVariants(ctx context.Context, productID int64) ([]models.ProductVariant, error) {
	return call[[]models.ProductVariant](ctx, c, requestSpec{
		method:   http.MethodGet,
		path:     fmt.Sprintf("/productos/%d/talles", productID),
		endpoint: "/productos/{id}/talles",
	})
}

func (c *Client) RelatedProducts(ctx context.Context, productID int64) ([]models.Product, error) {
	return call[[]models.Product](ctx, c, requestSpec{
		method:   http.MethodGet,
		path:     fmt.Sprintf("/productos/%d/relacionados", productID),
		endpoint: "/productos/{id}/relacionados",
	})
}

func (c *Client) ListCategories(ctx context.Context) ([]models.Category, error) {
	return call[[]models.Category](ctx, c, requestSpec{
		method:   http.MethodGet,
		path:     "/categorias",
		endpoint: "/categorias",
	})
}

func (c *Client) ProductsByCategory(ctx context.Context, categoryID int64, params ListProductsParams) (*models.ProductPage, error) {
	return call[*models.ProductPage](ctx, c, requestSpec{
		method:   http.MethodGet,
		path:     fmt.Sprintf("/categorias/%d/productos", categoryID),
		endpoint: "/categorias/{id}/productos",
		query:    params.query(),
	})
}

// CategoriesOrEmpty is the best-effort navigation prefetch: any failure
// degrades to an empty list instead of surfacing an error.
func (c *Client) CategoriesOrEmpty(ctx context.Context) []models.Category {
	categories, err := c.ListCategories(ctx)
	if err != nil {
		c.logger.Debug("category prefetch failed", slog.String("error", err.Error()))

		return []models.Category{}
	}

	return categories
}
