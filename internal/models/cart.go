package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cart is the client-side cached copy of the remote cart resource. The
// backend owns it; every mutating call fully replaces this struct with the
// server response, the client never patches it locally.
type Cart struct {
	ID               int64           `json:"id"`
	SessionID        string          `json:"sessionId"`
	UserID           *int64          `json:"usuarioId"`
	Items            []CartItem      `json:"items"`
	ItemCount        int             `json:"cantidadItems"`
	DistinctProducts int             `json:"cantidadProductosDistintos"`
	Total            decimal.Decimal `json:"total"`
	CreatedAt        time.Time       `json:"fechaCreacion"`
	UpdatedAt        time.Time       `json:"fechaActualizacion"`
}

// CartItem references a purchasable variant (product + size/color) inside a
// cart. Quantity changes go through whole-item replace or remove requests.
type CartItem struct {
	ID             int64           `json:"id"`
	VariantID      int64           `json:"productoVarianteId"`
	ProductName    string          `json:"productoNombre"`
	SizeName       string          `json:"talleNombre"`
	Color          string          `json:"color"`
	ImageURL       string          `json:"imagenUrl"`
	Quantity       int             `json:"cantidad"`
	UnitPrice      decimal.Decimal `json:"precioUnitario"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	StockAvailable int             `json:"stockDisponible"`
	StockOK        bool            `json:"stockSuficiente"`
}

// NewEmptyCart is the value substituted when the backend has no cart for the
// session. An empty cart is a valid state, not an error.
func NewEmptyCart() *Cart {
	return &Cart{
		Items:     []CartItem{},
		ItemCount: 0,
		Total:     decimal.Zero,
	}
}

func (c *Cart) IsEmpty() bool {
	return c == nil || len(c.Items) == 0
}

// ItemsSubtotal sums the per-item subtotals; for a consistent server
// response it equals Total.
func (c *Cart) ItemsSubtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, item := range c.Items {
		sum = sum.Add(item.Subtotal)
	}

	return sum
}

type AddItemRequest struct {
	VariantID int64 `json:"productoVarianteId" validate:"required"`
	Quantity  int   `json:"cantidad"           validate:"required,min=1"`
}

type UpdateQuantityRequest struct {
	Quantity int `json:"cantidad" validate:"required,min=1"`
}
