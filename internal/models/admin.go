package models

import "github.com/shopspring/decimal"

// OrderStats is the back-office order dashboard summary.
type OrderStats struct {
	TotalOrders     int64           `json:"totalPedidos"`
	PendingOrders   int64           `json:"pedidosPendientes"`
	DeliveredOrders int64           `json:"pedidosEntregados"`
	CancelledOrders int64           `json:"pedidosCancelados"`
	TotalRevenue    decimal.Decimal `json:"ventasTotales"`
}

// SalesSummary is the /admin/metricas/resumen payload.
type SalesSummary struct {
	Revenue       decimal.Decimal `json:"ventas"`
	OrderCount    int64           `json:"cantidadPedidos"`
	AverageTicket decimal.Decimal `json:"ticketPromedio"`
	TopCategory   string          `json:"categoriaTop"`
}

// TopProduct is one row of the best-sellers metric.
type TopProduct struct {
	ProductID int64           `json:"productoId"`
	Name      string          `json:"nombre"`
	UnitsSold int64           `json:"unidadesVendidas"`
	Revenue   decimal.Decimal `json:"ventas"`
}

// AdminProductRequest is the back-office product create/update payload.
type AdminProductRequest struct {
	Name        string          `json:"nombre"       validate:"required"`
	Brand       string          `json:"marca"`
	Description string          `json:"descripcion"`
	Price       decimal.Decimal `json:"precio"       validate:"required"`
	OfferPrice  decimal.Decimal `json:"precioOferta"`
	OnOffer     bool            `json:"tieneOferta"`
	CategoryID  int64           `json:"categoriaId"  validate:"required"`
	ImageURL    string          `json:"imagenPrincipalUrl"`
}

// AdminVariantRequest creates or updates a purchasable variant.
type AdminVariantRequest struct {
	SizeID int64  `json:"talleId" validate:"required"`
	Color  string `json:"color"`
	Stock  int    `json:"stock"   validate:"min=0"`
}

// LoginResponse is the /auth/login payload.
type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"usuario"`
}
