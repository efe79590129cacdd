package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the fixed linear lifecycle the backend drives. The client
// only reads it and requests the cancel transition.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDIENTE"
	OrderStatusConfirmed OrderStatus = "CONFIRMADO"
	OrderStatusPaid      OrderStatus = "PAGADO"
	OrderStatusPreparing OrderStatus = "EN_PREPARACION"
	OrderStatusShipped   OrderStatus = "ENVIADO"
	OrderStatusDelivered OrderStatus = "ENTREGADO"
	OrderStatusCancelled OrderStatus = "CANCELADO"
	OrderStatusReturned  OrderStatus = "DEVUELTO"
)

// CanBeCancelled reports whether the backend will accept a cancel request.
func (s OrderStatus) CanBeCancelled() bool {
	return s == OrderStatusPending || s == OrderStatusConfirmed
}

// IsFinal reports whether the lifecycle has ended.
func (s OrderStatus) IsFinal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled || s == OrderStatusReturned
}

// PaymentMethod is the fixed enumerated set offered at checkout. The values
// are the wire constants the backend expects.
type PaymentMethod string

const (
	PaymentMercadoPago    PaymentMethod = "MERCADO_PAGO"
	PaymentCreditCard     PaymentMethod = "TARJETA_CREDITO"
	PaymentDebitCard      PaymentMethod = "TARJETA_DEBITO"
	PaymentBankTransfer   PaymentMethod = "TRANSFERENCIA"
	PaymentCashOnDelivery PaymentMethod = "EFECTIVO_CONTRA_ENTREGA"
)

// SimulatorRouted reports whether confirming an order with this method hands
// control to the payment simulator instead of submitting directly.
func (m PaymentMethod) SimulatorRouted() bool {
	switch m {
	case PaymentMercadoPago, PaymentCreditCard, PaymentDebitCard:
		return true
	}

	return false
}

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMercadoPago, PaymentCreditCard, PaymentDebitCard, PaymentBankTransfer, PaymentCashOnDelivery:
		return true
	}

	return false
}

// Label is the display name, purely presentational.
func (m PaymentMethod) Label() string {
	switch m {
	case PaymentMercadoPago:
		return "Mercado Pago"
	case PaymentCreditCard:
		return "Tarjeta de Crédito"
	case PaymentDebitCard:
		return "Tarjeta de Débito"
	case PaymentBankTransfer:
		return "Transferencia Bancaria"
	case PaymentCashOnDelivery:
		return "Efectivo contra entrega"
	}

	return string(m)
}

// PaymentMethods lists the selectable methods in display order.
func PaymentMethods() []PaymentMethod {
	return []PaymentMethod{
		PaymentMercadoPago,
		PaymentCreditCard,
		PaymentDebitCard,
		PaymentBankTransfer,
		PaymentCashOnDelivery,
	}
}

// Order is created exactly once per checkout and owned by the backend. The
// item list is a snapshot decoupled from the live cart.
type Order struct {
	ID               int64           `json:"id"`
	OrderNumber      string          `json:"numeroPedido"`
	Status           OrderStatus     `json:"estado"`
	PaymentMethod    PaymentMethod   `json:"metodoPago"`
	ShippingAddress  string          `json:"direccionEnvio"`
	ShippingCity     string          `json:"ciudadEnvio"`
	ShippingZipCode  string          `json:"codigoPostalEnvio"`
	ContactPhone     string          `json:"telefonoContacto"`
	Notes            string          `json:"notas"`
	Subtotal         decimal.Decimal `json:"subtotal"`
	ShippingCost     decimal.Decimal `json:"costoEnvio"`
	Discount         decimal.Decimal `json:"descuento"`
	Total            decimal.Decimal `json:"total"`
	PaymentReference string          `json:"referenciaPago,omitempty"`
	CouponCode       string          `json:"codigoCupon,omitempty"`
	Items            []OrderItem     `json:"detalles"`
	ItemCount        int             `json:"cantidadItems"`
	PlacedAt         time.Time       `json:"fechaPedido"`
	UpdatedAt        time.Time       `json:"fechaActualizacion"`
}

type OrderItem struct {
	ID          int64           `json:"id"`
	VariantID   int64           `json:"productoVarianteId"`
	ProductName string          `json:"productoNombre"`
	SizeName    string          `json:"talleNombre"`
	Color       string          `json:"color"`
	Quantity    int             `json:"cantidad"`
	UnitPrice   decimal.Decimal `json:"precioUnitario"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// CreateOrderRequest carries the checkout draft to the backend. The cart
// itself is resolved server-side from the identity headers.
type CreateOrderRequest struct {
	ShippingAddress string        `json:"direccionEnvio"    validate:"required"`
	ShippingCity    string        `json:"ciudadEnvio"       validate:"required"`
	ShippingZipCode string        `json:"codigoPostalEnvio,omitempty"`
	ContactPhone    string        `json:"telefonoContacto"  validate:"required"`
	Notes           string        `json:"notas,omitempty"`
	PaymentMethod   PaymentMethod `json:"metodoPago"        validate:"required"`
	CouponCode      string        `json:"codigoCupon,omitempty"`
}

// TotalsConsistent verifies the pricing invariant the client displays:
// total = subtotal + shipping − discount, never negative.
func (o *Order) TotalsConsistent() bool {
	expected := o.Subtotal.Add(o.ShippingCost).Sub(o.Discount)
	if expected.IsNegative() {
		expected = decimal.Zero
	}

	return o.Total.Equal(expected)
}
