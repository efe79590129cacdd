package models

import "github.com/shopspring/decimal"

type Product struct {
	ID           int64            `json:"id"`
	Name         string           `json:"nombre"`
	Brand        string           `json:"marca"`
	Description  string           `json:"descripcion"`
	Price        decimal.Decimal  `json:"precio"`
	OfferPrice   decimal.Decimal  `json:"precioOferta"`
	FinalPrice   decimal.Decimal  `json:"precioFinal"`
	OnOffer      bool             `json:"tieneOferta"`
	MainImageURL string           `json:"imagenPrincipalUrl"`
	CategoryID   int64            `json:"categoriaId"`
	CategoryName string           `json:"categoriaNombre"`
	InStock      bool             `json:"tieneStock"`
	Variants     []ProductVariant `json:"variantes,omitempty"`
}

// ProductVariant is the purchasable unit: a product in a concrete size and
// color. Cart items reference variants, never bare products.
type ProductVariant struct {
	ID       int64  `json:"id"`
	SizeName string `json:"talleNombre"`
	Color    string `json:"color"`
	Stock    int    `json:"stock"`
	InStock  bool   `json:"tieneStock"`
}

type Category struct {
	ID           int64  `json:"id"`
	Name         string `json:"nombre"`
	Description  string `json:"descripcion"`
	ProductCount int    `json:"cantidadProductos"`
}

// ProductPage is the paginated catalog listing shape.
type ProductPage struct {
	Content       []Product `json:"content"`
	Page          int       `json:"number"`
	Size          int       `json:"size"`
	TotalElements int64     `json:"totalElements"`
	TotalPages    int       `json:"totalPages"`
}
