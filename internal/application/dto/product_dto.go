package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para registrar un producto con garantía.
// PurchaseDate en formato YYYY-MM-DD.
type CreateProductRequest struct {
	CustomerName   string          `json:"customer_name" validate:"required,min=1,max=200"`
	CustomerPhone  string          `json:"customer_phone" validate:"required,max=30"`
	CustomerEmail  string          `json:"customer_email" validate:"omitempty,email"`
	ProductName    string          `json:"product_name" validate:"required,min=1,max=200"`
	Brand          string          `json:"brand" validate:"max=100"`
	SerialNumber   string          `json:"serial_number" validate:"required,max=100"`
	Price          decimal.Decimal `json:"price"`
	PurchaseDate   string          `json:"purchase_date" validate:"required,datetime=2006-01-02"`
	WarrantyMonths int             `json:"warranty_months" validate:"omitempty,min=1,max=120"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID                string          `json:"id"`
	ParticipantNumber string          `json:"nomor_kepesertaan"`
	StoreID           string          `json:"store_id"`
	CreatedBy         string          `json:"created_by"`
	CustomerName      string          `json:"customer_name"`
	CustomerPhone     string          `json:"customer_phone"`
	CustomerEmail     string          `json:"customer_email,omitempty"`
	ProductName       string          `json:"product_name"`
	Brand             string          `json:"brand"`
	SerialNumber      string          `json:"serial_number"`
	Price             decimal.Decimal `json:"price"`
	PurchaseDate      time.Time       `json:"purchase_date"`
	WarrantyMonths    int             `json:"warranty_months"`
	WarrantyExpiresAt time.Time       `json:"warranty_expires_at"`
	IsActive          bool            `json:"is_active"`
	DeactivatedAt     *time.Time      `json:"deactivated_at,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
