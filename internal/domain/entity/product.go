package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultWarrantyMonths duración de garantía cuando la petición no la indica.
const DefaultWarrantyMonths = 12

// Product producto con garantía registrado por un SALES.
// ParticipantNumber (nomor_kepesertaan) lo identifica de forma permanente: no se reasigna
// ni se reutiliza, ni siquiera tras un borrado lógico.
type Product struct {
	ID                string
	ParticipantNumber string // {kode_toko}-{n}
	StoreID           string
	CreatedBy         string
	CustomerName      string
	CustomerPhone     string
	CustomerEmail     string
	ProductName       string
	Brand             string
	SerialNumber      string
	Price             decimal.Decimal
	PurchaseDate      time.Time
	WarrantyMonths    int
	WarrantyExpiresAt time.Time
	IsActive          bool
	DeactivatedAt     *time.Time
	DeactivatedBy     *string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// WarrantyExpiry fecha fin de garantía a partir de la compra.
func WarrantyExpiry(purchase time.Time, months int) time.Time {
	if months <= 0 {
		months = DefaultWarrantyMonths
	}
	return purchase.AddDate(0, months, 0)
}

// UnderWarranty informa si la garantía sigue vigente en el instante dado.
func (p *Product) UnderWarranty(at time.Time) bool {
	return p.IsActive && at.Before(p.WarrantyExpiresAt)
}
