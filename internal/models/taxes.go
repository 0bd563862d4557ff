package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// WithholdingTaxType is reference data describing one retenue à la
// source bracket (rate, scope, minimum amount).
type WithholdingTaxType struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	Name         string          `gorm:"size:100;not null" json:"name"`
	Code         string          `gorm:"size:20;not null" json:"code"`
	Rate         decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"rate"` // pourcentage
	IsLiberatory bool            `json:"is_liberatory"`
	IsDefinitive bool            `json:"is_definitive"`

	// Comma-separated list of client type labels this bracket applies to
	AppliesToClientTypes string          `gorm:"size:200" json:"applies_to_client_types"`
	MinimumAmount        decimal.Decimal `gorm:"type:decimal(12,3);not null" json:"minimum_amount"`
	Description          string          `gorm:"size:1000" json:"description"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

// WithholdingTaxPayment tracks remittance of a withheld amount to the
// treasury for a given order.
type WithholdingTaxPayment struct {
	ID                 uint               `gorm:"primaryKey" json:"id"`
	PurchaseOrderID    uint               `gorm:"not null" json:"purchase_order"`
	PurchaseOrder      PurchaseOrder      `gorm:"foreignKey:PurchaseOrderID" json:"-"`
	TaxTypeID          uint               `gorm:"not null" json:"tax_type"`
	TaxType            WithholdingTaxType `gorm:"foreignKey:TaxTypeID" json:"-"`
	Amount             decimal.Decimal    `gorm:"type:decimal(12,3);not null" json:"amount"`
	PaymentDate        time.Time          `gorm:"type:date;not null" json:"payment_date"`
	IsPaidToTreasury   bool               `json:"is_paid_to_treasury"`
	TreasuryPaymentRef string             `gorm:"size:100" json:"treasury_payment_ref"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}
