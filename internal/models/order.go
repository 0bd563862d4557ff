package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order lifecycle statuses.
const (
	OrderStatusDraft     = "DRAFT"
	OrderStatusConfirmed = "CONFIRMED"
	OrderStatusPaid      = "PAID"
	OrderStatusDelivered = "DELIVERED"
	OrderStatusCancelled = "CANCELLED"
)

// Order types; SUBSCRIPTION, INSURANCE and LEASING are excluded from
// withholding, FEES/RENT/COMMISSION carry special rates.
const (
	OrderTypeGoods        = "GOODS"
	OrderTypeServices     = "SERVICES"
	OrderTypeWorks        = "WORKS"
	OrderTypeSubscription = "SUBSCRIPTION"
	OrderTypeInsurance    = "INSURANCE"
	OrderTypeLeasing      = "LEASING"
	OrderTypeFees         = "FEES"
	OrderTypeRent         = "RENT"
	OrderTypeCommission   = "COMMISSION"
)

var OrderStatuses = []string{OrderStatusDraft, OrderStatusConfirmed, OrderStatusPaid, OrderStatusDelivered, OrderStatusCancelled}

var OrderTypes = []string{OrderTypeGoods, OrderTypeServices, OrderTypeWorks, OrderTypeSubscription, OrderTypeInsurance, OrderTypeLeasing, OrderTypeFees, OrderTypeRent, OrderTypeCommission}

// OrderTypeLabels gives the display label used in exclusion reasons.
var OrderTypeLabels = map[string]string{
	OrderTypeGoods:        "Marchandises/Équipements",
	OrderTypeServices:     "Services",
	OrderTypeWorks:        "Travaux",
	OrderTypeSubscription: "Abonnement",
	OrderTypeInsurance:    "Assurance",
	OrderTypeLeasing:      "Leasing",
	OrderTypeFees:         "Honoraires",
	OrderTypeRent:         "Loyers",
	OrderTypeCommission:   "Commissions",
}

// PurchaseOrder (bon de commande) carries stored financial totals; they
// are recomputed from items on every mutation, never edited directly.
type PurchaseOrder struct {
	ID                 uint                `gorm:"primaryKey" json:"id"`
	Reference          string              `gorm:"size:50;not null;unique" json:"reference"`
	ClientID           uint                `gorm:"not null" json:"client"`
	Client             Client              `gorm:"foreignKey:ClientID" json:"-"`
	ClientName         string              `gorm:"-" json:"client_name"`
	Status             string              `gorm:"size:20;not null;default:'DRAFT'" json:"status"`
	OrderType          string              `gorm:"size:20;not null;default:'GOODS'" json:"order_type"`
	Notes              string              `json:"notes"`
	ExpectedFinishDate *time.Time          `json:"expected_finish_date"`
	PaymentDate        *time.Time          `json:"payment_date"`
	Items              []PurchaseOrderItem `gorm:"foreignKey:OrderID" json:"items"`

	// Financial totals (3 décimales, convention Dinar tunisien)
	TotalHT  decimal.Decimal `gorm:"type:decimal(12,3);not null" json:"total_ht"`
	TotalTVA decimal.Decimal `gorm:"type:decimal(12,3);not null" json:"total_tva"`
	TotalTTC decimal.Decimal `gorm:"type:decimal(12,3);not null" json:"total_ttc"`

	// Retenue à la source
	WithholdingTaxAmount       decimal.Decimal `gorm:"type:decimal(12,3);not null" json:"withholding_tax_amount"`
	WithholdingTaxRate         decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"withholding_tax_rate"`
	WithholdingTaxApplied      bool            `json:"withholding_tax_applied"`
	WithholdingTaxExcluded     bool            `json:"withholding_tax_excluded"`
	WithholdingExclusionReason string          `gorm:"size:200" json:"withholding_exclusion_reason"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NetPayable is the amount actually due after deduction at source.
func (o PurchaseOrder) NetPayable() decimal.Decimal {
	return o.TotalTTC.Sub(o.WithholdingTaxAmount)
}

// PurchaseOrderItem snapshots unit price and TVA rate at order time so
// later product edits do not rewrite history.
type PurchaseOrderItem struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	OrderID     uint    `gorm:"not null;index" json:"-"`
	ProductID   uint    `gorm:"not null" json:"product"`
	Product     Product `gorm:"foreignKey:ProductID" json:"-"`
	ProductName string  `gorm:"-" json:"product_name"`
	Quantity    int64   `gorm:"not null" json:"quantity"`

	// Remise en pourcentage [0,100]
	Remise    decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"remise"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,3);not null" json:"unit_price"`
	TVARate   decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"tva_rate"`

	// Totaux calculés, stockés pour lecture directe
	TotalHT   decimal.Decimal `gorm:"type:decimal(12,3);not null" json:"total_ht"`
	TVAAmount decimal.Decimal `gorm:"type:decimal(12,3);not null" json:"tva_amount"`
	TotalTTC  decimal.Decimal `gorm:"type:decimal(12,3);not null" json:"total_ttc"`
}
