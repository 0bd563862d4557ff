package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Stock document types
const (
	StockDocumentBon     = "BON"     // bon de livraison
	StockDocumentFacture = "FACTURE" // facture fournisseur
)

var StockDocumentTypes = []string{StockDocumentBon, StockDocumentFacture}

// StockDocument is a supplier delivery note or invoice grouping
// received articles.
type StockDocument struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Ref         string         `gorm:"size:50" json:"ref"`
	Date        time.Time      `gorm:"type:date;not null" json:"date"`
	Description string         `json:"description"`
	SupplierID  *uint          `json:"fournisseur"`
	Supplier    *Supplier      `gorm:"foreignKey:SupplierID" json:"-"`
	Type        string         `gorm:"size:10;not null;default:'BON'" json:"type"`
	Articles    []StockArticle `gorm:"foreignKey:DocumentID" json:"articles"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

type StockArticle struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	DocumentID   *uint           `gorm:"index" json:"document"`
	Code         string          `gorm:"size:50" json:"code"`
	Designation  string          `gorm:"size:255" json:"designation"`
	Quantite     int64           `gorm:"not null" json:"quantite"`
	PrixUnitaire decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"prix_unitaire"`
	Description  string          `json:"description"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}
