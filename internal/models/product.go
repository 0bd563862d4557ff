package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product domain models
type ProductCategory struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Product struct {
	ID         uint             `gorm:"primaryKey" json:"id"`
	CategoryID *uint            `json:"category_id"`
	Category   *ProductCategory `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Code       string           `gorm:"size:100" json:"code"`
	Name       string           `gorm:"not null" json:"name"`

	// Prix unitaire HT, affiché à 2 décimales
	UnitPrice decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"prix_unit"`
	// Taux de TVA en pourcentage (19.00 = 19%)
	TVARate decimal.Decimal `gorm:"type:decimal(5,2);not null;default:19.00" json:"tva_rate"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
