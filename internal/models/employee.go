package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Employee struct {
	ID        uint             `gorm:"primaryKey" json:"id"`
	Name      string           `gorm:"size:100;not null;index" json:"name"`
	Position  string           `gorm:"size:20" json:"position"`
	HireDate  *time.Time       `gorm:"type:date" json:"hire_date"`
	Phone     string           `gorm:"size:20" json:"phone"`
	Address   string           `json:"address"`
	Salary    *decimal.Decimal `gorm:"type:decimal(10,2)" json:"salary"`
	IsActive  bool             `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}
