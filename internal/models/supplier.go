package models

import "time"

// Supplier (fournisseur)
type Supplier struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Nom             string    `gorm:"not null" json:"nom"`
	MatriculeFiscal string    `gorm:"size:50;not null;unique" json:"matricule_fiscal"`
	Adresse         string    `json:"adresse"`
	Telephone       string    `gorm:"size:20" json:"telephone"`
	Email           string    `json:"email"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
