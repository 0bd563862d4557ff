package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tunisian legal company forms.
const (
	CompanyTypeSARL  = "SARL"
	CompanyTypeSA    = "SA"
	CompanyTypeSNC   = "SNC"
	CompanyTypeSCS   = "SCS"
	CompanyTypeSCA   = "SCA"
	CompanyTypeSUARL = "SUARL"
	CompanyTypeEURL  = "EURL"
	CompanyTypeOther = "OTHER"
)

var CompanyTypes = []string{CompanyTypeSARL, CompanyTypeSA, CompanyTypeSNC, CompanyTypeSCS, CompanyTypeSCA, CompanyTypeSUARL, CompanyTypeEURL, CompanyTypeOther}

// CompanyInfo holds the owning company identity used on printed
// documents. In practice a single row exists.
type CompanyInfo struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:255;not null" json:"name"`
	LegalName   string `gorm:"size:255" json:"legal_name"` // dénomination sociale
	CompanyType string `gorm:"size:20;not null" json:"company_type"`

	TaxIdentification string `gorm:"size:50;not null;unique" json:"tax_identification"` // matricule fiscal
	TradeRegister     string `gorm:"size:50" json:"trade_register"`                     // registre de commerce

	Address     string `json:"address"`
	PhoneNumber string `gorm:"size:17" json:"phone_number"`
	Email       string `json:"email"`
	Website     string `json:"website"`

	FoundingDate *time.Time       `gorm:"type:date" json:"founding_date"`
	Capital      *decimal.Decimal `gorm:"type:decimal(15,2)" json:"capital"` // capital social

	BankName    string `gorm:"size:255" json:"bank_name"`
	BankAccount string `gorm:"size:50" json:"bank_account"`
	BankRIB     string `gorm:"size:100" json:"bank_rib"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
