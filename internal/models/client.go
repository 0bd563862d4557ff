package models

import "time"

// Client types mirror the fiscal categories that drive withholding rules.
const (
	ClientTypeIndividual   = "INDIVIDUAL"
	ClientTypeCompany      = "COMPANY"
	ClientTypeGovernment   = "GOVERNMENT"
	ClientTypePublicEntity = "PUBLIC_ENTITY"
	ClientTypeNonResident  = "NON_RESIDENT"
)

const (
	TaxRegimeReal       = "REAL"
	TaxRegimeSimplified = "SIMPLIFIED"
	TaxRegimeExempt     = "EXEMPT"
)

var ClientTypes = []string{ClientTypeIndividual, ClientTypeCompany, ClientTypeGovernment, ClientTypePublicEntity, ClientTypeNonResident}

var TaxRegimes = []string{TaxRegimeReal, TaxRegimeSimplified, TaxRegimeExempt}

// Client entity
type Client struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	Name              string    `gorm:"not null;index" json:"name"`
	Address           string    `json:"address"`
	TaxIdentification string    `gorm:"size:50" json:"tax_identification"` // Matricule fiscal
	ClientType        string    `gorm:"size:20;not null" json:"client_type"`
	TaxRegime         string    `gorm:"size:20" json:"tax_regime"`
	IsResident        bool      `gorm:"default:true" json:"is_resident"`
	IsVATRegistered   bool      `json:"is_vat_registered"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// IsPublic reports whether the client is the State, a local collectivity
// or a public entity (always subject to withholding above the threshold).
func (c Client) IsPublic() bool {
	return c.ClientType == ClientTypeGovernment || c.ClientType == ClientTypePublicEntity
}
