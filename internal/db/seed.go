package db

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tunbiz/gestion/internal/models"
)

// Seed inserts the default retenue à la source brackets from the tax
// document. Existing codes are left untouched.
func Seed(db *gorm.DB) error {
	defaults := []models.WithholdingTaxType{
		{
			Name:                 "Retenue a la source 1,5% (IR/IS) - Acquisitions publiques",
			Code:                 "RS15_PUBLIC",
			Rate:                 decimal.RequireFromString("1.5"),
			AppliesToClientTypes: "Etat,Collectivites locales,Entreprises publiques,Etablissements publics",
			MinimumAmount:        decimal.RequireFromString("1000.000"),
			Description:          "Applicable aux montants >= 1000D TTC pour les acquisitions de l'Etat, collectivites locales et entreprises publiques",
		},
		{
			Name:                 "Retenue a la source 1,5% (IR/IS) - Marches prives",
			Code:                 "RS15_PRIVATE",
			Rate:                 decimal.RequireFromString("1.5"),
			AppliesToClientTypes: "Personnes morales privees,Personnes physiques regime reel",
			MinimumAmount:        decimal.RequireFromString("1000.000"),
			Description:          "Applicable aux marches conclus par personnes morales privees et personnes physiques au regime reel",
		},
		{
			Name:                 "Retenue a la source 2,5% - Honoraires (regime reel)",
			Code:                 "RS25_HONORAIRES",
			Rate:                 decimal.RequireFromString("2.5"),
			AppliesToClientTypes: "Tous",
			MinimumAmount:        decimal.Zero,
			Description:          "Applicable aux honoraires pour prestataires soumis au regime reel d'IR",
		},
		{
			Name:                 "Retenue a la source 10% - Honoraires (regime forfaitaire)",
			Code:                 "RS10_HONORAIRES",
			Rate:                 decimal.RequireFromString("10.0"),
			AppliesToClientTypes: "Tous",
			MinimumAmount:        decimal.Zero,
			Description:          "Applicable aux honoraires pour prestataires soumis au regime forfaitaire d'IR",
		},
		{
			Name:                 "Retenue a la source 10% - Loyers",
			Code:                 "RS10_LOYERS",
			Rate:                 decimal.RequireFromString("10.0"),
			AppliesToClientTypes: "Tous",
			MinimumAmount:        decimal.Zero,
			Description:          "Applicable aux loyers et revenus fonciers",
		},
		{
			Name:                 "Retenue a la source 5% - Commissions",
			Code:                 "RS05_COMMISSIONS",
			Rate:                 decimal.RequireFromString("5.0"),
			AppliesToClientTypes: "Tous",
			MinimumAmount:        decimal.Zero,
			Description:          "Applicable aux commissions et courtages",
		},
	}
	for _, t := range defaults {
		var existing models.WithholdingTaxType
		err := db.Where("code = ?", t.Code).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := db.Create(&t).Error; err != nil {
				return err
			}
			continue
		}
		if err != nil {
			return err
		}
	}
	return nil
}
