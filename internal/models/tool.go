package models

import "time"

// Tool conditions
const (
	ToolConditionGood   = "good"
	ToolConditionRepair = "repair"
	ToolConditionBroken = "broken"
)

var ToolConditions = []string{ToolConditionGood, ToolConditionRepair, ToolConditionBroken}

// Tool is an inventory entry for workshop equipment.
type Tool struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	Name            string     `gorm:"size:255;not null" json:"name"`
	Type            string     `gorm:"size:255" json:"type"` // e.g. drill, saw
	Description     string     `json:"description"`
	Supplier        string     `gorm:"size:255" json:"supplier"`
	PurchaseDate    *time.Time `gorm:"type:date" json:"purchase_date"`
	Quantity        int64      `gorm:"not null;default:1" json:"quantity"`
	Condition       string     `gorm:"size:20;not null;default:'good'" json:"condition"`
	Location        string     `gorm:"size:255" json:"location"`
	LastMaintenance *time.Time `gorm:"type:date" json:"last_maintenance"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}
