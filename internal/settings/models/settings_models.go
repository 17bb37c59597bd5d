package models

import (
	"time"
)

// ValueType is the closed set of types a setting value can carry.
type ValueType string

const (
	TypeString  ValueType = "string"
	TypeInteger ValueType = "integer"
	TypeFloat   ValueType = "float"
	TypeBoolean ValueType = "boolean"
	TypeJSON    ValueType = "json"
)

// SystemSetting is a tunable configuration row.
type SystemSetting struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	SettingKey   string    `gorm:"unique;not null" json:"setting_key" validate:"required"`
	SettingValue string    `gorm:"not null" json:"setting_value"`
	SettingGroup string    `gorm:"default:general;index" json:"setting_group"`
	Description  string    `json:"description"`
	ValueType    ValueType `gorm:"default:string" json:"value_type" validate:"required,oneof=string integer float boolean json"`
	IsEditable   bool      `gorm:"default:true" json:"is_editable"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
