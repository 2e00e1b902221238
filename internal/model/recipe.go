package model

import (
	"time"
)

// Recipe is the persisted row shape of a recipe. List fields are stored as JSON
// array text; Tags is nullable and NULL means the recipe was saved without tags.
// Timestamps are stamped by the stores, not by gorm.
type Recipe struct {
	ID           string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	CreatedAt    time.Time `gorm:"not null;index;autoCreateTime:false" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null;autoUpdateTime:false" json:"updated_at"`
	Title        string    `gorm:"size:255;not null" json:"title"`
	Description  string    `gorm:"type:text" json:"description"`
	Ingredients  string    `gorm:"type:text;not null;default:'[]'" json:"ingredients"`
	Instructions string    `gorm:"type:text;not null;default:'[]'" json:"instructions"`
	CookingTime  int       `gorm:"not null;default:30" json:"cooking_time"`
	Difficulty   string    `gorm:"size:20;not null;default:'medium'" json:"difficulty"`
	Category     string    `gorm:"size:20;not null;default:'main'" json:"category"`
	Tags         *string   `gorm:"type:text" json:"tags"`
}

// TableName pins the table name used by both the gorm store and the SQL migrations
func (Recipe) TableName() string {
	return "recipes"
}
