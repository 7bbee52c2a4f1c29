package models

// Tag is reference data used to label recipes.
type Tag struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Name  string `gorm:"size:200;not null" json:"name"`
	Color string `gorm:"size:7;not null;default:'#FF0000'" json:"color"`
	Slug  string `gorm:"size:200;not null;uniqueIndex" json:"slug"`
}
