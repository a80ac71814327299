package models

import "time"

// Recipe: reference data, never mutated by the recommender.
type Recipe struct {
	ID              string    `gorm:"primaryKey;size:64" json:"id" yaml:"id"`
	Name            string    `gorm:"size:200;not null" json:"name" yaml:"name"`
	CuisineType     string    `gorm:"size:100;not null" json:"cuisine_type" yaml:"cuisine_type"`
	PrepTime        int       `gorm:"not null" json:"prep_time" yaml:"prep_time"` // minutes
	UsesIngredients []string  `gorm:"serializer:json;type:jsonb;not null" json:"uses_ingredients" yaml:"uses_ingredients"`
	Instructions    []string  `gorm:"serializer:json;type:jsonb;not null" json:"instructions" yaml:"instructions"`
	DietaryTags     []string  `gorm:"serializer:json;type:jsonb;not null" json:"dietary_tags" yaml:"dietary_tags"`
	Ingredients     []string  `gorm:"serializer:json;type:jsonb;not null" json:"ingredients" yaml:"ingredients"` // with quantities, display only
	CreatedAt       time.Time `json:"created_at" yaml:"-"`
}
