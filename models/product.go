package models

import (
	"time"
)

// Product is an item catalog entry.
type Product struct {
	ID          string    `gorm:"column:id;primaryKey" json:"id"`
	Name        string    `gorm:"column:name;not null" json:"name"`
	Price       float64   `gorm:"column:price;not null" json:"price"`
	Description string    `gorm:"column:description" json:"description"`
	Category    string    `gorm:"column:category" json:"category"`
	SKU         string    `gorm:"column:sku" json:"sku"`
	Type        string    `gorm:"column:type" json:"type"`
	CreatedAt   time.Time `gorm:"column:createdAt" json:"createdAt"`
}

func (Product) TableName() string { return "Product" }
