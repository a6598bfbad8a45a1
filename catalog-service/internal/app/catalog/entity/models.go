package entity

import "time"

// Category groups products; Name is unique.
type Category struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"type:varchar(100);not null;uniqueIndex:uq_categories_name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Category) TableName() string {
	return "categories"
}

// Product belongs to the store resolved through the identity service.
// Price and Stock stay nil when the product is sold through options only.
type Product struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	StoreID     int64     `json:"storeId" gorm:"not null;index"`
	CategoryID  int64     `json:"categoryId" gorm:"not null;index"`
	Name        string    `json:"name" gorm:"type:varchar(255);not null"`
	Description string    `json:"description" gorm:"type:varchar(2000);not null"`
	Price       *int      `json:"price"`
	Stock       *int      `json:"stock"`
	OptionName  string    `json:"optionName" gorm:"type:varchar(100);not null"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (Product) TableName() string {
	return "products"
}

type Option struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	ProductID int64     `json:"productId" gorm:"not null;index"`
	Name      string    `json:"name" gorm:"type:varchar(150);not null"`
	Price     int       `json:"price" gorm:"not null"`
	Stock     int       `json:"stock" gorm:"not null"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Option) TableName() string {
	return "options"
}

// ProductImage is stored before its product exists; ProductID stays nil until
// product creation attaches it.
type ProductImage struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	ProductID    *int64    `json:"productId" gorm:"index"`
	OriginalName string    `json:"originalName" gorm:"type:varchar(255);not null"`
	StorageKey   string    `json:"storageKey" gorm:"type:varchar(512);not null"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (ProductImage) TableName() string {
	return "product_images"
}

// ProductEvent is published to Kafka after a product is committed.
type ProductEvent struct {
	EventType  string    `json:"event_type"`
	ProductID  int64     `json:"product_id"`
	StoreID    int64     `json:"store_id"`
	CategoryID int64     `json:"category_id"`
	Name       string    `json:"name"`
	Timestamp  time.Time `json:"timestamp"`
}

const EventProductCreated = "PRODUCT_CREATED"
