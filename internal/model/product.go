package model

import (
	"time"
)

// Product represents a single paint product in the catalog.
//
// ImageKey is the opaque deletion handle for the blob object behind
// ImageURL. It is non-empty exactly when the record owns the asset; an
// externally hosted ImageURL has no key and is never deleted by us.
type Product struct {
	ID          uint      `json:"id" gorm:"primarykey"`
	Name        string    `json:"name" gorm:"type:varchar(255);not null;index"`
	Brand       string    `json:"brand" gorm:"type:varchar(255);not null"`
	Color       string    `json:"color" gorm:"type:varchar(100)"`
	ColorCode   string    `json:"color_code" gorm:"type:varchar(16)"`
	ImageURL    string    `json:"image_url,omitempty" gorm:"type:varchar(1024)"`
	ImageKey    string    `json:"image_key,omitempty" gorm:"type:varchar(512)"`
	Size        string    `json:"size" gorm:"type:varchar(50)"`
	Quantity    int       `json:"quantity" gorm:"default:0"`
	Price       float64   `json:"price" gorm:"not null"`
	Category    string    `json:"category" gorm:"type:varchar(100)"`
	Description string    `json:"description" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// OwnsImage reports whether the record owns a deletable blob asset.
func (p *Product) OwnsImage() bool {
	return p.ImageKey != ""
}
