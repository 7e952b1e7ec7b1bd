package models

import "time"

// Product is a catalog entry. The image, when present, is an inline
// base64 data URI captured from the upload form. "Still" is the stock count.
type Product struct {
	ID          string    `bson:"_id,omitempty" json:"_id"`
	Name        string    `bson:"name" json:"name"`
	Price       float64   `bson:"price" json:"price"`
	Image       string    `bson:"image,omitempty" json:"image"`
	Category    string    `bson:"category" json:"category"`
	Rating      float64   `bson:"rating" json:"rating"`
	Still       int       `bson:"still" json:"still"`
	Discount    float64   `bson:"discount" json:"discount"`
	Featured    bool      `bson:"featured" json:"featured"`
	Description string    `bson:"description,omitempty" json:"description,omitempty"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

func (p *Product) SetTimestamps() {
	now := time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
}

// ProductUpdate carries the fields an update may touch. The image pointer is
// nil when no new upload arrived, so the stored image is left alone.
type ProductUpdate struct {
	Name        string
	Price       float64
	Category    string
	Rating      float64
	Still       int
	Discount    float64
	Featured    bool
	Description string
	Image       *string
}

// ProductRef is the slice of product fields re-joined onto order line items
// for display. It reflects the catalog as it is now, not at order time.
type ProductRef struct {
	ID       string  `json:"_id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Image    string  `json:"image,omitempty"`
	Category string  `json:"category,omitempty"`
}
