package model

// ProductPatch is a sparse update: nil fields are left untouched, non-nil
// fields overwrite the stored value. Image fields are managed separately by
// the upload flow and are deliberately absent here.
type ProductPatch struct {
	Name        *string  `json:"name" form:"name"`
	Brand       *string  `json:"brand" form:"brand"`
	Color       *string  `json:"color" form:"color"`
	ColorCode   *string  `json:"color_code" form:"color_code"`
	Size        *string  `json:"size" form:"size"`
	Quantity    *int     `json:"quantity" form:"quantity"`
	Price       *float64 `json:"price" form:"price"`
	Category    *string  `json:"category" form:"category"`
	Description *string  `json:"description" form:"description"`
}

// Apply overwrites the fields present in the patch onto the product,
// leaving every other field as it was.
func (p *ProductPatch) Apply(dst *Product) {
	if p.Name != nil {
		dst.Name = *p.Name
	}
	if p.Brand != nil {
		dst.Brand = *p.Brand
	}
	if p.Color != nil {
		dst.Color = *p.Color
	}
	if p.ColorCode != nil {
		dst.ColorCode = *p.ColorCode
	}
	if p.Size != nil {
		dst.Size = *p.Size
	}
	if p.Quantity != nil {
		dst.Quantity = *p.Quantity
	}
	if p.Price != nil {
		dst.Price = *p.Price
	}
	if p.Category != nil {
		dst.Category = *p.Category
	}
	if p.Description != nil {
		dst.Description = *p.Description
	}
}
