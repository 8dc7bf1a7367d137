package model

import "time"

// Variant is a named packaging configuration of a product.
//
// @Description Packaging variant of a product
type Variant struct {
	ID            string     `json:"id" bson:"id" example:"4b1c6f4e-8c1d-4a55-9f3e-2f0a7c3f9d10"`
	Name          string     `json:"name" bson:"name" example:"Carton 10"`
	BoxQuantity   int        `json:"boxQuantity" bson:"box_quantity" example:"10"`
	BoxDimensions Dimensions `json:"boxDimensions" bson:"box_dimensions"`
	Weights       Weights    `json:"weights" bson:"weights"`
	IsDefault     bool       `json:"isDefault" bson:"is_default"`
}

// Product is a catalog entry owning its variants.
//
// @Description Catalog product with packaging variants
type Product struct {
	ID        string    `json:"id" bson:"_id"`
	Name      string    `json:"name" bson:"name" example:"Widget"`
	HSCode    string    `json:"hsCode" bson:"hs_code" example:"8481.80.85.90.00"`
	Variants  []Variant `json:"variants" bson:"variants"`
	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updated_at"`
}

// Clone returns a deep copy of the product.
func (p Product) Clone() Product {
	out := p
	if p.Variants != nil {
		out.Variants = make([]Variant, len(p.Variants))
		copy(out.Variants, p.Variants)
	}
	return out
}

// FindVariant returns the variant with the given id.
func (p Product) FindVariant(id string) (Variant, bool) {
	for _, v := range p.Variants {
		if v.ID == id {
			return v, true
		}
	}
	return Variant{}, false
}

// HSCode is a registered customs code.
//
// @Description Harmonized System customs code
type HSCode struct {
	ID   string `json:"id" bson:"_id"`
	Code string `json:"code" bson:"code" example:"8481.80.85.90.00"`
}
