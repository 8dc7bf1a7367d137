// Package dto defines the request and response bodies of the HTTP API.
//
// DTOs decouple the wire format from the domain model; binding tags
// carry the shape checks, domain rules stay in the service layer.
package dto

import (
	"time"

	"github.com/guttosm/packing-list-service/internal/domain/model"
)

// VariantRequest is a packaging variant in a product request.
//
// @Description Packaging variant payload
type VariantRequest struct {
	ID            string           `json:"id,omitempty"`
	Name          string           `json:"name" example:"Carton 10"`
	BoxQuantity   int              `json:"boxQuantity" example:"10"`
	BoxDimensions model.Dimensions `json:"boxDimensions"`
	Weights       model.Weights    `json:"weights"`
	IsDefault     bool             `json:"isDefault"`
} // @name VariantRequest

// ToModel converts the request to a variant.
func (r VariantRequest) ToModel() model.Variant {
	return model.Variant{
		ID:            r.ID,
		Name:          r.Name,
		BoxQuantity:   r.BoxQuantity,
		BoxDimensions: r.BoxDimensions,
		Weights:       r.Weights,
		IsDefault:     r.IsDefault,
	}
}

// ProductRequest is the body of product create and update.
//
// @Description Product payload
type ProductRequest struct {
	Name     string           `json:"name" example:"Widget"`
	HSCode   string           `json:"hsCode" example:"848180859000"`
	Variants []VariantRequest `json:"variants"`
} // @name ProductRequest

// ToModel converts the request to a product without id or timestamps.
func (r ProductRequest) ToModel() model.Product {
	p := model.Product{Name: r.Name, HSCode: r.HSCode}
	for _, v := range r.Variants {
		p.Variants = append(p.Variants, v.ToModel())
	}
	return p
}

// HSCodeRequest registers a customs code.
//
// @Description HS code payload
type HSCodeRequest struct {
	Code string `json:"code" binding:"required" example:"8481.80.85.90.00"`
} // @name HSCodeRequest

// CreatePackingListRequest starts a new draft list.
//
// @Description Packing list creation payload
type CreatePackingListRequest struct {
	Name  string             `json:"name" example:"Shipment 42"`
	Items []model.PackageRow `json:"items"`
} // @name CreatePackingListRequest

// UpdatePackingListRequest replaces a packing list. UpdatedAt is the value
// the client last read; a mismatch is a conflict.
//
// @Description Packing list replacement payload
type UpdatePackingListRequest struct {
	Name           string             `json:"name" example:"Shipment 42"`
	Status         model.ListStatus   `json:"status" example:"draft"`
	Items          []model.PackageRow `json:"items"`
	UpdatedAt      *time.Time         `json:"updatedAt"`
	ConvertToDraft bool               `json:"convertToDraft"`
} // @name UpdatePackingListRequest

// SetStatusRequest moves a list between draft and completed.
//
// @Description Status change payload
type SetStatusRequest struct {
	Status string `json:"status" binding:"required" example:"completed"`
} // @name SetStatusRequest

// PackageItemRequest references a catalog product and one of its variants.
// An empty VariantID selects the product's default variant.
//
// @Description Package line item payload
type PackageItemRequest struct {
	ProductID string  `json:"productId" binding:"required"`
	VariantID string  `json:"variantId,omitempty"`
	Quantity  float64 `json:"quantity" example:"20"`
} // @name PackageItemRequest

// PackageRequest adds or replaces a package. Start defaults to the next
// free package number; End is ignored for pallets.
//
// @Description Package payload
type PackageRequest struct {
	Kind           model.PackageKind    `json:"kind" binding:"required" example:"carton"`
	Start          int                  `json:"start,omitempty" example:"1"`
	End            int                  `json:"end,omitempty" example:"2"`
	Height         float64              `json:"height,omitempty" example:"150"`
	Items          []PackageItemRequest `json:"items"`
	Weights        *model.Weights       `json:"weights,omitempty"`
	HSCode         string               `json:"hsCode,omitempty"`
	ConvertToDraft bool                 `json:"convertToDraft"`
} // @name PackageRequest
