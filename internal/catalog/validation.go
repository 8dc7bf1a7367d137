package catalog

import (
	"strings"

	"github.com/guttosm/packing-list-service/internal/domain/model"
)

// Variant validation messages, in check order.
const (
	MsgBoxQuantity    = "Box quantity must be greater than 0"
	MsgGrossPositive  = "Gross weight must be greater than 0"
	MsgNetPositive    = "Net weight must be greater than 0"
	MsgGrossBelowNet  = "Gross weight cannot be less than net weight"
	MsgLengthPositive = "Length must be greater than 0"
	MsgWidthPositive  = "Width must be greater than 0"
	MsgHeightPositive = "Height must be greater than 0"
)

// Product validation messages.
const (
	MsgNameRequired    = "Product name is required"
	MsgHSCodeRequired  = "HS code is required"
	MsgHSCodeInvalid   = "HS code must contain exactly 12 digits"
	MsgVariantRequired = "At least one variant is required"
)

// ValidateVariant reports every failing rule of a variant.
func ValidateVariant(v model.Variant) []string {
	var errs []string
	if v.BoxQuantity <= 0 {
		errs = append(errs, MsgBoxQuantity)
	}
	if v.Weights.Gross <= 0 {
		errs = append(errs, MsgGrossPositive)
	}
	if v.Weights.Net <= 0 {
		errs = append(errs, MsgNetPositive)
	}
	if v.Weights.Gross < v.Weights.Net {
		errs = append(errs, MsgGrossBelowNet)
	}
	if v.BoxDimensions.Length <= 0 {
		errs = append(errs, MsgLengthPositive)
	}
	if v.BoxDimensions.Width <= 0 {
		errs = append(errs, MsgWidthPositive)
	}
	if v.BoxDimensions.Height <= 0 {
		errs = append(errs, MsgHeightPositive)
	}
	return errs
}

// ValidateProduct checks the product fields and each of its variants.
// Variant messages are prefixed with the variant name.
func ValidateProduct(p model.Product) []string {
	var errs []string
	if strings.TrimSpace(p.Name) == "" {
		errs = append(errs, MsgNameRequired)
	}
	if strings.TrimSpace(p.HSCode) == "" {
		errs = append(errs, MsgHSCodeRequired)
	} else if _, err := NormalizeHSCode(p.HSCode); err != nil {
		errs = append(errs, MsgHSCodeInvalid)
	}
	if len(p.Variants) == 0 {
		errs = append(errs, MsgVariantRequired)
	}
	for _, v := range p.Variants {
		for _, msg := range ValidateVariant(v) {
			errs = append(errs, variantLabel(v)+": "+msg)
		}
	}
	return errs
}

func variantLabel(v model.Variant) string {
	if v.Name != "" {
		return v.Name
	}
	return "Variant"
}
