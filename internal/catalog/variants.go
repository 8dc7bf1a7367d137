// Package catalog implements the product and variant rules of the catalog:
// the single default variant invariant, HS code formatting and validation.
package catalog

import (
	"errors"

	"github.com/google/uuid"
	"github.com/guttosm/packing-list-service/internal/domain/model"
)

// ErrVariantNotFound is returned when a variant id is not part of the product.
var ErrVariantNotFound = errors.New("variant not found")

// AddVariant appends v to the product and returns the stored variant.
// A variant marked default demotes all others; the first variant of an empty
// set becomes default regardless of its flag.
func AddVariant(p *model.Product, v model.Variant) model.Variant {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	if len(p.Variants) == 0 {
		v.IsDefault = true
	}
	if v.IsDefault {
		for i := range p.Variants {
			p.Variants[i].IsDefault = false
		}
	}
	p.Variants = append(p.Variants, v)
	return v
}

// RemoveVariant deletes the variant with the given id. Removing the default
// promotes the first remaining variant.
func RemoveVariant(p *model.Product, id string) error {
	idx := -1
	for i, v := range p.Variants {
		if v.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrVariantNotFound
	}

	wasDefault := p.Variants[idx].IsDefault
	p.Variants = append(p.Variants[:idx], p.Variants[idx+1:]...)
	if wasDefault && len(p.Variants) > 0 {
		p.Variants[0].IsDefault = true
	}
	return nil
}

// SetDefaultVariant makes the variant with the given id the only default.
func SetDefaultVariant(p *model.Product, id string) error {
	if _, ok := p.FindVariant(id); !ok {
		return ErrVariantNotFound
	}
	for i := range p.Variants {
		p.Variants[i].IsDefault = p.Variants[i].ID == id
	}
	return nil
}

// DefaultVariant returns the default variant, falling back to the first one.
func DefaultVariant(p model.Product) (model.Variant, bool) {
	for _, v := range p.Variants {
		if v.IsDefault {
			return v, true
		}
	}
	if len(p.Variants) > 0 {
		return p.Variants[0], true
	}
	return model.Variant{}, false
}

// NormalizeVariants assigns missing ids and repairs the default flag on a
// whole variant set: the first variant marked default wins, else the first.
func NormalizeVariants(p *model.Product) {
	if len(p.Variants) == 0 {
		return
	}
	chosen := 0
	for i, v := range p.Variants {
		if v.IsDefault {
			chosen = i
			break
		}
	}
	for i := range p.Variants {
		if p.Variants[i].ID == "" {
			p.Variants[i].ID = uuid.NewString()
		}
		p.Variants[i].IsDefault = i == chosen
	}
}
