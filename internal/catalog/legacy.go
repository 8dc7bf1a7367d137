package catalog

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/guttosm/packing-list-service/internal/domain/model"
)

// legacyProduct accepts the product shapes written by older revisions:
// variants may be missing, with box data kept on the product itself.
type legacyProduct struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	HSCode        string            `json:"hsCode"`
	Variants      []model.Variant   `json:"variants"`
	BoxQuantity   int               `json:"boxQuantity"`
	BoxDimensions *model.Dimensions `json:"boxDimensions"`
	Dimensions    *model.Dimensions `json:"dimensions"`
	Weights       *model.Weights    `json:"weights"`
	CreatedAt     string            `json:"createdAt"`
	UpdatedAt     string            `json:"updatedAt"`
}

// MigrateLegacyProduct converts a stored product document of any known
// revision into the canonical shape.
func MigrateLegacyProduct(data []byte) (model.Product, error) {
	var lp legacyProduct
	if err := json.Unmarshal(data, &lp); err != nil {
		return model.Product{}, fmt.Errorf("decode legacy product: %w", err)
	}

	p := model.Product{
		ID:        lp.ID,
		Name:      strings.TrimSpace(lp.Name),
		HSCode:    strings.TrimSpace(lp.HSCode),
		Variants:  lp.Variants,
		CreatedAt: parseLegacyTime(lp.CreatedAt),
		UpdatedAt: parseLegacyTime(lp.UpdatedAt),
	}
	if formatted, err := FormatHSCode(p.HSCode); err == nil {
		p.HSCode = formatted
	}

	if len(p.Variants) == 0 && (lp.BoxQuantity > 0 || lp.Weights != nil) {
		v := model.Variant{Name: "Default", BoxQuantity: lp.BoxQuantity, IsDefault: true}
		switch {
		case lp.BoxDimensions != nil:
			v.BoxDimensions = *lp.BoxDimensions
		case lp.Dimensions != nil:
			v.BoxDimensions = *lp.Dimensions
		}
		if lp.Weights != nil {
			v.Weights = *lp.Weights
		}
		p.Variants = []model.Variant{v}
	}
	NormalizeVariants(&p)
	return p, nil
}

func parseLegacyTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t
	}
	return time.Time{}
}
