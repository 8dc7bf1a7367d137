// Package packing holds the packing list engine: package weights, list
// totals, validation, package numbering and the export layout. Everything
// here is pure and operates on in-memory values.
package packing

import (
	"github.com/google/uuid"
	"github.com/guttosm/packing-list-service/internal/domain/model"
	"github.com/shopspring/decimal"
)

// PalletTareWeight is added once to the gross weight of every pallet, in kg.
const PalletTareWeight = 24.0

// boxFraction is the share of a full box an item represents.
func boxFraction(item model.PackageItem) decimal.Decimal {
	if item.Variant.BoxQuantity <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromFloat(item.Quantity).Div(decimal.NewFromInt(int64(item.Variant.BoxQuantity)))
}

// ComputeWeights scales each variant's box weight by quantity/boxQuantity
// and sums the result. Pallets get the tare added to gross exactly once.
func ComputeWeights(items []model.PackageItem, isPallet bool) model.Weights {
	gross, net := decimal.Zero, decimal.Zero
	for _, item := range items {
		f := boxFraction(item)
		gross = gross.Add(f.Mul(decimal.NewFromFloat(item.Variant.Weights.Gross)))
		net = net.Add(f.Mul(decimal.NewFromFloat(item.Variant.Weights.Net)))
	}
	if isPallet {
		gross = gross.Add(decimal.NewFromFloat(PalletTareWeight))
	}
	return model.Weights{
		Gross: gross.Round(1).InexactFloat64(),
		Net:   net.Round(1).InexactFloat64(),
	}
}

// BoxCount returns the unrounded number of boxes the items fill.
func BoxCount(items []model.PackageItem) float64 {
	return sumBoxes(items).InexactFloat64()
}

func sumBoxes(items []model.PackageItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(boxFraction(item))
	}
	return total
}

// IsPallet reports whether row is a pallet. An explicit kind wins; rows
// without one fall back to the 80 x 120 footprint test.
func IsPallet(row model.PackageRow) bool {
	if row.Kind != "" {
		return row.Kind == model.KindPallet
	}
	return row.Dimensions.IsPalletFootprint()
}

// PackageSpec describes a package to assemble.
type PackageSpec struct {
	Kind  model.PackageKind
	Start int
	End   int
	// Height of a pallet in cm. Ignored for cartons.
	Height float64
	Items  []model.PackageItem
	// Weights, when set, replaces the computed weights.
	Weights *model.Weights
	HSCode  string
}

// BuildPackage assembles a new row from spec. The range precondition is
// checked before anything else; the returned row is not validated.
func BuildPackage(spec PackageSpec) (model.PackageRow, error) {
	if !spec.Kind.Valid() {
		return model.PackageRow{}, ErrInvalidKind
	}
	if spec.Kind == model.KindPallet {
		spec.End = spec.Start
	}
	if err := ValidateRange(spec.Kind, spec.Start, spec.End); err != nil {
		return model.PackageRow{}, err
	}

	row := model.PackageRow{
		ID:        uuid.NewString(),
		Kind:      spec.Kind,
		PackageNo: FormatPackageNo(spec.Kind, spec.Start, spec.End),
		Items:     append([]model.PackageItem(nil), spec.Items...),
		HSCode:    spec.HSCode,
	}
	if spec.Kind == model.KindCarton {
		row.PackageRange = &model.PackageRange{Start: spec.Start, End: spec.End}
	}
	if spec.Kind == model.KindPallet {
		row.Dimensions = model.Dimensions{Length: model.PalletLength, Width: model.PalletWidth, Height: spec.Height}
	}
	if spec.Weights != nil {
		row.GrossWeight = model.Round1(spec.Weights.Gross)
		row.NetWeight = model.Round1(spec.Weights.Net)
		row.WeightOverride = true
	}
	RecomputePackage(&row)
	return row, nil
}

// RecomputePackage re-derives the carton dimensions, the row HS code and the
// weights from the items. Weights entered by hand are kept.
func RecomputePackage(row *model.PackageRow) {
	if row.Kind == model.KindCarton && len(row.Items) > 0 {
		row.Dimensions = row.Items[0].Variant.BoxDimensions
	}
	if row.HSCode == "" && len(row.Items) > 0 {
		row.HSCode = row.Items[0].Product.HSCode
	}
	if row.WeightOverride {
		return
	}
	w := ComputeWeights(row.Items, IsPallet(*row))
	row.GrossWeight = w.Gross
	row.NetWeight = w.Net
}
