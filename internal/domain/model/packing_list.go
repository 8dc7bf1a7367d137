package model

import (
	"fmt"
	"time"
)

// PackageKind distinguishes pallets from carton ranges.
type PackageKind string

const (
	// KindPallet is a single pallet with a fixed footprint and tare.
	KindPallet PackageKind = "pallet"
	// KindCarton is one or more identical cartons numbered as a range.
	KindCarton PackageKind = "carton"
)

// Valid reports whether k is a known kind.
func (k PackageKind) Valid() bool {
	return k == KindPallet || k == KindCarton
}

// ListStatus is the lifecycle state of a packing list.
type ListStatus string

const (
	StatusDraft     ListStatus = "draft"
	StatusCompleted ListStatus = "completed"
)

// ParseListStatus validates a status string.
func ParseListStatus(s string) (ListStatus, error) {
	switch ListStatus(s) {
	case StatusDraft, StatusCompleted:
		return ListStatus(s), nil
	default:
		return "", fmt.Errorf("unknown packing list status %q", s)
	}
}

// PackageRange is the inclusive physical box numbering of a carton row.
type PackageRange struct {
	Start int `json:"start" bson:"start" example:"1"`
	End   int `json:"end" bson:"end" example:"2"`
}

// Size returns the number of physical boxes in the range.
func (r PackageRange) Size() int {
	return r.End - r.Start + 1
}

// ProductSnapshot holds the product fields copied into a package item.
type ProductSnapshot struct {
	ID     string `json:"id" bson:"id"`
	Name   string `json:"name" bson:"name" example:"Widget"`
	HSCode string `json:"hsCode" bson:"hs_code" example:"8481.80.85.90.00"`
}

// PackageItem is a line item inside a package. Product and variant are copied
// at add time so later catalog edits do not change committed lists.
type PackageItem struct {
	Product  ProductSnapshot `json:"product" bson:"product"`
	Variant  Variant         `json:"variant" bson:"variant"`
	Quantity float64         `json:"quantity" bson:"quantity" example:"20"`
}

// PackageRow is a pallet or a carton range in a packing list.
//
// @Description Package (pallet or carton range) in a packing list
type PackageRow struct {
	ID           string        `json:"id" bson:"id"`
	Kind         PackageKind   `json:"kind,omitempty" bson:"kind,omitempty" example:"carton"`
	PackageNo    string        `json:"packageNo" bson:"package_no" example:"1 to 2"`
	PackageRange *PackageRange `json:"packageRange,omitempty" bson:"package_range,omitempty"`
	Items        []PackageItem `json:"items" bson:"items"`
	GrossWeight  float64       `json:"grossWeight" bson:"gross_weight" example:"11"`
	NetWeight    float64       `json:"netWeight" bson:"net_weight" example:"10"`
	Dimensions   Dimensions    `json:"dimensions" bson:"dimensions"`
	HSCode       string        `json:"hsCode,omitempty" bson:"hs_code,omitempty"`
	// WeightOverride marks weights entered by hand; they are kept until items change.
	WeightOverride bool `json:"weightOverride,omitempty" bson:"weight_override,omitempty"`
}

// Clone returns a deep copy of the row.
func (r PackageRow) Clone() PackageRow {
	out := r
	if r.PackageRange != nil {
		rng := *r.PackageRange
		out.PackageRange = &rng
	}
	if r.Items != nil {
		out.Items = make([]PackageItem, len(r.Items))
		copy(out.Items, r.Items)
	}
	return out
}

// PackingList is a shipping manifest made of packages.
//
// @Description Packing list with packages and derived totals
type PackingList struct {
	ID                 string       `json:"id" bson:"_id"`
	Name               string       `json:"name" bson:"name" example:"Shipment 42"`
	CreatedAt          time.Time    `json:"createdAt" bson:"created_at"`
	UpdatedAt          time.Time    `json:"updatedAt" bson:"updated_at"`
	Status             ListStatus   `json:"status" bson:"status" example:"draft"`
	Items              []PackageRow `json:"items" bson:"items"`
	TotalGrossWeight   float64      `json:"totalGrossWeight" bson:"total_gross_weight" example:"11"`
	TotalNetWeight     float64      `json:"totalNetWeight" bson:"total_net_weight" example:"10"`
	TotalNumberOfBoxes int          `json:"totalNumberOfBoxes" bson:"total_number_of_boxes" example:"2"`
	TotalVolume        float64      `json:"totalVolume" bson:"total_volume" example:"0.018"`
}

// IsCompleted reports whether the list is locked for structural edits.
func (l PackingList) IsCompleted() bool {
	return l.Status == StatusCompleted
}

// FindPackage returns the index of the package with the given id, or -1.
func (l PackingList) FindPackage(id string) int {
	for i := range l.Items {
		if l.Items[i].ID == id {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy of the list.
func (l PackingList) Clone() PackingList {
	out := l
	if l.Items != nil {
		out.Items = make([]PackageRow, len(l.Items))
		for i, row := range l.Items {
			out.Items[i] = row.Clone()
		}
	}
	return out
}
