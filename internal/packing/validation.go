package packing

import (
	"github.com/guttosm/packing-list-service/internal/domain/model"
)

// Package row validation messages, in check order.
const (
	MsgPackageEmpty      = "Package must contain at least one item"
	MsgGrossBelowNet     = "Gross weight cannot be less than net weight"
	MsgDimensionsInvalid = "All dimensions must be greater than 0"
	MsgListNameRequired  = "Packing list name is required"
	MsgQuantityPositive  = "Quantity must be greater than 0"
)

// ValidatePackageRow reports every failing rule of a row. It never mutates
// the row.
func ValidatePackageRow(row model.PackageRow) []string {
	var errs []string
	if len(row.Items) == 0 {
		errs = append(errs, MsgPackageEmpty)
	}
	if row.GrossWeight < row.NetWeight {
		errs = append(errs, MsgGrossBelowNet)
	}
	if !row.Dimensions.IsPositive() {
		errs = append(errs, MsgDimensionsInvalid)
	}
	for _, item := range row.Items {
		if item.Quantity <= 0 {
			errs = append(errs, MsgQuantityPositive)
			break
		}
	}
	return errs
}

// ValidateRange is the creation precondition of a package. Pallets carry a
// single number, so only the start is checked for them.
func ValidateRange(kind model.PackageKind, start, end int) error {
	if start < 1 {
		return ErrInvalidStart
	}
	if kind == model.KindCarton && end < start {
		return ErrInvalidRange
	}
	return nil
}

// EnsureEditable rejects structural edits on a completed list.
func EnsureEditable(list model.PackingList) error {
	if list.IsCompleted() {
		return ErrListCompleted
	}
	return nil
}

// PackageIssue groups the validation messages of one package.
type PackageIssue struct {
	PackageID string   `json:"packageId"`
	PackageNo string   `json:"packageNo"`
	Messages  []string `json:"messages"`
}

// ValidateList validates every package of the list and returns the failing
// ones in list order.
func ValidateList(list model.PackingList) []PackageIssue {
	var issues []PackageIssue
	for _, row := range list.Items {
		if msgs := ValidatePackageRow(row); len(msgs) > 0 {
			issues = append(issues, PackageIssue{PackageID: row.ID, PackageNo: row.PackageNo, Messages: msgs})
		}
	}
	return issues
}
