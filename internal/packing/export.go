package packing

import (
	"fmt"
	"strconv"

	"github.com/guttosm/packing-list-service/internal/domain/model"
)

// Template conventions of the export sheet.
const (
	AnchorRow         = 10
	UpdateDateCell    = "F6"
	TotalPackagesCell = "B103"
	TotalVolumeCell   = "B106"
	TotalLabel        = "TOTAL"
	exportDateLayout  = "02.01.2006"
)

// Column is a spreadsheet column letter of the item table.
type Column string

const (
	ColPackageNo   Column = "A"
	ColProductName Column = "B"
	ColQuantity    Column = "C"
	ColGrossWeight Column = "D"
	ColNetWeight   Column = "E"
	ColHSCode      Column = "F"
	ColDimensions  Column = "G"
)

// Columns lists the item table columns left to right.
var Columns = []Column{ColPackageNo, ColProductName, ColQuantity, ColGrossWeight, ColNetWeight, ColHSCode, ColDimensions}

// PackageColumns only carry a value on the first row of a package and are
// merged down over the rest of it.
var PackageColumns = []Column{ColPackageNo, ColGrossWeight, ColNetWeight, ColDimensions}

// ExportRow is one flat sheet row. Row is the absolute sheet row number.
type ExportRow struct {
	Row         int    `json:"row"`
	PackageNo   string `json:"packageNo"`
	ProductName string `json:"productName"`
	Quantity    string `json:"quantity"`
	GrossWeight string `json:"grossWeight"`
	NetWeight   string `json:"netWeight"`
	HSCode      string `json:"hsCode"`
	Dimensions  string `json:"dimensions"`
	Total       bool   `json:"total,omitempty"`
}

// Value returns the cell content of the given column.
func (r ExportRow) Value(col Column) string {
	switch col {
	case ColPackageNo:
		return r.PackageNo
	case ColProductName:
		return r.ProductName
	case ColQuantity:
		return r.Quantity
	case ColGrossWeight:
		return r.GrossWeight
	case ColNetWeight:
		return r.NetWeight
	case ColHSCode:
		return r.HSCode
	case ColDimensions:
		return r.Dimensions
	}
	return ""
}

// MergeSpan is a vertical merge of one column over an inclusive row range.
type MergeSpan struct {
	Column   Column `json:"column"`
	StartRow int    `json:"startRow"`
	EndRow   int    `json:"endRow"`
}

// Range renders the span as "A10:A12".
func (m MergeSpan) Range() string {
	return CellAddress(m.Column, m.StartRow) + ":" + CellAddress(m.Column, m.EndRow)
}

// FixedCell is a value written to a fixed template address.
type FixedCell struct {
	Address string `json:"address"`
	Value   string `json:"value"`
}

// Layout is the presentation agnostic description of an exported list.
type Layout struct {
	Title     string      `json:"title"`
	AnchorRow int         `json:"anchorRow"`
	Rows      []ExportRow `json:"rows"`
	Merges    []MergeSpan `json:"merges"`
	Header    []FixedCell `json:"header"`
	Trailer   []FixedCell `json:"trailer"`
}

// CellAddress joins a column and a row into an A1 style address.
func CellAddress(col Column, row int) string {
	return string(col) + strconv.Itoa(row)
}

func oneDecimal(x float64) string {
	return strconv.FormatFloat(model.Round1(x), 'f', 1, 64)
}

// ToExportLayout flattens the list into one row per item starting at the
// anchor row, followed by a TOTAL row.
func ToExportLayout(list model.PackingList) Layout {
	layout := Layout{
		Title:     list.Name,
		AnchorRow: AnchorRow,
		Rows:      make([]ExportRow, 0, len(list.Items)+1),
		Merges:    []MergeSpan{},
	}

	current := AnchorRow
	for _, pkg := range list.Items {
		first := current
		for i, item := range pkg.Items {
			row := ExportRow{
				Row:         current,
				ProductName: item.Product.Name,
				Quantity:    oneDecimal(item.Quantity),
				HSCode:      item.Product.HSCode,
			}
			if i == 0 {
				row.PackageNo = pkg.PackageNo
				row.GrossWeight = oneDecimal(pkg.GrossWeight)
				row.NetWeight = oneDecimal(pkg.NetWeight)
				row.Dimensions = pkg.Dimensions.String()
			}
			layout.Rows = append(layout.Rows, row)
			current++
		}
		if len(pkg.Items) > 1 {
			for _, col := range PackageColumns {
				layout.Merges = append(layout.Merges, MergeSpan{Column: col, StartRow: first, EndRow: current - 1})
			}
		}
	}

	layout.Rows = append(layout.Rows, ExportRow{
		Row:         current,
		PackageNo:   TotalLabel,
		Quantity:    strconv.Itoa(list.TotalNumberOfBoxes),
		GrossWeight: oneDecimal(list.TotalGrossWeight),
		NetWeight:   oneDecimal(list.TotalNetWeight),
		Total:       true,
	})

	layout.Header = []FixedCell{{Address: UpdateDateCell, Value: list.UpdatedAt.Format(exportDateLayout)}}
	layout.Trailer = []FixedCell{
		{Address: TotalPackagesCell, Value: strconv.Itoa(TotalPackages(list.Items))},
		{Address: TotalVolumeCell, Value: fmt.Sprintf("%.1f cbm", list.TotalVolume)},
	}
	return layout
}
