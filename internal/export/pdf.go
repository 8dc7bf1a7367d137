// Package export renders packing list layouts to printable documents.
package export

import (
	"bytes"
	"fmt"
	"math"

	"github.com/guttosm/packing-list-service/internal/packing"
	"github.com/jung-kurt/gofpdf"
	"github.com/skip2/go-qrcode"
)

// Page geometry in millimeters, A4 landscape.
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	margin       = 15.0
	rowHeight    = 7.0
	qrSize       = 28.0
	tableTop     = 52.0
	bottomMargin = 15.0
)

var columnWidths = map[packing.Column]float64{
	packing.ColPackageNo:   28,
	packing.ColProductName: 80,
	packing.ColQuantity:    22,
	packing.ColGrossWeight: 25,
	packing.ColNetWeight:   25,
	packing.ColHSCode:      40,
	packing.ColDimensions:  47,
}

var columnTitles = map[packing.Column]string{
	packing.ColPackageNo:   "Package No",
	packing.ColProductName: "Product",
	packing.ColQuantity:    "Quantity",
	packing.ColGrossWeight: "Gross (kg)",
	packing.ColNetWeight:   "Net (kg)",
	packing.ColHSCode:      "HS Code",
	packing.ColDimensions:  "Dimensions (cm)",
}

// Document identifies the list being rendered.
type Document struct {
	// ID is encoded in the QR code.
	ID     string
	Layout packing.Layout
}

// RenderPDF draws the layout as an A4 landscape table. Merged package cells
// are drawn as one tall cell; a package never splits across pages unless it
// is taller than a page. A split package has its cells clipped at the page
// bottom and drawn again at the top of the next page.
func RenderPDF(doc Document) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(doc.Layout.Title, true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	qrPng, err := qrcode.Encode(doc.ID, qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("encode qr code: %w", err)
	}
	qrOptions := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: true}
	pdf.RegisterImageOptionsReader("qr", qrOptions, bytes.NewReader(qrPng))

	r := &renderer{pdf: pdf, tr: tr, layout: doc.Layout, spans: spanIndex(doc.Layout.Merges)}
	r.newPage(qrOptions)

	for _, row := range doc.Layout.Rows {
		height := rowHeight * float64(r.blockRows(row))
		switch {
		case r.blockStart(row.Row) && r.y+height > pageHeight-bottomMargin && !r.pageStart:
			r.newPage(qrOptions)
		case r.y+rowHeight > pageHeight-bottomMargin:
			r.newPage(qrOptions)
		}
		r.drawRow(row)
	}
	r.drawTrailer()

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

type renderer struct {
	pdf    *gofpdf.Fpdf
	tr     func(string) string
	layout packing.Layout
	spans  map[packing.Column]map[int]int
	y      float64
	// pageStart is set until the first row of a page is drawn.
	pageStart bool
	// block is the first row of the package being drawn.
	block packing.ExportRow
}

// spanIndex maps column -> start row -> end row.
func spanIndex(merges []packing.MergeSpan) map[packing.Column]map[int]int {
	idx := make(map[packing.Column]map[int]int)
	for _, m := range merges {
		if idx[m.Column] == nil {
			idx[m.Column] = make(map[int]int)
		}
		idx[m.Column][m.StartRow] = m.EndRow
	}
	return idx
}

// blockRows is the number of sheet rows the package starting at row covers.
func (r *renderer) blockRows(row packing.ExportRow) int {
	if end, ok := r.spans[packing.ColPackageNo][row.Row]; ok {
		return end - row.Row + 1
	}
	return 1
}

func (r *renderer) blockStart(row int) bool {
	_, ok := r.spans[packing.ColPackageNo][row]
	return ok
}

// spanOf returns the merge of col that contains row.
func (r *renderer) spanOf(col packing.Column, row int) (start, end int, ok bool) {
	for s, e := range r.spans[col] {
		if row >= s && row <= e {
			return s, e, true
		}
	}
	return 0, 0, false
}

// covered reports whether the cell sits under a merge started on an earlier row.
func (r *renderer) covered(col packing.Column, row int) bool {
	start, _, ok := r.spanOf(col, row)
	return ok && row > start
}

// rowsLeft is the number of table rows that still fit on the current page.
func (r *renderer) rowsLeft() int {
	return int(math.Floor((pageHeight-bottomMargin-r.y)/rowHeight + 1e-9))
}

// cellRows returns how many rows the cell of col drawn at row spans on the
// current page, or 0 when an earlier cell on this page already covers it.
func (r *renderer) cellRows(col packing.Column, row int) int {
	start, end, ok := r.spanOf(col, row)
	if !ok {
		return 1
	}
	if row > start && !r.pageStart {
		return 0
	}
	return max(1, min(end-row+1, r.rowsLeft()))
}

func (r *renderer) newPage(qrOptions gofpdf.ImageOptions) {
	pdf := r.pdf
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.SetXY(margin, margin)
	pdf.CellFormat(pageWidth-2*margin-qrSize, 10, r.tr("PACKING LIST"), "", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "", 11)
	pdf.SetX(margin)
	pdf.CellFormat(pageWidth-2*margin-qrSize, 7, r.tr(r.layout.Title), "", 1, "L", false, 0, "")
	for _, cell := range r.layout.Header {
		if cell.Address == packing.UpdateDateCell {
			pdf.SetX(margin)
			pdf.CellFormat(pageWidth-2*margin-qrSize, 7, r.tr("Date: "+cell.Value), "", 1, "L", false, 0, "")
		}
	}

	pdf.ImageOptions("qr", pageWidth-margin-qrSize, margin, qrSize, qrSize, false, qrOptions, 0, "")

	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	x := margin
	for _, col := range packing.Columns {
		pdf.SetXY(x, tableTop)
		pdf.CellFormat(columnWidths[col], rowHeight, r.tr(columnTitles[col]), "1", 0, "C", true, 0, "")
		x += columnWidths[col]
	}
	r.y = tableTop + rowHeight
	r.pageStart = true
}

func (r *renderer) drawRow(row packing.ExportRow) {
	pdf := r.pdf
	style := ""
	if row.Total {
		style = "B"
	}
	pdf.SetFont("Arial", style, 9)

	if r.blockStart(row.Row) {
		r.block = row
	}

	x := margin
	for _, col := range packing.Columns {
		w := columnWidths[col]
		rows := r.cellRows(col, row.Row)
		if rows == 0 {
			x += w
			continue
		}
		value := row.Value(col)
		if r.covered(col, row.Row) {
			value = r.block.Value(col)
		}
		align := "L"
		if col != packing.ColProductName && col != packing.ColHSCode {
			align = "C"
		}
		pdf.SetXY(x, r.y)
		pdf.CellFormat(w, rowHeight*float64(rows), r.tr(value), "1", 0, align, false, 0, "")
		x += w
	}
	r.y += rowHeight
	r.pageStart = false
}

func (r *renderer) drawTrailer() {
	pdf := r.pdf
	labels := map[string]string{
		packing.TotalPackagesCell: "Total packages: ",
		packing.TotalVolumeCell:   "Total volume: ",
	}

	pdf.SetFont("Arial", "", 10)
	y := r.y + rowHeight
	for _, cell := range r.layout.Trailer {
		if y+rowHeight > pageHeight-bottomMargin {
			pdf.AddPage()
			y = margin
		}
		pdf.SetXY(margin, y)
		pdf.CellFormat(120, rowHeight, r.tr(labels[cell.Address]+cell.Value), "", 0, "L", false, 0, "")
		y += rowHeight
	}
}
