//go:build !integration

package export

import (
	"bytes"
	"fmt"
	"testing"
	"time"

	"github.com/guttosm/packing-list-service/internal/domain/model"
	"github.com/guttosm/packing-list-service/internal/packing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func widgetItem(qty float64) model.PackageItem {
	return model.PackageItem{
		Product: model.ProductSnapshot{ID: "p1", Name: "Widget", HSCode: "8481.80.85.90.00"},
		Variant: model.Variant{
			ID:            "v1",
			BoxQuantity:   10,
			BoxDimensions: model.Dimensions{Length: 30, Width: 20, Height: 15},
			Weights:       model.Weights{Gross: 5.5, Net: 5},
		},
		Quantity: qty,
	}
}

func sampleList(packages int) model.PackingList {
	list := model.PackingList{
		ID:        "list-1",
		Name:      "Shipment ü 42",
		Status:    model.StatusDraft,
		UpdatedAt: time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC),
	}
	for i := 1; i <= packages; i++ {
		row, err := packing.BuildPackage(packing.PackageSpec{
			Kind:  model.KindCarton,
			Start: i,
			End:   i,
			Items: []model.PackageItem{widgetItem(10), widgetItem(5), widgetItem(2)},
		})
		if err != nil {
			panic(err)
		}
		list.Items = append(list.Items, row)
	}
	packing.ApplyTotals(&list)
	return list
}

// tallList holds one carton with the given number of item rows.
func tallList(items int) model.PackingList {
	spec := packing.PackageSpec{Kind: model.KindCarton, Start: 1, End: 1}
	for i := 0; i < items; i++ {
		spec.Items = append(spec.Items, widgetItem(float64(i+1)))
	}
	row, err := packing.BuildPackage(spec)
	if err != nil {
		panic(err)
	}
	list := model.PackingList{ID: "tall", Name: "Tall", Items: []model.PackageRow{row}}
	packing.ApplyTotals(&list)
	return list
}

func TestRenderPDF(t *testing.T) {
	tests := []struct {
		name string
		list model.PackingList
	}{
		{name: "empty list", list: sampleList(0)},
		{name: "single page", list: sampleList(2)},
		{name: "several pages", list: sampleList(40)},
		{name: "package taller than a page", list: tallList(50)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list := tt.list

			out, err := RenderPDF(Document{ID: list.ID, Layout: packing.ToExportLayout(list)})

			require.NoError(t, err)
			assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
		})
	}
}

func TestRenderPDF_GrowsWithRows(t *testing.T) {
	small, err := RenderPDF(Document{ID: "a", Layout: packing.ToExportLayout(sampleList(1))})
	require.NoError(t, err)
	large, err := RenderPDF(Document{ID: "a", Layout: packing.ToExportLayout(sampleList(40))})
	require.NoError(t, err)

	assert.Greater(t, len(large), len(small))
}

func TestRenderer_Spans(t *testing.T) {
	layout := packing.ToExportLayout(sampleList(2))
	r := &renderer{layout: layout, spans: spanIndex(layout.Merges)}

	first := layout.Rows[0]
	assert.Equal(t, 3, r.blockRows(first))
	assert.Equal(t, 1, r.blockRows(layout.Rows[1]))

	for _, col := range packing.PackageColumns {
		assert.False(t, r.covered(col, first.Row), fmt.Sprintf("%s on first row", col))
		assert.True(t, r.covered(col, first.Row+1))
		assert.True(t, r.covered(col, first.Row+2))
		assert.False(t, r.covered(col, first.Row+3))
	}
	assert.False(t, r.covered(packing.ColProductName, first.Row+1))
}

func TestRenderer_SplitPackageIsClippedAndRedrawn(t *testing.T) {
	layout := packing.ToExportLayout(tallList(30))
	r := &renderer{layout: layout, spans: spanIndex(layout.Merges)}
	first := layout.Rows[0].Row

	r.y = pageHeight - bottomMargin - 3*rowHeight
	assert.Equal(t, 3, r.rowsLeft())
	assert.Equal(t, 3, r.cellRows(packing.ColPackageNo, first), "clipped at the page bottom")
	assert.Equal(t, 1, r.cellRows(packing.ColProductName, first))
	assert.Equal(t, 0, r.cellRows(packing.ColPackageNo, first+1))

	r.y = tableTop + rowHeight
	r.pageStart = true
	fits := r.rowsLeft()
	require.Less(t, fits, 27)
	assert.Equal(t, fits, r.cellRows(packing.ColGrossWeight, first+3), "drawn again on the new page")

	r.pageStart = false
	assert.Equal(t, 0, r.cellRows(packing.ColGrossWeight, first+4))

	r.y = tableTop + rowHeight
	r.pageStart = true
	assert.Equal(t, 2, r.cellRows(packing.ColGrossWeight, first+28), "remaining rows only")
}
