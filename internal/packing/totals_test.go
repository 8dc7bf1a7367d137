package packing

import (
	"testing"

	"github.com/guttosm/packing-list-service/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeTotals_Empty(t *testing.T) {
	assert.Equal(t, Totals{}, ComputeTotals(nil))
	assert.Equal(t, Totals{}, ComputeTotals([]model.PackageRow{}))
}

func TestComputeTotals_BoxesRoundUpOnce(t *testing.T) {
	rows := []model.PackageRow{
		{Items: []model.PackageItem{item("Widget", widgetVariant(), 15)}},
		{Items: []model.PackageItem{item("Gadget", gadgetVariant(), 9)}},
	}

	assert.Equal(t, 4, ComputeTotals(rows).TotalBoxes)
}

func TestComputeTotals_ThirdsSumToOneBox(t *testing.T) {
	third := model.Variant{BoxQuantity: 3, Weights: model.Weights{Gross: 1, Net: 1}}
	rows := []model.PackageRow{
		{Items: []model.PackageItem{item("A", third, 1), item("B", third, 2)}},
	}

	assert.Equal(t, 1, ComputeTotals(rows).TotalBoxes)
}

func TestComputeTotals_UsesStoredRowWeights(t *testing.T) {
	rows := []model.PackageRow{
		{GrossWeight: 7.1, NetWeight: 6.2, Items: []model.PackageItem{item("Widget", widgetVariant(), 10)}},
		{GrossWeight: 0.2, NetWeight: 0.1},
	}

	got := ComputeTotals(rows)

	assert.Equal(t, 7.3, got.GrossWeight)
	assert.Equal(t, 6.3, got.NetWeight)
}

func TestComputeTotals_Idempotent(t *testing.T) {
	rows := []model.PackageRow{
		{GrossWeight: 11, NetWeight: 10, Dimensions: model.Dimensions{Length: 30, Width: 20, Height: 15},
			PackageRange: &model.PackageRange{Start: 1, End: 2}, Items: []model.PackageItem{item("Widget", widgetVariant(), 20)}},
		{GrossWeight: 30.5, NetWeight: 5.8, Dimensions: model.Dimensions{Length: 80, Width: 120, Height: 110},
			Items: []model.PackageItem{item("Gadget", gadgetVariant(), 3)}},
	}
	before := make([]model.PackageRow, len(rows))
	for i := range rows {
		before[i] = rows[i].Clone()
	}

	first := ComputeTotals(rows)
	second := ComputeTotals(rows)

	assert.Equal(t, first, second)
	assert.Equal(t, before, rows)
}

func TestVolumeOf(t *testing.T) {
	box := model.Dimensions{Length: 30, Width: 20, Height: 15}

	tests := []struct {
		name     string
		row      model.PackageRow
		expected float64
	}{
		{name: "single box", row: model.PackageRow{Dimensions: box}, expected: 0.009},
		{name: "range of five", row: model.PackageRow{Dimensions: box, PackageRange: &model.PackageRange{Start: 5, End: 9}}, expected: 0.045},
		{name: "pallet", row: model.PackageRow{Dimensions: model.Dimensions{Length: 80, Width: 120, Height: 100}}, expected: 0.96},
		{name: "zero height", row: model.PackageRow{Dimensions: model.Dimensions{Length: 80, Width: 120}}, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, VolumeOf(tt.row), 1e-12)
		})
	}
}

func TestTotalPackages(t *testing.T) {
	rows := []model.PackageRow{
		{PackageNo: "1"},
		{PackageNo: "2 to 4", PackageRange: &model.PackageRange{Start: 2, End: 4}},
		{PackageNo: "5", PackageRange: &model.PackageRange{Start: 5, End: 5}},
	}
	assert.Equal(t, 5, TotalPackages(rows))
	assert.Zero(t, TotalPackages(nil))
}

func TestApplyTotals_WidgetScenario(t *testing.T) {
	row, err := BuildPackage(PackageSpec{
		Kind:  model.KindCarton,
		Start: 1,
		End:   2,
		Items: []model.PackageItem{item("Widget", widgetVariant(), 20)},
	})
	require.NoError(t, err)

	list := model.PackingList{Name: "Shipment", Status: model.StatusDraft, Items: []model.PackageRow{row}}
	totals := ApplyTotals(&list)

	assert.Equal(t, 11.0, list.TotalGrossWeight)
	assert.Equal(t, 10.0, list.TotalNetWeight)
	assert.Equal(t, 2, list.TotalNumberOfBoxes)
	assert.InDelta(t, 0.018, list.TotalVolume, 1e-12)
	assert.Equal(t, totals.TotalVolume, list.TotalVolume)
	assert.GreaterOrEqual(t, list.TotalGrossWeight, list.TotalNetWeight)
}
