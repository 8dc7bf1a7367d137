package packing

import (
	"github.com/guttosm/packing-list-service/internal/domain/model"
	"github.com/shopspring/decimal"
)

// Totals are the list level aggregates derived from the package rows.
type Totals struct {
	GrossWeight float64 `json:"totalGrossWeight" example:"11"`
	NetWeight   float64 `json:"totalNetWeight" example:"10"`
	TotalBoxes  int     `json:"totalNumberOfBoxes" example:"2"`
	TotalVolume float64 `json:"totalVolume" example:"0.018"`
}

var cm3PerM3 = decimal.NewFromInt(1_000_000)

// PhysicalCount is the number of physical boxes a row stands for.
func PhysicalCount(row model.PackageRow) int {
	if row.PackageRange != nil {
		return row.PackageRange.Size()
	}
	return 1
}

// VolumeOf returns the row volume in m3: the single box volume times the
// number of boxes in its range.
func VolumeOf(row model.PackageRow) float64 {
	return volumeOf(row).InexactFloat64()
}

func volumeOf(row model.PackageRow) decimal.Decimal {
	single := decimal.NewFromFloat(row.Dimensions.Length).
		Mul(decimal.NewFromFloat(row.Dimensions.Width)).
		Mul(decimal.NewFromFloat(row.Dimensions.Height)).
		Div(cm3PerM3)
	return single.Mul(decimal.NewFromInt(int64(PhysicalCount(row))))
}

// TotalPackages sums the physical box count of every row.
func TotalPackages(rows []model.PackageRow) int {
	n := 0
	for _, row := range rows {
		n += PhysicalCount(row)
	}
	return n
}

// ComputeTotals folds the rows into list totals. Row weights are taken as
// stored; the box count is rounded up once for the whole list.
func ComputeTotals(rows []model.PackageRow) Totals {
	gross, net := decimal.Zero, decimal.Zero
	boxes, volume := decimal.Zero, decimal.Zero
	for _, row := range rows {
		gross = gross.Add(decimal.NewFromFloat(row.GrossWeight))
		net = net.Add(decimal.NewFromFloat(row.NetWeight))
		boxes = boxes.Add(sumBoxes(row.Items))
		volume = volume.Add(volumeOf(row))
	}

	// Trim division residue (1/3 + 2/3) before taking the ceiling.
	boxes = boxes.Round(9).Ceil()

	return Totals{
		GrossWeight: gross.Round(1).InexactFloat64(),
		NetWeight:   net.Round(1).InexactFloat64(),
		TotalBoxes:  int(boxes.IntPart()),
		TotalVolume: volume.InexactFloat64(),
	}
}

// ApplyTotals recomputes the totals of list and stores them on it.
func ApplyTotals(list *model.PackingList) Totals {
	t := ComputeTotals(list.Items)
	list.TotalGrossWeight = t.GrossWeight
	list.TotalNetWeight = t.NetWeight
	list.TotalNumberOfBoxes = t.TotalBoxes
	list.TotalVolume = t.TotalVolume
	return t
}
