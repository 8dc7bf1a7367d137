package packing

import (
	"testing"

	"github.com/guttosm/packing-list-service/internal/domain/model"
	"github.com/stretchr/testify/assert"
)

func TestNextPackageNumber(t *testing.T) {
	tests := []struct {
		name     string
		rows     []model.PackageRow
		expected int
	}{
		{name: "no rows", expected: 1},
		{
			name: "ranges and single numbers",
			rows: []model.PackageRow{
				{PackageNo: "1"},
				{PackageNo: "2 to 4", PackageRange: &model.PackageRange{Start: 2, End: 4}},
				{PackageNo: "6"},
			},
			expected: 7,
		},
		{
			name:     "legacy range text without range",
			rows:     []model.PackageRow{{PackageNo: "1"}, {PackageNo: "2 to 9"}},
			expected: 10,
		},
		{
			name:     "range wins over package number",
			rows:     []model.PackageRow{{PackageNo: "3", PackageRange: &model.PackageRange{Start: 3, End: 12}}},
			expected: 13,
		},
		{
			name:     "unparsable numbers are skipped",
			rows:     []model.PackageRow{{PackageNo: "A-1"}, {PackageNo: "4"}, {PackageNo: ""}},
			expected: 5,
		},
		{
			name:     "only unparsable numbers",
			rows:     []model.PackageRow{{PackageNo: "pallet"}},
			expected: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NextPackageNumber(tt.rows))
		})
	}
}

func TestFormatPackageNo(t *testing.T) {
	assert.Equal(t, "5", FormatPackageNo(model.KindPallet, 5, 9))
	assert.Equal(t, "5", FormatPackageNo(model.KindCarton, 5, 5))
	assert.Equal(t, "5 to 9", FormatPackageNo(model.KindCarton, 5, 9))
}

func TestParsePackageNo(t *testing.T) {
	tests := []struct {
		input      string
		start, end int
		ok         bool
	}{
		{input: "7", start: 7, end: 7, ok: true},
		{input: " 2 to 4 ", start: 2, end: 4, ok: true},
		{input: "2 to x"},
		{input: "two"},
		{input: ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			start, end, ok := ParsePackageNo(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.start, start)
			assert.Equal(t, tt.end, end)
		})
	}
}
