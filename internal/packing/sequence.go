package packing

import (
	"strconv"
	"strings"

	"github.com/guttosm/packing-list-service/internal/domain/model"
)

const rangeSeparator = " to "

// FormatPackageNo renders the display number of a package.
func FormatPackageNo(kind model.PackageKind, start, end int) string {
	if kind == model.KindPallet || start == end {
		return strconv.Itoa(start)
	}
	return strconv.Itoa(start) + rangeSeparator + strconv.Itoa(end)
}

// ParsePackageNo reads "5" or "5 to 9".
func ParsePackageNo(s string) (start, end int, ok bool) {
	s = strings.TrimSpace(s)
	if a, b, found := strings.Cut(s, rangeSeparator); found {
		lo, err1 := strconv.Atoi(strings.TrimSpace(a))
		hi, err2 := strconv.Atoi(strings.TrimSpace(b))
		if err1 != nil || err2 != nil {
			return 0, 0, false
		}
		return lo, hi, true
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, 0, false
	}
	return n, n, true
}

// NextPackageNumber returns one past the highest number used by rows, or 1.
// Rows whose number cannot be read are skipped.
func NextPackageNumber(rows []model.PackageRow) int {
	highest := 0
	for _, row := range rows {
		last, ok := lastNumber(row)
		if ok && last > highest {
			highest = last
		}
	}
	return highest + 1
}

func lastNumber(row model.PackageRow) (int, bool) {
	if row.PackageRange != nil {
		return row.PackageRange.End, true
	}
	_, end, ok := ParsePackageNo(row.PackageNo)
	return end, ok
}
