package packing

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/guttosm/packing-list-service/internal/catalog"
	"github.com/guttosm/packing-list-service/internal/domain/model"
)

// looseString accepts a JSON string or number.
type looseString string

func (s *looseString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*s = ""
		return nil
	}
	if b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = looseString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*s = looseString(n.String())
	return nil
}

// looseFloat accepts a JSON number or numeric string; anything else reads as 0.
type looseFloat float64

func (f *looseFloat) UnmarshalJSON(b []byte) error {
	var s looseString
	if err := s.UnmarshalJSON(b); err != nil {
		return err
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(string(s)), 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = looseFloat(v)
	return nil
}

type legacyItem struct {
	Product     json.RawMessage `json:"product"`
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	HSCode      string          `json:"hsCode"`
	Variant     *model.Variant  `json:"variant"`
	Quantity    looseFloat      `json:"quantity"`
}

type legacyRow struct {
	ID            string              `json:"id"`
	Kind          model.PackageKind   `json:"kind"`
	PackageNo     looseString         `json:"packageNo"`
	PackageNumber looseString         `json:"packageNumber"`
	PackageRange  *model.PackageRange `json:"packageRange"`
	Items         []legacyItem        `json:"items"`
	GrossWeight   looseFloat          `json:"grossWeight"`
	NetWeight     looseFloat          `json:"netWeight"`
	Dimensions    model.Dimensions    `json:"dimensions"`
	HSCode        string              `json:"hsCode"`
	Override      bool                `json:"weightOverride"`
}

type legacyList struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	CreatedAt string      `json:"createdAt"`
	UpdatedAt string      `json:"updatedAt"`
	Status    string      `json:"status"`
	Items     []legacyRow `json:"items"`
}

// MigrateLegacyList converts a stored packing list document of any known
// revision into the canonical shape and recomputes its totals.
func MigrateLegacyList(data []byte) (model.PackingList, error) {
	var ll legacyList
	if err := json.Unmarshal(data, &ll); err != nil {
		return model.PackingList{}, fmt.Errorf("decode legacy packing list: %w", err)
	}

	list := model.PackingList{
		ID:        ll.ID,
		Name:      ll.Name,
		CreatedAt: parseTime(ll.CreatedAt),
		UpdatedAt: parseTime(ll.UpdatedAt),
		Status:    model.StatusDraft,
		Items:     make([]model.PackageRow, 0, len(ll.Items)),
	}
	if list.ID == "" {
		list.ID = uuid.NewString()
	}
	if status, err := model.ParseListStatus(ll.Status); err == nil {
		list.Status = status
	}

	for i, lr := range ll.Items {
		row, err := migrateRow(lr)
		if err != nil {
			return model.PackingList{}, fmt.Errorf("package %d: %w", i, err)
		}
		list.Items = append(list.Items, row)
	}

	ApplyTotals(&list)
	return list, nil
}

func migrateRow(lr legacyRow) (model.PackageRow, error) {
	row := model.PackageRow{
		ID:             lr.ID,
		Kind:           lr.Kind,
		PackageNo:      strings.TrimSpace(string(lr.PackageNo)),
		PackageRange:   lr.PackageRange,
		Items:          make([]model.PackageItem, 0, len(lr.Items)),
		GrossWeight:    float64(lr.GrossWeight),
		NetWeight:      float64(lr.NetWeight),
		Dimensions:     lr.Dimensions,
		HSCode:         lr.HSCode,
		WeightOverride: lr.Override,
	}
	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	if row.PackageNo == "" {
		row.PackageNo = strings.TrimSpace(string(lr.PackageNumber))
	}
	if !row.Kind.Valid() {
		// Decided once here; afterwards the kind is explicit.
		row.Kind = model.KindCarton
		if row.Dimensions.IsPalletFootprint() {
			row.Kind = model.KindPallet
		}
	}
	if row.Kind == model.KindCarton && row.PackageRange == nil {
		if start, end, ok := ParsePackageNo(row.PackageNo); ok && end > start {
			row.PackageRange = &model.PackageRange{Start: start, End: end}
		}
	}

	for _, li := range lr.Items {
		item, err := migrateItem(li)
		if err != nil {
			return model.PackageRow{}, err
		}
		row.Items = append(row.Items, item)
	}

	if row.GrossWeight == 0 && row.NetWeight == 0 && len(row.Items) > 0 {
		RecomputePackage(&row)
	}
	return row, nil
}

func migrateItem(li legacyItem) (model.PackageItem, error) {
	item := model.PackageItem{
		Product: model.ProductSnapshot{
			ID:     li.ProductID,
			Name:   li.ProductName,
			HSCode: li.HSCode,
		},
		Quantity: float64(li.Quantity),
	}

	var product model.Product
	if len(li.Product) > 0 && string(li.Product) != "null" {
		p, err := catalog.MigrateLegacyProduct(li.Product)
		if err != nil {
			return model.PackageItem{}, err
		}
		product = p
		item.Product = model.ProductSnapshot{ID: p.ID, Name: p.Name, HSCode: p.HSCode}
	}

	if li.Variant != nil {
		item.Variant = *li.Variant
	} else if v, ok := catalog.DefaultVariant(product); ok {
		item.Variant = v
	}
	return item, nil
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
