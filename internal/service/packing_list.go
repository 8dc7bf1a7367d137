package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/guttosm/packing-list-service/internal/catalog"
	"github.com/guttosm/packing-list-service/internal/domain/dto"
	"github.com/guttosm/packing-list-service/internal/domain/model"
	"github.com/guttosm/packing-list-service/internal/export"
	"github.com/guttosm/packing-list-service/internal/metrics"
	"github.com/guttosm/packing-list-service/internal/packing"
	"github.com/guttosm/packing-list-service/internal/repository"
	"github.com/guttosm/packing-list-service/internal/service/cache"
)

// maxEditAttempts bounds retries of package edits that lost an optimistic
// concurrency race.
const maxEditAttempts = 3

// PackingListService manages packing lists and their packages.
type PackingListService interface {
	List(ctx context.Context, q dto.PageQuery) (dto.Page[model.PackingList], error)
	Get(ctx context.Context, id string) (*model.PackingList, error)
	Create(ctx context.Context, req dto.CreatePackingListRequest) (*model.PackingList, error)
	Update(ctx context.Context, id string, req dto.UpdatePackingListRequest) (*model.PackingList, error)
	Delete(ctx context.Context, id string) error
	SetStatus(ctx context.Context, id, status string) (*model.PackingList, error)
	AddPackage(ctx context.Context, listID string, req dto.PackageRequest) (*model.PackingList, error)
	UpdatePackage(ctx context.Context, listID, packageID string, req dto.PackageRequest) (*model.PackingList, error)
	RemovePackage(ctx context.Context, listID, packageID string, convertToDraft bool) (*model.PackingList, error)
	NextPackageNumber(ctx context.Context, id string) (int, error)
	Totals(ctx context.Context, id string) (packing.Totals, error)
	Validate(ctx context.Context, id string) (ValidationReport, error)
	ExportLayout(ctx context.Context, id string) (packing.Layout, error)
	ExportPDF(ctx context.Context, id string) ([]byte, error)
	Preview(list model.PackingList) (Preview, error)
}

// ValidationReport collects the problems of a list. Messages is the flat
// list shown to users; Packages groups them per package.
type ValidationReport struct {
	Valid    bool                   `json:"valid"`
	Messages []string               `json:"messages"`
	Packages []packing.PackageIssue `json:"packages"`
}

// Preview is everything derived from a list that was not stored.
type Preview struct {
	List              model.PackingList `json:"list"`
	Totals            packing.Totals    `json:"totals"`
	Validation        ValidationReport  `json:"validation"`
	Layout            packing.Layout    `json:"layout"`
	NextPackageNumber int               `json:"nextPackageNumber"`
}

// PDFRenderer turns an export document into PDF bytes.
type PDFRenderer func(doc export.Document) ([]byte, error)

// PackingListServiceImpl implements PackingListService.
type PackingListServiceImpl struct {
	lists    repository.PackingListRepositoryInterface
	products repository.ProductRepositoryInterface
	cache    cache.Cache
	render   PDFRenderer
	now      Clock
}

// PackingListOption configures a PackingListServiceImpl.
type PackingListOption func(*PackingListServiceImpl)

// WithClock replaces the time source.
func WithClock(clock Clock) PackingListOption {
	return func(s *PackingListServiceImpl) {
		s.now = clock
	}
}

// WithPDFRenderer replaces the PDF renderer.
func WithPDFRenderer(render PDFRenderer) PackingListOption {
	return func(s *PackingListServiceImpl) {
		s.render = render
	}
}

// NewPackingListService creates a packing list service. Products are read
// to snapshot items when packages are added. A nil cache disables caching.
func NewPackingListService(
	lists repository.PackingListRepositoryInterface,
	products repository.ProductRepositoryInterface,
	c cache.Cache,
	opts ...PackingListOption,
) *PackingListServiceImpl {
	s := &PackingListServiceImpl{
		lists:    lists,
		products: products,
		cache:    orNoop(c),
		render:   export.RenderPDF,
		now:      systemClock,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *PackingListServiceImpl) List(ctx context.Context, q dto.PageQuery) (dto.Page[model.PackingList], error) {
	if s.lists == nil {
		return dto.Page[model.PackingList]{}, ErrRepositoryNotConfigured
	}
	q = q.Normalize()
	key := fmt.Sprintf("%slist?page=%d&limit=%d", PackingListsCachePrefix, q.Page, q.Limit)

	return cached(ctx, s.cache, key, func() (dto.Page[model.PackingList], error) {
		items, total, err := s.lists.List(ctx, repository.ListOptions{Skip: q.Offset(), Limit: q.Limit})
		if err != nil {
			return dto.Page[model.PackingList]{}, err
		}
		return dto.Page[model.PackingList]{Items: items, Pagination: dto.NewPagination(q, total)}, nil
	})
}

func (s *PackingListServiceImpl) Get(ctx context.Context, id string) (*model.PackingList, error) {
	if s.lists == nil {
		return nil, ErrRepositoryNotConfigured
	}
	list, err := cached(ctx, s.cache, PackingListsCachePrefix+"item:"+id, func() (model.PackingList, error) {
		l, err := s.lists.GetByID(ctx, id)
		if err != nil {
			return model.PackingList{}, fmt.Errorf("get packing list %s: %w", id, err)
		}
		return *l, nil
	})
	if err != nil {
		return nil, err
	}
	return &list, nil
}

// Create stores a new draft list. Supplied packages are normalized and
// validated the same way as in Update.
func (s *PackingListServiceImpl) Create(ctx context.Context, req dto.CreatePackingListRequest) (*model.PackingList, error) {
	if s.lists == nil {
		return nil, ErrRepositoryNotConfigured
	}
	start := time.Now()

	list, err := s.create(ctx, req)
	metrics.RecordPackingListOperation("create", time.Since(start), err)
	return list, err
}

func (s *PackingListServiceImpl) create(ctx context.Context, req dto.CreatePackingListRequest) (*model.PackingList, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, packing.NewValidationError([]string{packing.MsgListNameRequired})
	}
	rows, err := normalizeRows(req.Items, nil)
	if err != nil {
		return nil, err
	}
	if err := packing.NewValidationError(rowMessages(rows)); err != nil {
		return nil, err
	}

	ts := s.now()
	list := &model.PackingList{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: ts,
		UpdatedAt: ts,
		Status:    model.StatusDraft,
		Items:     rows,
	}
	packing.ApplyTotals(list)

	if err := s.lists.Create(ctx, list); err != nil {
		return nil, fmt.Errorf("create packing list: %w", err)
	}
	s.cache.InvalidatePrefix(ctx, PackingListsCachePrefix)
	return list, nil
}

// Update replaces the list. An empty name or a nil item slice keeps the
// stored value. A completed list only accepts a status change unless
// ConvertToDraft is set.
func (s *PackingListServiceImpl) Update(ctx context.Context, id string, req dto.UpdatePackingListRequest) (*model.PackingList, error) {
	opts := editOptions{
		convertToDraft: req.ConvertToDraft,
		expected:       req.UpdatedAt,
		bypassGate: func(current model.PackingList) bool {
			return onlyStatusChange(current, req)
		},
	}
	return s.edit(ctx, id, "update", opts, func(list *model.PackingList) error {
		if name := strings.TrimSpace(req.Name); name != "" {
			list.Name = name
		}
		if req.Items != nil {
			rows, err := normalizeRows(req.Items, list.Items)
			if err != nil {
				return err
			}
			if err := packing.NewValidationError(rowMessages(rows)); err != nil {
				return err
			}
			list.Items = rows
		}
		if req.Status != "" {
			status, err := model.ParseListStatus(string(req.Status))
			if err != nil {
				return ErrInvalidStatus
			}
			list.Status = status
		}
		return nil
	})
}

func (s *PackingListServiceImpl) Delete(ctx context.Context, id string) error {
	if s.lists == nil {
		return ErrRepositoryNotConfigured
	}
	start := time.Now()
	err := s.lists.Delete(ctx, id)
	if err != nil {
		err = fmt.Errorf("delete packing list %s: %w", id, err)
	} else {
		s.cache.InvalidatePrefix(ctx, PackingListsCachePrefix)
	}
	metrics.RecordPackingListOperation("delete", time.Since(start), err)
	return err
}

// SetStatus moves the list between draft and completed. Both directions
// are always allowed.
func (s *PackingListServiceImpl) SetStatus(ctx context.Context, id, status string) (*model.PackingList, error) {
	parsed, err := model.ParseListStatus(status)
	if err != nil {
		return nil, ErrInvalidStatus
	}
	opts := editOptions{bypassGate: func(model.PackingList) bool { return true }}
	return s.edit(ctx, id, "set_status", opts, func(list *model.PackingList) error {
		list.Status = parsed
		return nil
	})
}

// AddPackage builds a package from catalog references and appends it.
// Start defaults to the next free package number.
func (s *PackingListServiceImpl) AddPackage(ctx context.Context, listID string, req dto.PackageRequest) (*model.PackingList, error) {
	return s.edit(ctx, listID, "add_package", editOptions{convertToDraft: req.ConvertToDraft}, func(list *model.PackingList) error {
		start := req.Start
		if start == 0 {
			start = packing.NextPackageNumber(list.Items)
		}
		row, err := s.buildRow(ctx, req, start)
		if err != nil {
			return err
		}
		list.Items = append(list.Items, row)
		return nil
	})
}

// UpdatePackage rebuilds an existing package in place. Start defaults to
// the package's current first number.
func (s *PackingListServiceImpl) UpdatePackage(ctx context.Context, listID, packageID string, req dto.PackageRequest) (*model.PackingList, error) {
	return s.edit(ctx, listID, "update_package", editOptions{convertToDraft: req.ConvertToDraft}, func(list *model.PackingList) error {
		idx := list.FindPackage(packageID)
		if idx < 0 {
			return ErrPackageNotFound
		}
		start := req.Start
		if start == 0 {
			start = firstNumber(list.Items[idx])
		}
		row, err := s.buildRow(ctx, req, start)
		if err != nil {
			return err
		}
		row.ID = packageID
		list.Items[idx] = row
		return nil
	})
}

func (s *PackingListServiceImpl) RemovePackage(ctx context.Context, listID, packageID string, convertToDraft bool) (*model.PackingList, error) {
	return s.edit(ctx, listID, "remove_package", editOptions{convertToDraft: convertToDraft}, func(list *model.PackingList) error {
		idx := list.FindPackage(packageID)
		if idx < 0 {
			return ErrPackageNotFound
		}
		list.Items = append(list.Items[:idx], list.Items[idx+1:]...)
		return nil
	})
}

func (s *PackingListServiceImpl) NextPackageNumber(ctx context.Context, id string) (int, error) {
	list, err := s.Get(ctx, id)
	if err != nil {
		return 0, err
	}
	return packing.NextPackageNumber(list.Items), nil
}

// Totals recomputes the totals from the stored packages.
func (s *PackingListServiceImpl) Totals(ctx context.Context, id string) (packing.Totals, error) {
	list, err := s.Get(ctx, id)
	if err != nil {
		return packing.Totals{}, err
	}
	return packing.ComputeTotals(list.Items), nil
}

func (s *PackingListServiceImpl) Validate(ctx context.Context, id string) (ValidationReport, error) {
	list, err := s.Get(ctx, id)
	if err != nil {
		return ValidationReport{}, err
	}
	return buildReport(*list), nil
}

func (s *PackingListServiceImpl) ExportLayout(ctx context.Context, id string) (packing.Layout, error) {
	list, err := s.Get(ctx, id)
	if err != nil {
		metrics.RecordExport("json", err)
		return packing.Layout{}, err
	}
	metrics.RecordExport("json", nil)
	return packing.ToExportLayout(*list), nil
}

func (s *PackingListServiceImpl) ExportPDF(ctx context.Context, id string) ([]byte, error) {
	list, err := s.Get(ctx, id)
	if err != nil {
		metrics.RecordExport("pdf", err)
		return nil, err
	}
	out, err := s.render(export.Document{ID: list.ID, Layout: packing.ToExportLayout(*list)})
	metrics.RecordExport("pdf", err)
	if err != nil {
		return nil, fmt.Errorf("render packing list %s: %w", id, err)
	}
	return out, nil
}

// Preview derives totals, validation and layout of an unsaved list.
func (s *PackingListServiceImpl) Preview(list model.PackingList) (Preview, error) {
	list = list.Clone()
	rows, err := normalizeRows(list.Items, nil)
	if err != nil {
		return Preview{}, err
	}
	list.Items = rows
	if list.Status == "" {
		list.Status = model.StatusDraft
	}
	totals := packing.ApplyTotals(&list)

	return Preview{
		List:              list,
		Totals:            totals,
		Validation:        buildReport(list),
		Layout:            packing.ToExportLayout(list),
		NextPackageNumber: packing.NextPackageNumber(list.Items),
	}, nil
}

type editOptions struct {
	// expected overrides the version read from the store.
	expected       *time.Time
	convertToDraft bool
	// bypassGate lets an edit through on a completed list.
	bypassGate func(current model.PackingList) bool
}

// edit runs fn on a fresh copy of the list and stores it with an optimistic
// version check. Lost races are retried when the caller did not pin a version.
func (s *PackingListServiceImpl) edit(ctx context.Context, id, op string, opts editOptions, fn func(*model.PackingList) error) (*model.PackingList, error) {
	if s.lists == nil {
		return nil, ErrRepositoryNotConfigured
	}
	start := time.Now()

	var (
		list *model.PackingList
		err  error
	)
	for attempt := 0; attempt < maxEditAttempts; attempt++ {
		list, err = s.editOnce(ctx, id, opts, fn)
		if opts.expected != nil || !errors.Is(err, repository.ErrVersionConflict) {
			break
		}
	}
	metrics.RecordPackingListOperation(op, time.Since(start), err)
	return list, err
}

func (s *PackingListServiceImpl) editOnce(ctx context.Context, id string, opts editOptions, fn func(*model.PackingList) error) (*model.PackingList, error) {
	list, err := s.lists.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get packing list %s: %w", id, err)
	}
	expected := list.UpdatedAt
	if opts.expected != nil {
		expected = *opts.expected
	}

	if list.IsCompleted() {
		switch {
		case opts.convertToDraft:
			list.Status = model.StatusDraft
		case opts.bypassGate != nil && opts.bypassGate(*list):
		default:
			return nil, packing.ErrListCompleted
		}
	}

	if err := fn(list); err != nil {
		return nil, err
	}
	packing.ApplyTotals(list)
	list.UpdatedAt = s.nextVersion(expected)

	if err := s.lists.Update(ctx, list, expected); err != nil {
		return nil, fmt.Errorf("update packing list %s: %w", id, err)
	}
	s.cache.InvalidatePrefix(ctx, PackingListsCachePrefix)
	return list, nil
}

// nextVersion returns a timestamp strictly after prev.
func (s *PackingListServiceImpl) nextVersion(prev time.Time) time.Time {
	ts := s.now()
	if !ts.After(prev) {
		ts = prev.Add(time.Millisecond)
	}
	return ts
}

// buildRow resolves catalog references and assembles a validated package.
func (s *PackingListServiceImpl) buildRow(ctx context.Context, req dto.PackageRequest, start int) (model.PackageRow, error) {
	if !req.Kind.Valid() {
		return model.PackageRow{}, packing.ErrInvalidKind
	}
	end := req.End
	if end == 0 {
		end = start
	}
	if err := packing.ValidateRange(req.Kind, start, end); err != nil {
		return model.PackageRow{}, err
	}

	items, err := s.resolveItems(ctx, req.Items)
	if err != nil {
		return model.PackageRow{}, err
	}

	row, err := packing.BuildPackage(packing.PackageSpec{
		Kind:    req.Kind,
		Start:   start,
		End:     end,
		Height:  req.Height,
		Items:   items,
		Weights: req.Weights,
		HSCode:  req.HSCode,
	})
	if err != nil {
		return model.PackageRow{}, err
	}
	if err := packing.NewValidationError(packing.ValidatePackageRow(row)); err != nil {
		return model.PackageRow{}, err
	}
	return row, nil
}

// resolveItems snapshots the referenced products and variants. Unknown
// references are reported together as a validation error.
func (s *PackingListServiceImpl) resolveItems(ctx context.Context, reqs []dto.PackageItemRequest) ([]model.PackageItem, error) {
	if s.products == nil {
		return nil, ErrRepositoryNotConfigured
	}

	products := make(map[string]*model.Product)
	items := make([]model.PackageItem, 0, len(reqs))
	var msgs []string

	for _, r := range reqs {
		p, ok := products[r.ProductID]
		if !ok {
			found, err := s.products.GetByID(ctx, r.ProductID)
			switch {
			case errors.Is(err, repository.ErrNotFound):
				msgs = append(msgs, fmt.Sprintf("Product %s not found", r.ProductID))
				continue
			case err != nil:
				return nil, fmt.Errorf("get product %s: %w", r.ProductID, err)
			}
			p = found
			products[r.ProductID] = p
		}

		var (
			variant model.Variant
			found   bool
		)
		if r.VariantID == "" {
			variant, found = catalog.DefaultVariant(*p)
		} else {
			variant, found = p.FindVariant(r.VariantID)
		}
		if !found {
			msgs = append(msgs, fmt.Sprintf("Variant %s not found for product %s", r.VariantID, p.Name))
			continue
		}

		items = append(items, model.PackageItem{
			Product:  model.ProductSnapshot{ID: p.ID, Name: p.Name, HSCode: p.HSCode},
			Variant:  variant,
			Quantity: r.Quantity,
		})
	}

	if err := packing.NewValidationError(msgs); err != nil {
		return nil, err
	}
	return items, nil
}

// normalizeRows prepares client supplied rows: ids are assigned, a missing
// kind is inferred once, carton ranges and package numbers are reconciled
// and weights are recomputed unless overridden. An override only survives
// while the row's items match the stored row with the same id.
func normalizeRows(rows, stored []model.PackageRow) ([]model.PackageRow, error) {
	previous := make(map[string]model.PackageRow, len(stored))
	for _, row := range stored {
		previous[row.ID] = row
	}

	out := make([]model.PackageRow, 0, len(rows))
	for _, in := range rows {
		row := in.Clone()
		if row.ID == "" {
			row.ID = uuid.NewString()
		}
		if prev, ok := previous[row.ID]; ok && row.WeightOverride && !slices.Equal(prev.Items, row.Items) {
			row.WeightOverride = false
		}
		switch {
		case row.Kind == "":
			row.Kind = model.KindCarton
			if row.Dimensions.IsPalletFootprint() {
				row.Kind = model.KindPallet
			}
		case !row.Kind.Valid():
			return nil, packing.ErrInvalidKind
		}

		if row.Kind == model.KindPallet {
			row.PackageRange = nil
			row.Dimensions.Length = model.PalletLength
			row.Dimensions.Width = model.PalletWidth
		} else {
			if row.PackageRange == nil {
				if start, end, ok := packing.ParsePackageNo(row.PackageNo); ok {
					row.PackageRange = &model.PackageRange{Start: start, End: end}
				}
			}
			if r := row.PackageRange; r != nil {
				if err := packing.ValidateRange(row.Kind, r.Start, r.End); err != nil {
					return nil, err
				}
				row.PackageNo = packing.FormatPackageNo(row.Kind, r.Start, r.End)
			}
		}

		packing.RecomputePackage(&row)
		out = append(out, row)
	}
	return out, nil
}

// rowMessages flattens per package problems, prefixed with the package number.
func rowMessages(rows []model.PackageRow) []string {
	var msgs []string
	for _, issue := range packing.ValidateList(model.PackingList{Items: rows}) {
		for _, m := range issue.Messages {
			msgs = append(msgs, packageLabel(issue)+m)
		}
	}
	return msgs
}

func packageLabel(issue packing.PackageIssue) string {
	if issue.PackageNo == "" {
		return ""
	}
	return "Package " + issue.PackageNo + ": "
}

func buildReport(list model.PackingList) ValidationReport {
	report := ValidationReport{Messages: []string{}, Packages: packing.ValidateList(list)}
	if strings.TrimSpace(list.Name) == "" {
		report.Messages = append(report.Messages, packing.MsgListNameRequired)
	}
	for _, issue := range report.Packages {
		for _, m := range issue.Messages {
			report.Messages = append(report.Messages, packageLabel(issue)+m)
		}
	}
	if report.Packages == nil {
		report.Packages = []packing.PackageIssue{}
	}
	report.Valid = len(report.Messages) == 0
	return report
}

// firstNumber is the first physical number of a package, or 1 if unknown.
func firstNumber(row model.PackageRow) int {
	if row.PackageRange != nil {
		return row.PackageRange.Start
	}
	if start, _, ok := packing.ParsePackageNo(row.PackageNo); ok {
		return start
	}
	return 1
}

// onlyStatusChange reports whether req leaves name and packages untouched.
func onlyStatusChange(current model.PackingList, req dto.UpdatePackingListRequest) bool {
	if name := strings.TrimSpace(req.Name); name != "" && name != current.Name {
		return false
	}
	if req.Items == nil {
		return true
	}
	a, errA := json.Marshal(current.Items)
	b, errB := json.Marshal(req.Items)
	return errA == nil && errB == nil && string(a) == string(b)
}
