package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/guttosm/packing-list-service/internal/catalog"
	"github.com/guttosm/packing-list-service/internal/domain/model"
	"github.com/guttosm/packing-list-service/internal/packing"
)

// Snapshot is the whole JSON document kept by the file backend. It is also
// the shape of a legacy db.json export.
type Snapshot struct {
	Products     []model.Product     `json:"products"`
	HSCodes      []model.HSCode      `json:"hsCodes"`
	PackingLists []model.PackingList `json:"packingLists"`
}

func (s Snapshot) clone() Snapshot {
	out := Snapshot{
		Products:     make([]model.Product, len(s.Products)),
		HSCodes:      append([]model.HSCode(nil), s.HSCodes...),
		PackingLists: make([]model.PackingList, len(s.PackingLists)),
	}
	for i, p := range s.Products {
		out.Products[i] = p.Clone()
	}
	for i, l := range s.PackingLists {
		out.PackingLists[i] = l.Clone()
	}
	return out
}

type rawSnapshot struct {
	Products     []json.RawMessage `json:"products"`
	HSCodes      []json.RawMessage `json:"hsCodes"`
	PackingLists []json.RawMessage `json:"packingLists"`
}

// DecodeSnapshot reads a store document written by any revision of the
// application. Documents are migrated to the canonical shape one by one.
func DecodeSnapshot(data []byte) (Snapshot, error) {
	var raw rawSnapshot
	if err := json.Unmarshal(data, &raw); err != nil {
		return Snapshot{}, fmt.Errorf("decode store document: %w", err)
	}

	snap := Snapshot{
		Products:     make([]model.Product, 0, len(raw.Products)),
		HSCodes:      make([]model.HSCode, 0, len(raw.HSCodes)),
		PackingLists: make([]model.PackingList, 0, len(raw.PackingLists)),
	}
	for i, r := range raw.Products {
		p, err := catalog.MigrateLegacyProduct(r)
		if err != nil {
			return Snapshot{}, fmt.Errorf("product %d: %w", i, err)
		}
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		snap.Products = append(snap.Products, p)
	}
	for i, r := range raw.HSCodes {
		c, err := decodeHSCode(r)
		if err != nil {
			return Snapshot{}, fmt.Errorf("hs code %d: %w", i, err)
		}
		snap.HSCodes = append(snap.HSCodes, c)
	}
	for i, r := range raw.PackingLists {
		l, err := packing.MigrateLegacyList(r)
		if err != nil {
			return Snapshot{}, fmt.Errorf("packing list %d: %w", i, err)
		}
		snap.PackingLists = append(snap.PackingLists, l)
	}
	return snap, nil
}

// decodeHSCode accepts {"id","code"} objects and bare strings.
func decodeHSCode(r json.RawMessage) (model.HSCode, error) {
	var c model.HSCode
	if err := json.Unmarshal(r, &c); err != nil {
		var s string
		if err2 := json.Unmarshal(r, &s); err2 != nil {
			return model.HSCode{}, err
		}
		c.Code = s
	}
	c.Code = strings.TrimSpace(c.Code)
	if formatted, err := catalog.FormatHSCode(c.Code); err == nil {
		c.Code = formatted
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return c, nil
}

// FileStore keeps every entity in one JSON file. Readers share a lock;
// each mutation rewrites the file through a temp file and rename.
type FileStore struct {
	path string
	mu   sync.RWMutex
	doc  Snapshot
}

// OpenFileStore loads path, or starts empty when the file does not exist.
func OpenFileStore(path string) (*FileStore, error) {
	s := &FileStore{path: path, doc: Snapshot{}}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("read store file: %w", err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return s, nil
	}

	doc, err := DecodeSnapshot(data)
	if err != nil {
		return nil, err
	}
	s.doc = doc
	return s, nil
}

// Path returns the backing file.
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) read(fn func(doc *Snapshot)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(&s.doc)
}

// mutate applies fn to a copy of the document and swaps it in only after the
// file was written.
func (s *FileStore) mutate(fn func(doc *Snapshot) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.doc.clone()
	if err := fn(&next); err != nil {
		return err
	}
	if err := s.flush(next); err != nil {
		return err
	}
	s.doc = next
	return nil
}

func (s *FileStore) flush(doc Snapshot) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode store document: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create store directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace store file: %w", err)
	}
	return nil
}

// Import replaces the whole document.
func (s *FileStore) Import(snap Snapshot) error {
	return s.mutate(func(doc *Snapshot) error {
		*doc = snap.clone()
		return nil
	})
}

// HealthCheck verifies the store directory is reachable.
func (s *FileStore) HealthCheck(_ context.Context) error {
	_, err := os.Stat(filepath.Dir(s.path))
	return err
}

// Close is a no-op; every mutation is already on disk.
func (s *FileStore) Close(_ context.Context) error {
	return nil
}

// NewFileStoreRepositories bundles the file repositories behind circuit breakers.
func NewFileStoreRepositories(s *FileStore, breakers Breakers) *Store {
	return &Store{
		Backend:      "file",
		Products:     NewProductRepositoryWithCircuitBreaker(&FileProductRepository{store: s}, breakers.Products),
		HSCodes:      NewHSCodeRepositoryWithCircuitBreaker(&FileHSCodeRepository{store: s}, breakers.HSCodes),
		PackingLists: NewPackingListRepositoryWithCircuitBreaker(&FilePackingListRepository{store: s}, breakers.PackingLists),
		HealthCheck:  s.HealthCheck,
		Close:        s.Close,
	}
}

// FileProductRepository implements ProductRepositoryInterface on a FileStore.
type FileProductRepository struct {
	store *FileStore
}

// NewFileProductRepository creates a product repository on s.
func NewFileProductRepository(s *FileStore) *FileProductRepository {
	return &FileProductRepository{store: s}
}

func (r *FileProductRepository) List(_ context.Context, opts ListOptions) ([]model.Product, int64, error) {
	var out []model.Product
	r.store.read(func(doc *Snapshot) {
		out = make([]model.Product, len(doc.Products))
		for i, p := range doc.Products {
			out[i] = p.Clone()
		}
	})
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return page(out, opts), int64(len(out)), nil
}

func (r *FileProductRepository) GetByID(_ context.Context, id string) (*model.Product, error) {
	var found *model.Product
	r.store.read(func(doc *Snapshot) {
		for _, p := range doc.Products {
			if p.ID == id {
				c := p.Clone()
				found = &c
				return
			}
		}
	})
	if found == nil {
		return nil, ErrNotFound
	}
	return found, nil
}

func (r *FileProductRepository) Create(_ context.Context, product *model.Product) error {
	return r.store.mutate(func(doc *Snapshot) error {
		for _, p := range doc.Products {
			if p.ID == product.ID {
				return ErrDuplicate
			}
		}
		doc.Products = append(doc.Products, product.Clone())
		return nil
	})
}

func (r *FileProductRepository) Update(_ context.Context, product *model.Product) error {
	return r.store.mutate(func(doc *Snapshot) error {
		for i := range doc.Products {
			if doc.Products[i].ID == product.ID {
				doc.Products[i] = product.Clone()
				return nil
			}
		}
		return ErrNotFound
	})
}

func (r *FileProductRepository) Delete(_ context.Context, id string) error {
	return r.store.mutate(func(doc *Snapshot) error {
		for i := range doc.Products {
			if doc.Products[i].ID == id {
				doc.Products = append(doc.Products[:i], doc.Products[i+1:]...)
				return nil
			}
		}
		return ErrNotFound
	})
}

// FileHSCodeRepository implements HSCodeRepositoryInterface on a FileStore.
type FileHSCodeRepository struct {
	store *FileStore
}

// NewFileHSCodeRepository creates an HS code repository on s.
func NewFileHSCodeRepository(s *FileStore) *FileHSCodeRepository {
	return &FileHSCodeRepository{store: s}
}

func (r *FileHSCodeRepository) List(_ context.Context) ([]model.HSCode, error) {
	var out []model.HSCode
	r.store.read(func(doc *Snapshot) {
		out = append([]model.HSCode{}, doc.HSCodes...)
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (r *FileHSCodeRepository) GetByID(_ context.Context, id string) (*model.HSCode, error) {
	var found *model.HSCode
	r.store.read(func(doc *Snapshot) {
		for _, c := range doc.HSCodes {
			if c.ID == id {
				c := c
				found = &c
				return
			}
		}
	})
	if found == nil {
		return nil, ErrNotFound
	}
	return found, nil
}

func (r *FileHSCodeRepository) Create(_ context.Context, code *model.HSCode) error {
	return r.store.mutate(func(doc *Snapshot) error {
		for _, c := range doc.HSCodes {
			if c.Code == code.Code || c.ID == code.ID {
				return ErrDuplicate
			}
		}
		doc.HSCodes = append(doc.HSCodes, *code)
		return nil
	})
}

func (r *FileHSCodeRepository) Delete(_ context.Context, id string) error {
	return r.store.mutate(func(doc *Snapshot) error {
		for i := range doc.HSCodes {
			if doc.HSCodes[i].ID == id {
				doc.HSCodes = append(doc.HSCodes[:i], doc.HSCodes[i+1:]...)
				return nil
			}
		}
		return ErrNotFound
	})
}

// FilePackingListRepository implements PackingListRepositoryInterface on a FileStore.
type FilePackingListRepository struct {
	store *FileStore
}

// NewFilePackingListRepository creates a packing list repository on s.
func NewFilePackingListRepository(s *FileStore) *FilePackingListRepository {
	return &FilePackingListRepository{store: s}
}

func (r *FilePackingListRepository) List(_ context.Context, opts ListOptions) ([]model.PackingList, int64, error) {
	var out []model.PackingList
	r.store.read(func(doc *Snapshot) {
		out = make([]model.PackingList, len(doc.PackingLists))
		for i, l := range doc.PackingLists {
			out[i] = l.Clone()
		}
	})
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return page(out, opts), int64(len(out)), nil
}

func (r *FilePackingListRepository) GetByID(_ context.Context, id string) (*model.PackingList, error) {
	var found *model.PackingList
	r.store.read(func(doc *Snapshot) {
		for _, l := range doc.PackingLists {
			if l.ID == id {
				c := l.Clone()
				found = &c
				return
			}
		}
	})
	if found == nil {
		return nil, ErrNotFound
	}
	return found, nil
}

func (r *FilePackingListRepository) Create(_ context.Context, list *model.PackingList) error {
	return r.store.mutate(func(doc *Snapshot) error {
		for _, l := range doc.PackingLists {
			if l.ID == list.ID {
				return ErrDuplicate
			}
		}
		doc.PackingLists = append(doc.PackingLists, list.Clone())
		return nil
	})
}

func (r *FilePackingListRepository) Update(_ context.Context, list *model.PackingList, expectedUpdatedAt time.Time) error {
	return r.store.mutate(func(doc *Snapshot) error {
		for i := range doc.PackingLists {
			if doc.PackingLists[i].ID != list.ID {
				continue
			}
			if !expectedUpdatedAt.IsZero() && !doc.PackingLists[i].UpdatedAt.Equal(expectedUpdatedAt) {
				return ErrVersionConflict
			}
			doc.PackingLists[i] = list.Clone()
			return nil
		}
		return ErrNotFound
	})
}

func (r *FilePackingListRepository) Delete(_ context.Context, id string) error {
	return r.store.mutate(func(doc *Snapshot) error {
		for i := range doc.PackingLists {
			if doc.PackingLists[i].ID == id {
				doc.PackingLists = append(doc.PackingLists[:i], doc.PackingLists[i+1:]...)
				return nil
			}
		}
		return ErrNotFound
	})
}
