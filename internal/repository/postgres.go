package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/guttosm/packing-list-service/internal/domain/model"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Postgres stores every entity as a jsonb document next to the columns used
// for ordering and uniqueness.
type Postgres struct {
	DB *gorm.DB
}

type productRecord struct {
	ID      string         `gorm:"primaryKey"`
	Name    string         `gorm:"index"`
	Data    datatypes.JSON `gorm:"type:jsonb;not null"`
	Created time.Time      `gorm:"column:created_at"`
}

func (productRecord) TableName() string { return "products" }

type hsCodeRecord struct {
	ID   string `gorm:"primaryKey"`
	Code string `gorm:"uniqueIndex;not null"`
}

func (hsCodeRecord) TableName() string { return "hs_codes" }

type packingListRecord struct {
	ID       string         `gorm:"primaryKey"`
	Data     datatypes.JSON `gorm:"type:jsonb;not null"`
	Created  time.Time      `gorm:"column:created_at;index"`
	Revision time.Time      `gorm:"column:updated_at"`
}

func (packingListRecord) TableName() string { return "packing_lists" }

// NewPostgres connects with dsn and migrates the schema.
func NewPostgres(dsn string) (*Postgres, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err == nil {
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	if err := db.AutoMigrate(&productRecord{}, &hsCodeRecord{}, &packingListRecord{}); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}
	return &Postgres{DB: db}, nil
}

// HealthCheck pings the database.
func (p *Postgres) HealthCheck(ctx context.Context) error {
	sqlDB, err := p.DB.DB()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return sqlDB.PingContext(ctx)
}

// Close closes the connection pool.
func (p *Postgres) Close(_ context.Context) error {
	sqlDB, err := p.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// NewPostgresStore bundles the PostgreSQL repositories behind circuit breakers.
func NewPostgresStore(p *Postgres, breakers Breakers) *Store {
	return &Store{
		Backend:      "postgres",
		Products:     NewProductRepositoryWithCircuitBreaker(&PostgresProductRepository{db: p.DB}, breakers.Products),
		HSCodes:      NewHSCodeRepositoryWithCircuitBreaker(&PostgresHSCodeRepository{db: p.DB}, breakers.HSCodes),
		PackingLists: NewPackingListRepositoryWithCircuitBreaker(&PostgresPackingListRepository{db: p.DB}, breakers.PackingLists),
		HealthCheck:  p.HealthCheck,
		Close:        p.Close,
	}
}

func mapGormError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	default:
		return err
	}
}

func paged(q *gorm.DB, opts ListOptions) *gorm.DB {
	if opts.Skip > 0 {
		q = q.Offset(opts.Skip)
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	return q
}

// PostgresProductRepository implements ProductRepositoryInterface with gorm.
type PostgresProductRepository struct {
	db *gorm.DB
}

// NewPostgresProductRepository creates a product repository on p.
func NewPostgresProductRepository(p *Postgres) *PostgresProductRepository {
	return &PostgresProductRepository{db: p.DB}
}

func productToRecord(p *model.Product) (productRecord, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return productRecord{}, err
	}
	return productRecord{ID: p.ID, Name: p.Name, Data: datatypes.JSON(data), Created: p.CreatedAt}, nil
}

func (r *PostgresProductRepository) List(ctx context.Context, opts ListOptions) ([]model.Product, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&productRecord{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []productRecord
	q := paged(r.db.WithContext(ctx).Order("name ASC").Order("id ASC"), opts)
	if err := q.Find(&records).Error; err != nil {
		return nil, 0, err
	}

	products := make([]model.Product, 0, len(records))
	for _, rec := range records {
		var p model.Product
		if err := json.Unmarshal(rec.Data, &p); err != nil {
			return nil, 0, fmt.Errorf("decode product %s: %w", rec.ID, err)
		}
		products = append(products, p)
	}
	return products, total, nil
}

func (r *PostgresProductRepository) GetByID(ctx context.Context, id string) (*model.Product, error) {
	var rec productRecord
	if err := r.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		return nil, mapGormError(err)
	}
	var p model.Product
	if err := json.Unmarshal(rec.Data, &p); err != nil {
		return nil, fmt.Errorf("decode product %s: %w", rec.ID, err)
	}
	return &p, nil
}

func (r *PostgresProductRepository) Create(ctx context.Context, product *model.Product) error {
	rec, err := productToRecord(product)
	if err != nil {
		return err
	}
	return mapGormError(r.db.WithContext(ctx).Create(&rec).Error)
}

func (r *PostgresProductRepository) Update(ctx context.Context, product *model.Product) error {
	rec, err := productToRecord(product)
	if err != nil {
		return err
	}
	res := r.db.WithContext(ctx).Model(&productRecord{}).Where("id = ?", product.ID).
		Updates(map[string]interface{}{"name": rec.Name, "data": rec.Data})
	if res.Error != nil {
		return mapGormError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresProductRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&productRecord{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// PostgresHSCodeRepository implements HSCodeRepositoryInterface with gorm.
type PostgresHSCodeRepository struct {
	db *gorm.DB
}

// NewPostgresHSCodeRepository creates an HS code repository on p.
func NewPostgresHSCodeRepository(p *Postgres) *PostgresHSCodeRepository {
	return &PostgresHSCodeRepository{db: p.DB}
}

func (r *PostgresHSCodeRepository) List(ctx context.Context) ([]model.HSCode, error) {
	var records []hsCodeRecord
	if err := r.db.WithContext(ctx).Order("code ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	codes := make([]model.HSCode, 0, len(records))
	for _, rec := range records {
		codes = append(codes, model.HSCode{ID: rec.ID, Code: rec.Code})
	}
	return codes, nil
}

func (r *PostgresHSCodeRepository) GetByID(ctx context.Context, id string) (*model.HSCode, error) {
	var rec hsCodeRecord
	if err := r.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		return nil, mapGormError(err)
	}
	return &model.HSCode{ID: rec.ID, Code: rec.Code}, nil
}

func (r *PostgresHSCodeRepository) Create(ctx context.Context, code *model.HSCode) error {
	rec := hsCodeRecord{ID: code.ID, Code: code.Code}
	return mapGormError(r.db.WithContext(ctx).Create(&rec).Error)
}

func (r *PostgresHSCodeRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&hsCodeRecord{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// PostgresPackingListRepository implements PackingListRepositoryInterface with gorm.
type PostgresPackingListRepository struct {
	db *gorm.DB
}

// NewPostgresPackingListRepository creates a packing list repository on p.
func NewPostgresPackingListRepository(p *Postgres) *PostgresPackingListRepository {
	return &PostgresPackingListRepository{db: p.DB}
}

func listToRecord(l *model.PackingList) (packingListRecord, error) {
	data, err := json.Marshal(l)
	if err != nil {
		return packingListRecord{}, err
	}
	return packingListRecord{ID: l.ID, Data: datatypes.JSON(data), Created: l.CreatedAt, Revision: l.UpdatedAt}, nil
}

func decodeList(rec packingListRecord) (model.PackingList, error) {
	var l model.PackingList
	if err := json.Unmarshal(rec.Data, &l); err != nil {
		return model.PackingList{}, fmt.Errorf("decode packing list %s: %w", rec.ID, err)
	}
	return l, nil
}

func (r *PostgresPackingListRepository) List(ctx context.Context, opts ListOptions) ([]model.PackingList, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&packingListRecord{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []packingListRecord
	q := paged(r.db.WithContext(ctx).Order("created_at DESC").Order("id ASC"), opts)
	if err := q.Find(&records).Error; err != nil {
		return nil, 0, err
	}

	lists := make([]model.PackingList, 0, len(records))
	for _, rec := range records {
		l, err := decodeList(rec)
		if err != nil {
			return nil, 0, err
		}
		lists = append(lists, l)
	}
	return lists, total, nil
}

func (r *PostgresPackingListRepository) GetByID(ctx context.Context, id string) (*model.PackingList, error) {
	var rec packingListRecord
	if err := r.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		return nil, mapGormError(err)
	}
	l, err := decodeList(rec)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *PostgresPackingListRepository) Create(ctx context.Context, list *model.PackingList) error {
	rec, err := listToRecord(list)
	if err != nil {
		return err
	}
	return mapGormError(r.db.WithContext(ctx).Create(&rec).Error)
}

func (r *PostgresPackingListRepository) Update(ctx context.Context, list *model.PackingList, expectedUpdatedAt time.Time) error {
	rec, err := listToRecord(list)
	if err != nil {
		return err
	}

	q := r.db.WithContext(ctx).Model(&packingListRecord{}).Where("id = ?", list.ID)
	if !expectedUpdatedAt.IsZero() {
		q = q.Where("updated_at = ?", expectedUpdatedAt)
	}
	res := q.Updates(map[string]interface{}{"data": rec.Data, "updated_at": rec.Revision})
	if res.Error != nil {
		return mapGormError(res.Error)
	}
	if res.RowsAffected > 0 {
		return nil
	}

	var n int64
	if err := r.db.WithContext(ctx).Model(&packingListRecord{}).Where("id = ?", list.ID).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return ErrVersionConflict
}

func (r *PostgresPackingListRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&packingListRecord{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
