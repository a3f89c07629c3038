package repository

import (
	"context"
	"errors"

	"go-cart-catalog/pkg/pagination"

	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("record not found")
	// ErrVersionConflict means a guarded write matched no row: someone else
	// bumped the version first.
	ErrVersionConflict = errors.New("version conflict")
	// ErrDuplicateName is a write rejected by the unique product name index.
	ErrDuplicateName = errors.New("duplicate product name")
)

// Condition is one WHERE fragment with its bind arguments.
type Condition struct {
	Expr string
	Args []interface{}
}

func Where(expr string, args ...interface{}) Condition {
	return Condition{Expr: expr, Args: args}
}

// Query describes a lookup: filters, ordering, eager-loaded relations and,
// for FindPage, the page to fetch.
type Query struct {
	Where    []Condition
	Order    []string
	Preload  []string
	Page     int
	PageSize int
}

func (q Query) apply(db *gorm.DB) *gorm.DB {
	for _, c := range q.Where {
		db = db.Where(c.Expr, c.Args...)
	}
	for _, rel := range q.Preload {
		db = db.Preload(rel)
	}
	return db
}

func (q Query) order(db *gorm.DB) *gorm.DB {
	for _, o := range q.Order {
		db = db.Order(o)
	}
	return db
}

// FindOne returns the first row matching q, or ErrNotFound.
func FindOne[T any](ctx context.Context, db *gorm.DB, q Query) (*T, error) {
	var item T
	err := q.order(q.apply(db.WithContext(ctx))).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// FindAll returns every row matching q without pagination.
func FindAll[T any](ctx context.Context, db *gorm.DB, q Query) ([]T, error) {
	items := make([]T, 0)
	err := q.order(q.apply(db.WithContext(ctx))).Find(&items).Error
	return items, err
}

// FindPage returns one 1-based page of rows plus the count of the whole
// filtered set.
func FindPage[T any](ctx context.Context, db *gorm.DB, q Query) ([]T, int64, error) {
	page := pagination.Normalize(q.Page, q.PageSize)

	var total int64
	countQ := db.WithContext(ctx).Model(new(T))
	for _, c := range q.Where {
		countQ = countQ.Where(c.Expr, c.Args...)
	}
	if err := countQ.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	items := make([]T, 0, page.PageSize)
	err := q.order(q.apply(db.WithContext(ctx))).
		Offset(page.Offset()).
		Limit(page.PageSize).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}
