package service

import (
	"context"
	"errors"
	"time"

	"go-cart-catalog/internal/metrics"
	"go-cart-catalog/internal/repository"
	"go-cart-catalog/internal/ws"
	"go-cart-catalog/pkg/apperror"
	"go-cart-catalog/pkg/pagination"

	"github.com/sethvargo/go-retry"
)

const (
	stockRetries = 3
	stockBackoff = 20 * time.Millisecond
)

// EventPublisher pushes stock changes to live dashboard clients.
type EventPublisher interface {
	Publish(ctx context.Context, event ws.Event)
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, ws.Event) {}

// Page is one page of a listing plus the size of the whole filtered set.
type Page[T any] struct {
	Items    []T   `json:"items"`
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"pageSize"`
}

func newPage[T any](items []T, total int64, params pagination.Params) *Page[T] {
	return &Page[T]{Items: items, Total: total, Page: params.Page, PageSize: params.PageSize}
}

func notFound(err error, format string, args ...any) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperror.Newf(apperror.CodeNotFound, format, args...)
	}
	return err
}

func versionConflict(err error, productID uint) error {
	if errors.Is(err, repository.ErrVersionConflict) {
		return apperror.Newf(apperror.CodeConflict, "product %d was modified concurrently", productID)
	}
	return err
}

func duplicateName(err error, name string) error {
	if errors.Is(err, repository.ErrDuplicateName) {
		return apperror.Newf(apperror.CodeConflict, "product name %q already exists", name)
	}
	return err
}

// withStockRetry reruns fn while it fails with CONFLICT, at most stockRetries
// extra times. fn must run its own transaction so each attempt rereads state.
func withStockRetry(ctx context.Context, m *metrics.CartMetrics, op string, fn func(ctx context.Context) error) error {
	backoff := retry.WithMaxRetries(stockRetries, retry.NewConstant(stockBackoff))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := fn(ctx)
		if apperror.Is(err, apperror.CodeConflict) {
			m.IncConflict(op)
			return retry.RetryableError(err)
		}
		return err
	})
}
