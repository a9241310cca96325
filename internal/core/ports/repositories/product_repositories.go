package repositories

import (
	"context"

	"github.com/bekzod-t/trade_ledger_app/internal/core/domain"
)

// ProductRepositoryFacade reads product reference data.
type ProductRepositoryFacade interface {
	FindProductByID(ctx context.Context, productID string) (*domain.Product, error)

	// FindProductsByIDs returns the products found keyed by id. Missing ids
	// are simply absent from the map; the caller decides whether that is an
	// error.
	FindProductsByIDs(ctx context.Context, productIDs []string) (map[string]domain.Product, error)

	ListProducts(ctx context.Context) ([]domain.Product, error)
}
