package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/bekzod-t/trade_ledger_app/internal/apperrors"
	"github.com/bekzod-t/trade_ledger_app/internal/core/domain"
	portsrepo "github.com/bekzod-t/trade_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/bekzod-t/trade_ledger_app/internal/core/ports/services"
)

type productService struct {
	productRepo portsrepo.ProductRepositoryFacade
}

// NewProductService creates the product reference data service.
func NewProductService(productRepo portsrepo.ProductRepositoryFacade) portssvc.ProductSvcFacade {
	return &productService{productRepo: productRepo}
}

func (s *productService) GetProductByID(ctx context.Context, productID string) (*domain.Product, error) {
	product, err := s.productRepo.FindProductByID(ctx, productID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: ID %s", apperrors.ErrProductNotFound, productID)
		}
		return nil, fmt.Errorf("failed to fetch product %s: %w", productID, err)
	}
	return product, nil
}

func (s *productService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	products, err := s.productRepo.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}
