package catalog

import (
	"context"

	"storefront-service/internal/models"
	"storefront-service/internal/search"
	"storefront-service/internal/store"
	"storefront-service/internal/util"

	"go.uber.org/zap"
)

// Service is the read-only catalog facade. The storefront never mutates
// products.
type Service struct {
	store  *store.Store
	logger *zap.Logger
}

// NewService creates a catalog service.
func NewService(store *store.Store) *Service {
	return &Service{
		store:  store,
		logger: util.GetLogger(),
	}
}

// List returns products matching the browse filter.
func (s *Service) List(ctx context.Context, filter search.Filter) ([]models.Product, error) {
	ctx, span := util.StartSpan(ctx, "catalog.Service.List")
	defer span.End()

	return s.store.GetProducts(ctx, filter)
}

// Get returns one product by id.
func (s *Service) Get(ctx context.Context, id int64) (*models.Product, error) {
	return s.store.GetProductByID(ctx, id)
}

// Categories returns the distinct categories for filter UIs.
func (s *Service) Categories(ctx context.Context) ([]string, error) {
	return s.store.GetCategories(ctx)
}
