package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/kargopanel/backend/internal/domain/shared"
)

// ProductRepository defines persistence operations for products
type ProductRepository interface {
	shared.TenantRepository[Product]

	// FindByCode finds a product by its exact code within a tenant
	FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*Product, error)

	// FindByCodeFold finds a product by code trying the exact, lower-case
	// and upper-case spellings in that order. Marketplace payloads are not
	// consistent about SKU casing.
	FindByCodeFold(ctx context.Context, tenantID uuid.UUID, code string) (*Product, error)

	// FindByCodes loads products by a set of codes, keyed by exact code
	FindByCodes(ctx context.Context, tenantID uuid.UUID, codes []string) (map[string]*Product, error)
}
