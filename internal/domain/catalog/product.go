package catalog

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kargopanel/backend/internal/domain/shared"
)

// ProductStatus represents the status of a product
type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusInactive ProductStatus = "inactive"
)

// Product represents a catalog entry with its physical packaging data.
// It is the aggregate root for product-related operations.
type Product struct {
	shared.TenantAggregateRoot
	Code              string             `gorm:"type:varchar(50);not null;uniqueIndex:idx_product_tenant_code,priority:2"`
	Name              string             `gorm:"type:varchar(200);not null"`
	Barcode           string             `gorm:"type:varchar(50);index"`
	Status            ProductStatus      `gorm:"type:varchar(20);not null;default:'active'"`
	ParcelDefinitions []ParcelDefinition `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// ParcelDefinition describes one physical package of a single product unit.
// A product shipping as two boxes carries two definitions.
type ParcelDefinition struct {
	shared.BaseEntity
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Width     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Height    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Depth     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Weight    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Desi      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	SortOrder int             `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (ParcelDefinition) TableName() string {
	return "product_parcel_definitions"
}

// NewProduct creates a new product
func NewProduct(tenantID uuid.UUID, code, name string) (*Product, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_CODE", "Product code cannot be empty")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}

	return &Product{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                code,
		Name:                name,
		Status:              ProductStatusActive,
		ParcelDefinitions:   make([]ParcelDefinition, 0),
	}, nil
}

// AddParcelDefinition appends one packaging unit to the product.
// Desi may be declared directly or derived from dimensions when zero.
func (p *Product) AddParcelDefinition(width, height, depth, weight, desi decimal.Decimal) error {
	if width.IsNegative() || height.IsNegative() || depth.IsNegative() || weight.IsNegative() || desi.IsNegative() {
		return shared.NewDomainError("INVALID_PARCEL", "Parcel dimensions cannot be negative")
	}
	if desi.IsZero() {
		desi = VolumetricDesi(width, height, depth)
	}

	def := ParcelDefinition{
		BaseEntity: shared.NewBaseEntity(),
		ProductID:  p.ID,
		Width:      width,
		Height:     height,
		Depth:      depth,
		Weight:     weight,
		Desi:       desi,
		SortOrder:  len(p.ParcelDefinitions),
	}
	p.ParcelDefinitions = append(p.ParcelDefinitions, def)
	return nil
}

// HasParcelDefinitions reports whether any packaging data is attached
func (p *Product) HasParcelDefinitions() bool {
	return len(p.ParcelDefinitions) > 0
}

// UnitDesi returns the summed desi of one product unit's parcels
func (p *Product) UnitDesi() decimal.Decimal {
	total := decimal.Zero
	for _, def := range p.ParcelDefinitions {
		total = total.Add(def.Desi)
	}
	return total
}

// desiDivisor is the industry divisor for volumetric weight in cm³
var desiDivisor = decimal.NewFromInt(3000)

// VolumetricDesi computes desi from parcel dimensions in centimeters
func VolumetricDesi(width, height, depth decimal.Decimal) decimal.Decimal {
	return width.Mul(height).Mul(depth).DivRound(desiDivisor, 4)
}
