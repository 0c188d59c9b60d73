package fulfillment

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kargopanel/backend/internal/domain/shared"
)

// CarrierConnection holds a tenant's credentials for the carrier
// integration. At most one connection is active per tenant at a time;
// the fulfillment pipeline reads it once per batch and never mutates it.
type CarrierConnection struct {
	shared.TenantAggregateRoot
	CarrierName string `gorm:"type:varchar(100);not null"`
	Username    string `gorm:"type:varchar(200);not null"`
	Password    string `gorm:"type:varchar(200);not null"`
	IsActive    bool   `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (CarrierConnection) TableName() string {
	return "carrier_connections"
}

// NewCarrierConnection creates a connection for a tenant
func NewCarrierConnection(tenantID uuid.UUID, carrierName, username, password string) (*CarrierConnection, error) {
	if strings.TrimSpace(carrierName) == "" {
		return nil, shared.NewDomainError("INVALID_CARRIER", "Carrier name cannot be empty")
	}
	if strings.TrimSpace(username) == "" || strings.TrimSpace(password) == "" {
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Carrier credentials cannot be empty")
	}
	return &CarrierConnection{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		CarrierName:         carrierName,
		Username:            username,
		Password:            password,
		IsActive:            true,
	}, nil
}

// UpdateCredentials replaces the stored credentials
func (c *CarrierConnection) UpdateCredentials(username, password string) error {
	if strings.TrimSpace(username) == "" || strings.TrimSpace(password) == "" {
		return shared.NewDomainError("INVALID_CREDENTIALS", "Carrier credentials cannot be empty")
	}
	c.Username = username
	c.Password = password
	c.UpdatedAt = time.Now()
	return nil
}

// Activate marks the connection active
func (c *CarrierConnection) Activate() {
	c.IsActive = true
	c.UpdatedAt = time.Now()
}

// Deactivate marks the connection inactive
func (c *CarrierConnection) Deactivate() {
	c.IsActive = false
	c.UpdatedAt = time.Now()
}
