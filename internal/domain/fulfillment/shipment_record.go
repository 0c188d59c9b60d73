package fulfillment

import (
	"github.com/google/uuid"

	"github.com/kargopanel/backend/internal/domain/shared"
)

// ShipmentRecordStatus is the terminal status written at creation time
type ShipmentRecordStatus string

const (
	ShipmentRecordStatusCreated ShipmentRecordStatus = "created"
)

// ShipmentRecord is the append-only audit row written once per successful
// carrier call. Records are never updated afterwards.
type ShipmentRecord struct {
	shared.TenantAggregateRoot
	OrderID        uuid.UUID            `gorm:"type:uuid;not null;index"`
	OrderNumber    string               `gorm:"type:varchar(100);not null"`
	TrackingNumber string               `gorm:"type:varchar(100);not null"`
	Status         ShipmentRecordStatus `gorm:"type:varchar(20);not null;default:'created'"`
	CarrierName    string               `gorm:"type:varchar(100);not null"`
}

// TableName returns the table name for GORM
func (ShipmentRecord) TableName() string {
	return "shipment_records"
}

// NewShipmentRecord creates the audit row for a successful carrier call
func NewShipmentRecord(tenantID, orderID uuid.UUID, orderNumber, trackingNumber, carrierName string) (*ShipmentRecord, error) {
	if trackingNumber == "" {
		return nil, shared.NewDomainError("INVALID_TRACKING", "Tracking number cannot be empty")
	}
	return &ShipmentRecord{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		OrderID:             orderID,
		OrderNumber:         orderNumber,
		TrackingNumber:      trackingNumber,
		Status:              ShipmentRecordStatusCreated,
		CarrierName:         carrierName,
	}, nil
}
