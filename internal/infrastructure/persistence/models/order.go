package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/kargopanel/backend/internal/domain/fulfillment"
)

// OrderModel is the GORM model for the orders table. The raw marketplace
// payload and the print-state bag live in jsonb-friendly columns; mapping
// to the domain aggregate happens here and nowhere else.
type OrderModel struct {
	TenantAggregateModel
	Platform      string          `gorm:"type:varchar(50);not null;index"`
	OrderNumber   string          `gorm:"column:order_number;type:varchar(100);not null;uniqueIndex:idx_order_tenant_number,priority:2"`
	Status        string          `gorm:"type:varchar(20);not null;default:'confirmed';index"`
	CustomerName  string          `gorm:"column:customer_name;type:varchar(200);not null"`
	Address       string          `gorm:"type:text"`
	City          string          `gorm:"type:varchar(100)"`
	District      string          `gorm:"type:varchar(100)"`
	Phone         string          `gorm:"type:varchar(30)"`
	RecipientCode string          `gorm:"column:recipient_code;type:varchar(50)"`
	ProductCode   string          `gorm:"column:product_code;type:varchar(50)"`
	ProductName   string          `gorm:"column:product_name;type:varchar(200)"`
	DeclaredDesi  decimal.Decimal `gorm:"column:declared_desi;type:decimal(18,4);not null;default:0"`
	RawPayload    []byte          `gorm:"column:raw_payload;type:jsonb"`

	CargoTrackingNumber *string    `gorm:"column:cargo_tracking_number;type:varchar(100)"`
	CargoProvider       *string    `gorm:"column:cargo_provider;type:varchar(100)"`
	IsPrinted           bool       `gorm:"column:is_printed;not null;default:false;index"`
	PrintedAt           *time.Time `gorm:"column:printed_at"`
}

// TableName returns the table name for OrderModel
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts OrderModel to the domain Order aggregate
func (m *OrderModel) ToDomain() *fulfillment.Order {
	order := &fulfillment.Order{
		Platform:            m.Platform,
		OrderNumber:         m.OrderNumber,
		Status:              fulfillment.OrderStatus(m.Status),
		CustomerName:        m.CustomerName,
		Address:             m.Address,
		City:                m.City,
		District:            m.District,
		Phone:               m.Phone,
		RecipientCode:       m.RecipientCode,
		ProductCode:         m.ProductCode,
		ProductName:         m.ProductName,
		DeclaredDesi:        m.DeclaredDesi,
		RawPayload:          m.RawPayload,
		CargoTrackingNumber: m.CargoTrackingNumber,
		CargoProvider:       m.CargoProvider,
		IsPrinted:           m.IsPrinted,
		PrintedAt:           m.PrintedAt,
	}
	m.PopulateDomain(&order.TenantAggregateRoot)
	return order
}

// OrderModelFromDomain creates an OrderModel from the domain Order
func OrderModelFromDomain(o *fulfillment.Order) *OrderModel {
	m := &OrderModel{
		Platform:            o.Platform,
		OrderNumber:         o.OrderNumber,
		Status:              string(o.Status),
		CustomerName:        o.CustomerName,
		Address:             o.Address,
		City:                o.City,
		District:            o.District,
		Phone:               o.Phone,
		RecipientCode:       o.RecipientCode,
		ProductCode:         o.ProductCode,
		ProductName:         o.ProductName,
		DeclaredDesi:        o.DeclaredDesi,
		RawPayload:          o.RawPayload,
		CargoTrackingNumber: o.CargoTrackingNumber,
		CargoProvider:       o.CargoProvider,
		IsPrinted:           o.IsPrinted,
		PrintedAt:           o.PrintedAt,
	}
	m.FromDomain(o.TenantAggregateRoot)
	return m
}
